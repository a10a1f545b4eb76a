package helper

import (
	"bytes"
	"cinema_booking/config"
	"cinema_booking/model"
	"errors"
	"image/png"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testIssuer(ttl time.Duration) *TicketIssuer {
	return NewTicketIssuer(config.TicketConfig{
		Secret:     []byte("ticket-test-secret"),
		TTL:        ttl,
		APIBaseURL: "http://localhost:8002/api/v1",
		QRSize:     128,
	})
}

func TestTicketTokenRoundTrip(t *testing.T) {
	issuer := testIssuer(time.Minute)

	token, err := issuer.Mint(42)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("want booking detail id 42, got %d", id)
	}
}

func TestTicketTokenTamperingInvalidatesSignature(t *testing.T) {
	issuer := testIssuer(time.Minute)

	token, err := issuer.Mint(42)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	// flip a character inside the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := issuer.Verify(tampered); !errors.Is(err, ErrInvalidTicketToken) {
		t.Fatalf("tampered token must fail verification, got %v", err)
	}
}

func TestTicketTokenExpiry(t *testing.T) {
	issuer := testIssuer(-time.Minute)

	token, err := issuer.Mint(7)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidTicketToken) {
		t.Fatalf("expired token must be rejected, got %v", err)
	}
}

func TestTicketTokenWrongSecret(t *testing.T) {
	issuer := testIssuer(time.Minute)
	other := NewTicketIssuer(config.TicketConfig{
		Secret:     []byte("different-secret"),
		TTL:        time.Minute,
		APIBaseURL: "http://localhost:8002/api/v1",
		QRSize:     128,
	})

	token, err := other.Mint(7)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidTicketToken) {
		t.Fatalf("token from another key must be rejected, got %v", err)
	}
}

func TestSessionTokenIsNotATicket(t *testing.T) {
	issuer := testIssuer(time.Minute)

	// same secret and algorithm, but no ticket audience
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["bookingDetailId"] = 42
	claims["exp"] = time.Now().Add(time.Minute).Unix()
	signed, err := token.SignedString([]byte("ticket-test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidTicketToken) {
		t.Fatalf("token without ticket audience must be rejected, got %v", err)
	}
}

func TestIssueBuildsFullArtifact(t *testing.T) {
	issuer := testIssuer(time.Minute)

	artifact, err := issuer.Issue(model.BookingDetail{DTO: model.DTO{ID: 42}, BookingId: 1, SeatNumber: 12})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if artifact.BookingDetailId != 42 || artifact.SeatNumber != 12 {
		t.Fatalf("artifact must carry the seat identity, got %+v", artifact)
	}
	if !strings.HasPrefix(artifact.QRUrl, "http://localhost:8002/api/v1/bookings/validate-booking-detail?token=") {
		t.Fatalf("unexpected redemption url: %s", artifact.QRUrl)
	}

	parsed, err := url.Parse(artifact.QRUrl)
	if err != nil {
		t.Fatalf("redemption url must parse: %v", err)
	}
	if got := parsed.Query().Get("token"); got != artifact.Token {
		t.Fatal("url token must match the minted token")
	}

	img, err := png.Decode(bytes.NewReader(artifact.QRImage))
	if err != nil {
		t.Fatalf("artifact image must be a PNG: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Fatalf("want 128px QR, got %d", img.Bounds().Dx())
	}

	if id, err := issuer.Verify(artifact.Token); err != nil || id != 42 {
		t.Fatalf("artifact token must verify to 42, got %d, %v", id, err)
	}
}
