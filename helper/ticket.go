package helper

import (
	"cinema_booking/config"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"time"
)

// ticketAudience separates redemption credentials from session tokens; a
// session JWT presented at the door never verifies, even with a shared secret.
const ticketAudience = "ticket-redemption"

var ErrInvalidTicketToken = errors.New("invalid or expired ticket token")

// TicketIssuer mints and verifies the signed, single-purpose credential bound
// to one seat line item. Configured once at startup, no environment reads here.
type TicketIssuer struct {
	cfg config.TicketConfig
}

func NewTicketIssuer(cfg config.TicketConfig) *TicketIssuer {
	return &TicketIssuer{cfg: cfg}
}

func (ti *TicketIssuer) Mint(bookingDetailId uint) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["bookingDetailId"] = bookingDetailId
	claims["aud"] = ticketAudience
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ti.cfg.TTL).Unix()

	return token.SignedString(ti.cfg.Secret)
}

func (ti *TicketIssuer) RedemptionURL(token string) string {
	base := strings.TrimRight(ti.cfg.APIBaseURL, "/")
	return fmt.Sprintf("%s/bookings/validate-booking-detail?token=%s", base, url.QueryEscape(token))
}

// Issue builds the full artifact for one seat: token, redemption URL and the
// QR PNG of that URL. Any failure returns an error, never a partial artifact.
func (ti *TicketIssuer) Issue(detail model.BookingDetail) (model.TicketArtifact, error) {
	token, err := ti.Mint(detail.ID)
	if err != nil {
		return model.TicketArtifact{}, err
	}

	qrUrl := ti.RedemptionURL(token)
	png, err := utils.GenerateQRCode(qrUrl, ti.cfg.QRSize)
	if err != nil {
		return model.TicketArtifact{}, err
	}

	return model.TicketArtifact{
		BookingDetailId: detail.ID,
		SeatNumber:      detail.SeatNumber,
		Token:           token,
		QRUrl:           qrUrl,
		QRImage:         png,
	}, nil
}

// Verify checks signature, expiry and audience and returns the bound booking
// detail id. Callers treat any failure as an authorization failure.
func (ti *TicketIssuer) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.cfg.Secret, nil
	}, jwt.WithAudience(ticketAudience), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidTicketToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidTicketToken
	}
	idFloat, ok := claims["bookingDetailId"].(float64)
	if !ok || idFloat <= 0 {
		return 0, ErrInvalidTicketToken
	}

	return uint(idFloat), nil
}
