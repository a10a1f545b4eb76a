package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config reads a key from the environment, loading .env the first time.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment")
		}
	})
	return os.Getenv(key)
}

// TicketConfig carries everything the ticket credential issuer and the
// redemption endpoint need. It is built once in main and passed down so the
// token code never reads the environment at call time.
type TicketConfig struct {
	Secret     []byte
	TTL        time.Duration
	APIBaseURL string
	QRSize     int
}

func LoadTicketConfig() TicketConfig {
	secret := Config("TICKET_TOKEN_SECRET")
	if secret == "" {
		// fallback keeps local setups working with a single secret
		secret = Config("JWT_SECRET")
	}

	ttl := 15 * time.Minute
	if v := Config("TICKET_TOKEN_TTL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			ttl = time.Duration(m) * time.Minute
		}
	}

	base := Config("API_BASE_URL")
	if base == "" {
		base = "http://localhost:8002/api/v1"
	}

	return TicketConfig{
		Secret:     []byte(secret),
		TTL:        ttl,
		APIBaseURL: base,
		QRSize:     256,
	}
}
