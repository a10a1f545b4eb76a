package helper

import (
	"cinema_booking/model"
	"strings"

	"gorm.io/gorm"
)

// PriceForQuality returns the unit seat price for a theater quality tier.
func PriceForQuality(quality string) float64 {
	switch strings.ToUpper(quality) {
	case "IMAX":
		return 16.0
	case "PREMIUM":
		return 12.5
	default:
		return 9.5
	}
}

// SessionUnitPrice resolves the per-seat price for a session, preferring the
// price fixed on the session over the theater quality tier.
func SessionUnitPrice(db *gorm.DB, sessionId uint) (float64, error) {
	var session model.Session
	if err := db.Preload("Theater").First(&session, sessionId).Error; err != nil {
		return 0, err
	}
	if session.UnitPrice > 0 {
		return session.UnitPrice, nil
	}
	return PriceForQuality(session.Theater.Quality), nil
}
