package helper

import (
	"cinema_booking/database"
	"log"

	"github.com/robfig/cron/v3"
)

var bookingScheduler *cron.Cron

// StartBookingExpiryScheduler sweeps stale PENDING bookings every 5 minutes.
func StartBookingExpiryScheduler() {
	bookingScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := bookingScheduler.AddFunc("*/5 * * * *", func() {
		ExpirePendingBookings(database.DB)
	})
	if err != nil {
		log.Printf("failed to start booking expiry scheduler: %v", err)
		return
	}

	bookingScheduler.Start()
	log.Println("booking expiry scheduler started (every 5 minutes)")
}

func StopBookingExpiryScheduler() {
	if bookingScheduler != nil {
		bookingScheduler.Stop()
	}
}
