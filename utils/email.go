package utils

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strconv"

	"cinema_booking/config"

	"gopkg.in/gomail.v2"
)

type BookingConfirmationData struct {
	BookingCode string
	MovieName   string
	Showtime    string
	Seats       string
	TotalPrice  float64
}

type TicketAttachment struct {
	SeatNumber int
	PNG        []byte
}

// SendBookingConfirmationEmail mails the booking summary with one QR ticket
// attached per seat. Runs async and is a no-op when SMTP is not configured.
func SendBookingConfirmationEmail(to string, data BookingConfirmationData, tickets []TicketAttachment) {
	host := config.Config("SMTP_HOST")
	if host == "" || to == "" {
		return
	}

	go func() {
		portStr := config.Config("SMTP_PORT")
		username := config.Config("SMTP_USERNAME")
		password := config.Config("SMTP_PASSWORD")
		from := config.Config("SMTP_FROM")

		port, _ := strconv.Atoi(portStr)
		if port == 0 {
			port = 587
		}

		body := fmt.Sprintf(
			"Booking %s confirmed.\nMovie: %s\nShowtime: %s\nSeats: %s\nTotal: %.2f\n\nPresent the attached QR codes at the door.",
			data.BookingCode, data.MovieName, data.Showtime, data.Seats, data.TotalPrice,
		)

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Booking confirmation #"+data.BookingCode)
		m.SetBody("text/plain", body)

		for _, t := range tickets {
			png := t.PNG
			filename := fmt.Sprintf("ticket_seat_%d.png", t.SeatNumber)
			m.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(png))
				return err
			}))
		}

		d := gomail.NewDialer(host, port, username, password)
		if err := d.DialAndSend(m); err != nil {
			log.Printf("failed to send confirmation email for booking %s: %v", data.BookingCode, err)
		}
	}()
}
