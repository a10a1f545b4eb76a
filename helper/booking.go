package helper

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSeatCountMismatch     = errors.New("reserved seats do not match declared seat counts")
	ErrDuplicateSeat         = errors.New("duplicate seat number in request")
	ErrNotFound              = errors.New("not found")
	ErrInvalidTransition     = errors.New("invalid booking status transition")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrCannotCancelValidated = errors.New("a validated booking cannot be cancelled")
	ErrAlreadyValidated      = errors.New("booking detail is already validated")
)

// BuildBookingDetails checks the seat allocation invariant and returns the
// seat line-item drafts for a new booking. Pure, no side effects.
func BuildBookingDetails(numberOfSeats, numberOfAccessibleSeats int, seats []model.ReservedSeatInput) ([]model.BookingDetail, error) {
	if numberOfSeats < 0 || numberOfAccessibleSeats < 0 {
		return nil, fmt.Errorf("%w: seat counts must not be negative", ErrSeatCountMismatch)
	}

	declared := numberOfSeats + numberOfAccessibleSeats
	if len(seats) != declared {
		return nil, fmt.Errorf("%w: %d reserved seats for %d declared", ErrSeatCountMismatch, len(seats), declared)
	}

	seen := make(map[int]bool, len(seats))
	details := make([]model.BookingDetail, 0, len(seats))
	for _, seat := range seats {
		if seat.SeatNumber <= 0 {
			return nil, fmt.Errorf("%w: seat number must be positive", ErrSeatCountMismatch)
		}
		if seen[seat.SeatNumber] {
			return nil, fmt.Errorf("%w: seat %d", ErrDuplicateSeat, seat.SeatNumber)
		}
		seen[seat.SeatNumber] = true
		// isValidated is always forced false on creation, whatever the client sent
		details = append(details, model.BookingDetail{SeatNumber: seat.SeatNumber, IsValidated: false})
	}

	return details, nil
}

// CreateBooking persists a booking with its seat line items in one
// transaction. User and session must exist; on any failure nothing is kept.
func CreateBooking(db *gorm.DB, input model.CreateBookingInput) (*model.Booking, error) {
	details, err := BuildBookingDetails(input.NumberOfSeats, input.NumberOfAccessibleSeats, input.ReservedSeats)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var user model.User
	if err := tx.First(&user, input.UserId).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, input.UserId)
		}
		return nil, err
	}

	var session model.Session
	if err := tx.First(&session, input.SessionId).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %d", ErrNotFound, input.SessionId)
		}
		return nil, err
	}

	booking := model.Booking{
		PublicCode:              "BKG-" + uuid.New().String()[:8],
		Status:                  constants.BOOKING_PENDING,
		UserId:                  user.ID,
		SessionId:               session.ID,
		NumberOfSeats:           input.NumberOfSeats,
		NumberOfAccessibleSeats: input.NumberOfAccessibleSeats,
		TotalPrice:              input.TotalPrice,
		BookingDetails:          details,
	}

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &booking, nil
}

// GetBooking loads a booking with user, session and seat line items so callers
// observe a consistent snapshot.
func GetBooking(db *gorm.DB, id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := db.Preload("User").Preload("Session").Preload("BookingDetails").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &booking, nil
}

// ValidateBooking moves a booking PENDING -> VALIDATED. Only status changes;
// seat line items are untouched.
func ValidateBooking(db *gorm.DB, id uint) (*model.Booking, error) {
	booking, err := GetBooking(db, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != constants.BOOKING_PENDING {
		return nil, fmt.Errorf("%w: %s -> VALIDATED", ErrInvalidTransition, booking.Status)
	}

	booking.Status = constants.BOOKING_VALIDATED
	if err := db.Model(booking).Update("status", constants.BOOKING_VALIDATED).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking moves a booking PENDING -> CANCELLED. Terminal states report
// why the cancel is refused.
func CancelBooking(db *gorm.DB, id uint) (*model.Booking, error) {
	booking, err := GetBooking(db, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case constants.BOOKING_CANCELLED:
		return nil, ErrAlreadyCancelled
	case constants.BOOKING_VALIDATED:
		return nil, ErrCannotCancelValidated
	case constants.BOOKING_PENDING:
		// allowed
	default:
		return nil, fmt.Errorf("%w: %s -> CANCELLED", ErrInvalidTransition, booking.Status)
	}

	booking.Status = constants.BOOKING_CANCELLED
	if err := db.Model(booking).Update("status", constants.BOOKING_CANCELLED).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// ValidateBookingDetail is the single-use enforcement point for seat tickets.
// The flip is a conditional update, so two concurrent redemptions of the same
// seat can never both succeed: exactly one sees RowsAffected == 1.
func ValidateBookingDetail(db *gorm.DB, bookingDetailId uint) (*model.BookingDetail, error) {
	res := db.Model(&model.BookingDetail{}).
		Where("id = ? AND is_validated = ?", bookingDetailId, false).
		Update("is_validated", true)
	if res.Error != nil {
		return nil, res.Error
	}

	var detail model.BookingDetail
	if res.RowsAffected == 0 {
		if err := db.First(&detail, bookingDetailId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: booking detail %d", ErrNotFound, bookingDetailId)
			}
			return nil, err
		}
		return nil, ErrAlreadyValidated
	}

	if err := db.First(&detail, bookingDetailId).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindBookingDetailBySeat resolves the administrative (bookingId, seatNumber)
// lookup key to a booking detail id.
func FindBookingDetailBySeat(db *gorm.DB, bookingId uint, seatNumber int) (*model.BookingDetail, error) {
	var detail model.BookingDetail
	if err := db.Where("booking_id = ? AND seat_number = ?", bookingId, seatNumber).
		First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: seat %d in booking %d", ErrNotFound, seatNumber, bookingId)
		}
		return nil, err
	}
	return &detail, nil
}

// DeleteBooking hard-deletes a booking and its seat line items.
// Administrative escape hatch, outside the normal lifecycle.
func DeleteBooking(db *gorm.DB, id uint) error {
	booking, err := GetBooking(db, id)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.BookingDetail{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&model.Booking{}, booking.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ExpirePendingBookings cancels PENDING bookings whose session started more
// than 30 minutes ago. Every booking goes through the regular cancel
// transition so the state machine stays the only writer of status.
func ExpirePendingBookings(db *gorm.DB) {
	cutoff := time.Now().Add(-30 * time.Minute)

	var stale []model.Booking
	err := db.
		Joins("JOIN sessions ON sessions.id = bookings.session_id").
		Where("bookings.status = ? AND sessions.start_time < ?", constants.BOOKING_PENDING, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("failed to scan stale bookings: %v", err)
		return
	}

	for _, booking := range stale {
		if _, err := CancelBooking(db, booking.ID); err != nil {
			log.Printf("failed to expire booking %d: %v", booking.ID, err)
		}
	}

	if len(stale) > 0 {
		log.Printf("expired %d stale pending bookings", len(stale))
	}
}
