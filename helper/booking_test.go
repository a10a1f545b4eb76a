package helper

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	return db
}

func seedBookingFixtures(t *testing.T, db *gorm.DB) (model.User, model.Session) {
	t.Helper()

	user := model.User{Username: "moviegoer", Email: "goer@example.com", Password: "x", Role: constants.ROLE_CUSTOMER, Active: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	movie := model.Movie{Title: "Test Feature", Slug: "test-feature"}
	if err := db.Create(&movie).Error; err != nil {
		t.Fatalf("failed to seed movie: %v", err)
	}
	theater := model.Theater{Name: "Hall A", Quality: "STANDARD", Capacity: 100}
	if err := db.Create(&theater).Error; err != nil {
		t.Fatalf("failed to seed theater: %v", err)
	}
	session := model.Session{MovieId: movie.ID, TheaterId: theater.ID, StartTime: time.Now().Add(24 * time.Hour), UnitPrice: 9.5}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	return user, session
}

func createTestBooking(t *testing.T, db *gorm.DB, user model.User, session model.Session, seats ...int) *model.Booking {
	t.Helper()

	reserved := make([]model.ReservedSeatInput, 0, len(seats))
	for _, s := range seats {
		reserved = append(reserved, model.ReservedSeatInput{SeatNumber: s})
	}
	booking, err := CreateBooking(db, model.CreateBookingInput{
		UserId:        user.ID,
		SessionId:     session.ID,
		NumberOfSeats: len(seats),
		TotalPrice:    float64(len(seats)) * 9.5,
		ReservedSeats: reserved,
	})
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

func TestBuildBookingDetails(t *testing.T) {
	tests := []struct {
		name       string
		seats      int
		accessible int
		reserved   []model.ReservedSeatInput
		wantErr    error
		wantCount  int
	}{
		{
			name:      "matching counts",
			seats:     2,
			reserved:  []model.ReservedSeatInput{{SeatNumber: 12}, {SeatNumber: 13}},
			wantCount: 2,
		},
		{
			name:       "accessible seats counted",
			seats:      1,
			accessible: 1,
			reserved:   []model.ReservedSeatInput{{SeatNumber: 3}, {SeatNumber: 4}},
			wantCount:  2,
		},
		{
			name:    "too few reserved",
			seats:   2,
			reserved: []model.ReservedSeatInput{{SeatNumber: 12}},
			wantErr: ErrSeatCountMismatch,
		},
		{
			name:       "too many reserved",
			seats:      1,
			accessible: 0,
			reserved:   []model.ReservedSeatInput{{SeatNumber: 1}, {SeatNumber: 2}},
			wantErr:    ErrSeatCountMismatch,
		},
		{
			name:    "duplicate seat",
			seats:   2,
			reserved: []model.ReservedSeatInput{{SeatNumber: 7}, {SeatNumber: 7}},
			wantErr: ErrDuplicateSeat,
		},
		{
			name:    "non-positive seat number",
			seats:   1,
			reserved: []model.ReservedSeatInput{{SeatNumber: 0}},
			wantErr: ErrSeatCountMismatch,
		},
		{
			name:      "zero seats",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := BuildBookingDetails(tt.seats, tt.accessible, tt.reserved)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(details) != tt.wantCount {
				t.Fatalf("want %d details, got %d", tt.wantCount, len(details))
			}
			for _, d := range details {
				if d.IsValidated {
					t.Fatalf("detail for seat %d must start unvalidated", d.SeatNumber)
				}
			}
		})
	}
}

func TestBuildBookingDetailsForcesUnvalidated(t *testing.T) {
	details, err := BuildBookingDetails(1, 0, []model.ReservedSeatInput{{SeatNumber: 9, IsValidated: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details[0].IsValidated {
		t.Fatal("pre-set isValidated flag must be ignored on creation")
	}
}

func TestCreateBookingPersistsAggregate(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)

	booking := createTestBooking(t, db, user, session, 12, 13)

	if booking.Status != constants.BOOKING_PENDING {
		t.Fatalf("new booking must be PENDING, got %s", booking.Status)
	}
	if booking.PublicCode == "" {
		t.Fatal("booking must get a public code")
	}

	var details []model.BookingDetail
	if err := db.Where("booking_id = ?", booking.ID).Find(&details).Error; err != nil {
		t.Fatalf("failed to load details: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("want 2 persisted details, got %d", len(details))
	}
	for _, d := range details {
		if d.IsValidated {
			t.Fatalf("seat %d must start unvalidated", d.SeatNumber)
		}
	}
}

func TestCreateBookingMismatchPersistsNothing(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)

	_, err := CreateBooking(db, model.CreateBookingInput{
		UserId:                  user.ID,
		SessionId:               session.ID,
		NumberOfSeats:           2,
		NumberOfAccessibleSeats: 1,
		ReservedSeats:           []model.ReservedSeatInput{{SeatNumber: 1}, {SeatNumber: 2}},
	})
	if !errors.Is(err, ErrSeatCountMismatch) {
		t.Fatalf("want ErrSeatCountMismatch, got %v", err)
	}

	var bookings, details int64
	db.Model(&model.Booking{}).Count(&bookings)
	db.Model(&model.BookingDetail{}).Count(&details)
	if bookings != 0 || details != 0 {
		t.Fatalf("failed create must persist nothing, got %d bookings, %d details", bookings, details)
	}
}

func TestCreateBookingUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)

	input := model.CreateBookingInput{
		UserId:        user.ID + 100,
		SessionId:     session.ID,
		NumberOfSeats: 1,
		ReservedSeats: []model.ReservedSeatInput{{SeatNumber: 1}},
	}
	if _, err := CreateBooking(db, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}

	input.UserId = user.ID
	input.SessionId = session.ID + 100
	if _, err := CreateBooking(db, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown session: want ErrNotFound, got %v", err)
	}

	var details int64
	db.Model(&model.BookingDetail{}).Count(&details)
	if details != 0 {
		t.Fatalf("failed creates must persist nothing, got %d details", details)
	}
}

func TestBookingStateMachine(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)

	t.Run("pending to validated", func(t *testing.T) {
		booking := createTestBooking(t, db, user, session, 1)

		validated, err := ValidateBooking(db, booking.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if validated.Status != constants.BOOKING_VALIDATED {
			t.Fatalf("want VALIDATED, got %s", validated.Status)
		}

		if _, err := ValidateBooking(db, booking.ID); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("second validate: want ErrInvalidTransition, got %v", err)
		}
		if _, err := CancelBooking(db, booking.ID); !errors.Is(err, ErrCannotCancelValidated) {
			t.Fatalf("cancel validated: want ErrCannotCancelValidated, got %v", err)
		}

		reloaded, _ := GetBooking(db, booking.ID)
		if reloaded.Status != constants.BOOKING_VALIDATED {
			t.Fatalf("status must stay VALIDATED, got %s", reloaded.Status)
		}
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		booking := createTestBooking(t, db, user, session, 2)

		cancelled, err := CancelBooking(db, booking.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != constants.BOOKING_CANCELLED {
			t.Fatalf("want CANCELLED, got %s", cancelled.Status)
		}

		if _, err := CancelBooking(db, booking.ID); !errors.Is(err, ErrAlreadyCancelled) {
			t.Fatalf("second cancel: want ErrAlreadyCancelled, got %v", err)
		}
		if _, err := ValidateBooking(db, booking.ID); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("validate cancelled: want ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		if _, err := ValidateBooking(db, 9999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestValidateBookingDetailSingleUse(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)
	booking := createTestBooking(t, db, user, session, 12, 13)
	detailId := booking.BookingDetails[0].ID

	detail, err := ValidateBookingDetail(db, detailId)
	if err != nil {
		t.Fatalf("first validation must succeed: %v", err)
	}
	if !detail.IsValidated {
		t.Fatal("detail must be validated after first call")
	}

	if _, err := ValidateBookingDetail(db, detailId); !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("second validation: want ErrAlreadyValidated, got %v", err)
	}

	var reloaded model.BookingDetail
	db.First(&reloaded, detailId)
	if !reloaded.IsValidated {
		t.Fatal("isValidated must never revert to false")
	}

	if _, err := ValidateBookingDetail(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing detail: want ErrNotFound, got %v", err)
	}

	// booking-level status is independent of seat-level redemption
	reloadedBooking, _ := GetBooking(db, booking.ID)
	if reloadedBooking.Status != constants.BOOKING_PENDING {
		t.Fatalf("seat redemption must not touch booking status, got %s", reloadedBooking.Status)
	}
}

func TestValidateBookingDetailConcurrent(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)
	booking := createTestBooking(t, db, user, session, 21)
	detailId := booking.BookingDetails[0].ID

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ValidateBookingDetail(db, detailId)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrAlreadyValidated) {
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("exactly one concurrent redemption must win, got %d", successes)
	}
}

func TestFindBookingDetailBySeat(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)
	booking := createTestBooking(t, db, user, session, 5, 6)

	detail, err := FindBookingDetailBySeat(db, booking.ID, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.SeatNumber != 6 {
		t.Fatalf("want seat 6, got %d", detail.SeatNumber)
	}

	if _, err := FindBookingDetailBySeat(db, booking.ID, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteBookingCascades(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)
	booking := createTestBooking(t, db, user, session, 1, 2)

	if err := DeleteBooking(db, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var bookings, details int64
	db.Model(&model.Booking{}).Count(&bookings)
	db.Model(&model.BookingDetail{}).Count(&details)
	if bookings != 0 || details != 0 {
		t.Fatalf("delete must remove booking and details, got %d/%d", bookings, details)
	}
}

func TestExpirePendingBookings(t *testing.T) {
	db := setupTestDB(t)
	user, session := seedBookingFixtures(t, db)

	stale := model.Session{MovieId: session.MovieId, TheaterId: session.TheaterId, StartTime: time.Now().Add(-2 * time.Hour), UnitPrice: 9.5}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale session: %v", err)
	}

	staleBooking := createTestBooking(t, db, user, stale, 1)
	freshBooking := createTestBooking(t, db, user, session, 2)
	validatedBooking := createTestBooking(t, db, user, stale, 3)
	if _, err := ValidateBooking(db, validatedBooking.ID); err != nil {
		t.Fatalf("failed to validate booking: %v", err)
	}

	ExpirePendingBookings(db)

	check := func(id uint, want string) {
		b, err := GetBooking(db, id)
		if err != nil {
			t.Fatalf("failed to reload booking %d: %v", id, err)
		}
		if b.Status != want {
			t.Fatalf("booking %d: want %s, got %s", id, want, b.Status)
		}
	}
	check(staleBooking.ID, constants.BOOKING_CANCELLED)
	check(freshBooking.ID, constants.BOOKING_PENDING)
	check(validatedBooking.ID, constants.BOOKING_VALIDATED)
}
