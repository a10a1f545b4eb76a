package model

import "time"

type Booking struct {
	DTO
	PublicCode              string    `gorm:"uniqueIndex;size:20" json:"publicCode"`
	Status                  string    `gorm:"not null;default:'PENDING'" json:"status"` // PENDING, VALIDATED, CANCELLED
	UserId                  uint      `gorm:"not null" json:"userId"`
	SessionId               uint      `gorm:"not null" json:"sessionId"`
	NumberOfSeats           int       `gorm:"not null" json:"numberOfSeats"`
	NumberOfAccessibleSeats int       `gorm:"not null" json:"numberOfAccessibleSeats"`
	TotalPrice              float64   `json:"totalPrice"`
	CreatedAt               time.Time `json:"createdAt"`

	User           User            `gorm:"foreignKey:UserId" json:"-"`
	Session        Session         `gorm:"foreignKey:SessionId" json:"-"`
	BookingDetails []BookingDetail `gorm:"foreignKey:BookingId;constraint:OnDelete:CASCADE" json:"bookingDetails"`
}

type BookingDetail struct {
	DTO
	BookingId   uint `gorm:"not null;index" json:"bookingId"`
	SeatNumber  int  `gorm:"not null" json:"seatNumber"`
	IsValidated bool `gorm:"not null;default:false" json:"isValidated"`
}

type ReservedSeatInput struct {
	SeatNumber int `json:"seatNumber" validate:"required,gt=0"`
	// Accepted for wire compatibility with older clients; the server always
	// stores new seats as not validated.
	IsValidated bool `json:"isValidated,omitempty"`
}

type CreateBookingInput struct {
	UserId                  uint                `json:"userId" validate:"required,gt=0"`
	SessionId               uint                `json:"sessionId" validate:"required,gt=0"`
	NumberOfSeats           int                 `json:"numberOfSeats" validate:"gte=0"`
	NumberOfAccessibleSeats int                 `json:"numberOfAccessibleSeats" validate:"gte=0"`
	TotalPrice              float64             `json:"totalPrice" validate:"gte=0"`
	ReservedSeats           []ReservedSeatInput `json:"reservedSeats" validate:"dive"`
}

// ValidateDetailInput selects one of the two administrative lookup keys
// explicitly instead of guessing from the payload shape.
type ValidateDetailInput struct {
	Kind            string `json:"kind" validate:"required,oneof=byId bySeat"`
	BookingDetailId uint   `json:"bookingDetailId" validate:"required_if=Kind byId"`
	BookingId       uint   `json:"bookingId" validate:"required_if=Kind bySeat"`
	SeatNumber      int    `json:"seatNumber" validate:"required_if=Kind bySeat"`
}

type FilterBookingInput struct {
	Pagination
	Status    string `json:"status" validate:"omitempty,oneof=PENDING VALIDATED CANCELLED"`
	SessionId uint   `json:"sessionId" validate:"omitempty,gt=0"`
}

// TicketArtifact is what the client receives for one reserved seat: the signed
// redemption token, the URL it is wrapped in and the QR image of that URL.
type TicketArtifact struct {
	BookingDetailId uint   `json:"bookingDetailId"`
	SeatNumber      int    `json:"seatNumber"`
	Token           string `json:"token"`
	QRUrl           string `json:"qrUrl"`
	QRImage         []byte `json:"qrImage"` // PNG, base64 in JSON
}
