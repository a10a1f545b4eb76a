package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/middleware"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var tickets *helper.TicketIssuer

// InitTicketIssuer hands the handlers the issuer built in main from the
// startup config.
func InitTicketIssuer(ti *helper.TicketIssuer) {
	tickets = ti
}

func CreateBooking(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateBookingInput)

	booking, err := helper.CreateBooking(database.DB, input)
	if err != nil {
		switch {
		case errors.Is(err, helper.ErrSeatCountMismatch), errors.Is(err, helper.ErrDuplicateSeat):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Reserved seats do not match the declared counts", err)
		case errors.Is(err, helper.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown user or session", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	artifacts := make([]model.TicketArtifact, 0, len(booking.BookingDetails))
	for _, detail := range booking.BookingDetails {
		artifact, err := tickets.Issue(detail)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Ticket encoding failed", err)
		}
		artifacts = append(artifacts, artifact)
	}

	sendBookingConfirmation(booking, artifacts)

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"booking": booking,
		"tickets": artifacts,
	})
}

func sendBookingConfirmation(booking *model.Booking, artifacts []model.TicketArtifact) {
	var user model.User
	if err := database.DB.First(&user, booking.UserId).Error; err != nil || user.Email == "" {
		return
	}
	var session model.Session
	if err := database.DB.Preload("Movie").First(&session, booking.SessionId).Error; err != nil {
		return
	}

	utils.SendBookingConfirmationEmail(user.Email, utils.BookingConfirmationData{
		BookingCode: booking.PublicCode,
		MovieName:   session.Movie.Title,
		Showtime:    session.StartTime.Format("02/01/2006 15:04"),
		Seats:       joinSeats(booking.BookingDetails),
		TotalPrice:  booking.TotalPrice,
	}, ticketAttachments(artifacts))
}

func GetBookingById(c *fiber.Ctx) error {
	id := c.Locals("bookingId").(uint)

	booking, err := helper.GetBooking(database.DB, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func GetBookingsByUser(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var bookings []model.Booking
	if err := database.DB.Preload("BookingDetails").
		Where("user_id = ?", userId).
		Order("created_at desc").Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

func GetBookingsBySession(c *fiber.Ctx) error {
	sessionId := c.Locals("sessionId").(uint)

	var bookings []model.Booking
	if err := database.DB.Preload("BookingDetails").
		Where("session_id = ?", sessionId).
		Order("created_at desc").Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

func GetBookingDetails(c *fiber.Ctx) error {
	bookingId := c.Locals("bookingId").(uint)

	if _, err := helper.GetBooking(database.DB, bookingId); err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var details []model.BookingDetail
	if err := database.DB.Where("booking_id = ?", bookingId).
		Order("seat_number asc").Find(&details).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, details)
}

func ValidateBooking(c *fiber.Ctx) error {
	id := c.Locals("bookingId").(uint)

	booking, err := helper.ValidateBooking(database.DB, id)
	if err != nil {
		switch {
		case errors.Is(err, helper.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking not found", err)
		case errors.Is(err, helper.ErrInvalidTransition):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Booking cannot be validated", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CancelBooking(c *fiber.Ctx) error {
	id := c.Locals("bookingId").(uint)

	claim, user := helper.GetInfoUserFromToken(c)
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("unknown subject"))
	}

	booking, err := helper.GetBooking(database.DB, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if !middleware.Allow(claim, middleware.ActionCancelBooking, booking.UserId) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, nil)
	}

	booking, err = helper.CancelBooking(database.DB, id)
	if err != nil {
		switch {
		case errors.Is(err, helper.ErrAlreadyCancelled):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Booking is already cancelled", err)
		case errors.Is(err, helper.ErrCannotCancelValidated):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "A validated booking cannot be cancelled", err)
		case errors.Is(err, helper.ErrInvalidTransition):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Booking cannot be cancelled", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// RedeemTicket is the at-the-door entry point: a signed single-seat credential
// arrives as a query parameter. The route itself is gated on the gate-operator
// role, token possession alone is not enough.
func RedeemTicket(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("missing token"))
	}

	detailId, err := tickets.Verify(tokenString)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}

	detail, err := helper.ValidateBookingDetail(database.DB, detailId)
	if err != nil {
		switch {
		case errors.Is(err, helper.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Booking detail not found", err)
		case errors.Is(err, helper.ErrAlreadyValidated):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ticket already validated", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	BroadcastRedemption(*detail)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message":         "ticket validated",
		"bookingDetailId": detail.ID,
		"seatNumber":      detail.SeatNumber,
	})
}

func DeleteBooking(c *fiber.Ctx) error {
	id := c.Locals("bookingId").(uint)

	if err := helper.DeleteBooking(database.DB, id); err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": id})
}

func joinSeats(details []model.BookingDetail) string {
	labels := make([]string, 0, len(details))
	for _, d := range details {
		labels = append(labels, "seat "+strconv.Itoa(d.SeatNumber))
	}
	return strings.Join(labels, ", ")
}

func ticketAttachments(artifacts []model.TicketArtifact) []utils.TicketAttachment {
	attachments := make([]utils.TicketAttachment, 0, len(artifacts))
	for _, a := range artifacts {
		attachments = append(attachments, utils.TicketAttachment{SeatNumber: a.SeatNumber, PNG: a.QRImage})
	}
	return attachments
}
