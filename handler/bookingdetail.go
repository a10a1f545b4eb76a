package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/middleware"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ValidateBookingDetail is the administrative seat validation path. It shares
// the single check-and-set with the token redemption path, so a ticket used at
// the door cannot be validated again here, and vice versa.
func ValidateBookingDetail(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ValidateDetailInput)

	detailId := input.BookingDetailId
	if input.Kind == "bySeat" {
		detail, err := helper.FindBookingDetailBySeat(database.DB, input.BookingId, input.SeatNumber)
		if err != nil {
			if errors.Is(err, helper.ErrNotFound) {
				return utils.ErrorResponse(c, fiber.StatusNotFound, "Seat not found in booking", err)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		detailId = detail.ID
	}

	detail, err := helper.ValidateBookingDetail(database.DB, detailId)
	if err != nil {
		switch {
		case errors.Is(err, helper.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking detail not found", err)
		case errors.Is(err, helper.ErrAlreadyValidated):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ticket already validated", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	BroadcastRedemption(*detail)

	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

// GetBookingDetailQRCode re-mints the ticket artifact for one seat, for a
// client that lost the original QR. Owner or elevated role.
func GetBookingDetailQRCode(c *fiber.Ctx) error {
	detailId := c.Locals("bookingDetailId").(uint)

	claim, user := helper.GetInfoUserFromToken(c)
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("unknown subject"))
	}

	var detail model.BookingDetail
	if err := database.DB.First(&detail, detailId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Booking detail not found", err)
	}

	booking, err := helper.GetBooking(database.DB, detail.BookingId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	owner := booking.UserId == claim.UserId
	if !owner && !middleware.Allow(claim, middleware.ActionValidateSeat, 0) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, nil)
	}

	if detail.IsValidated {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ticket already validated", helper.ErrAlreadyValidated)
	}

	artifact, err := tickets.Issue(detail)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Ticket encoding failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, artifact)
}
