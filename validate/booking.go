package validate

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

// ValidateDetail parses the administrative seat-validation request. The path
// id form needs no body; a body selects the lookup key explicitly via kind.
func ValidateDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		detailId := c.Locals("bookingDetailId").(uint)

		input := model.ValidateDetailInput{Kind: "byId", BookingDetailId: detailId}
		if len(c.Body()) > 0 {
			input = model.ValidateDetailInput{}
			if err := c.BodyParser(&input); err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
			}
			if input.Kind == "byId" && input.BookingDetailId == 0 {
				input.BookingDetailId = detailId
			}
			if err := validate.Struct(input); err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}
