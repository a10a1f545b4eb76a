package middleware

import (
	"cinema_booking/constants"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			// check header Authorization: Bearer xxx
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, 401, constants.MISSING_TOKEN, errors.New("no token"))
		}

		jwtToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, 401, constants.INVALID_TOKEN, err)
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// Action names one capability-guarded operation of the booking core.
type Action string

const (
	ActionValidateBooking Action = "booking:validate"
	ActionCancelBooking   Action = "booking:cancel"
	ActionDeleteBooking   Action = "booking:delete"
	ActionRedeemTicket    Action = "ticket:redeem"
	ActionValidateSeat    Action = "seat:validate"
	ActionManageCatalog   Action = "catalog:manage"
)

// Allow is the authorization policy: an explicit (subject, action, resource
// owner) decision, taken at the boundary before any core call. resourceOwnerId
// is zero when the action has no per-resource owner.
func Allow(subject model.TokenClaim, action Action, resourceOwnerId uint) bool {
	switch action {
	case ActionRedeemTicket, ActionValidateSeat, ActionValidateBooking:
		return subject.Role == constants.ROLE_GATE || subject.Role == constants.ROLE_ADMIN
	case ActionDeleteBooking, ActionManageCatalog:
		return subject.Role == constants.ROLE_ADMIN
	case ActionCancelBooking:
		if subject.Role == constants.ROLE_ADMIN {
			return true
		}
		return resourceOwnerId != 0 && subject.UserId == resourceOwnerId
	}
	return false
}

// Authorize resolves the subject and applies the policy for actions whose
// resource has no owner dimension. Owner-scoped actions (cancel) are decided
// in the handler once the resource is loaded.
func Authorize(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, user := helper.GetInfoUserFromToken(c)
		if user == nil {
			return utils.ErrorResponse(c, 401, constants.INVALID_TOKEN, errors.New("unknown subject"))
		}
		if !Allow(claim, action, 0) {
			return utils.ErrorResponse(c, 403, constants.NOT_PERMITTED, nil)
		}
		c.Locals("subject", claim)
		return c.Next()
	}
}
