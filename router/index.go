package router

import (
	"cinema_booking/handler"
	"cinema_booking/middleware"
	"cinema_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)

	user := v1.Group("/user")
	user.Post("/register", validate.RegisterUser(), handler.RegisterUser)
	user.Get("/me", middleware.Protected(), handler.Me)

	movie := v1.Group("/movie", logger.New())
	movie.Get("/", handler.GetMovies)
	movie.Post("/sync", middleware.Protected(), middleware.Authorize(middleware.ActionManageCatalog), handler.SyncMovies)
	movie.Get("/:slug", handler.GetMovieBySlug)

	theater := v1.Group("/theater", logger.New())
	theater.Get("/", handler.GetTheaters)
	theater.Post("/", middleware.Protected(), middleware.Authorize(middleware.ActionManageCatalog), validate.CreateTheater(), handler.CreateTheater)

	session := v1.Group("/session", logger.New())
	session.Get("/", handler.GetSessions)
	session.Post("/", middleware.Protected(), middleware.Authorize(middleware.ActionManageCatalog), validate.CreateSession(), handler.CreateSession)
	session.Get("/:sessionId", validate.GetById("sessionId"), handler.GetSessionById)

	booking := v1.Group("/bookings", logger.New())
	booking.Post("/", middleware.Protected(), validate.CreateBooking(), handler.CreateBooking)
	// static routes before the :bookingId wildcard
	booking.Get("/validate-booking-detail", middleware.Protected(), middleware.Authorize(middleware.ActionRedeemTicket), handler.RedeemTicket)
	booking.Get("/user/:userId", middleware.Protected(), validate.GetById("userId"), handler.GetBookingsByUser)
	booking.Get("/get-by-session-cinema/:sessionId", middleware.Protected(), validate.GetById("sessionId"), handler.GetBookingsBySession)
	booking.Get("/get-bookings-details/:bookingId", middleware.Protected(), validate.GetById("bookingId"), handler.GetBookingDetails)
	booking.Get("/:bookingId", middleware.Protected(), validate.GetById("bookingId"), handler.GetBookingById)
	booking.Patch("/:bookingId/validate", middleware.Protected(), middleware.Authorize(middleware.ActionValidateBooking), validate.GetById("bookingId"), handler.ValidateBooking)
	booking.Patch("/:bookingId/cancel", middleware.Protected(), validate.GetById("bookingId"), handler.CancelBooking)
	booking.Delete("/:bookingId", middleware.Protected(), middleware.Authorize(middleware.ActionDeleteBooking), validate.GetById("bookingId"), handler.DeleteBooking)

	detail := v1.Group("/booking-details", logger.New())
	detail.Patch("/:bookingDetailId/validate", middleware.Protected(), middleware.Authorize(middleware.ActionValidateSeat), validate.GetById("bookingDetailId"), validate.ValidateDetail(), handler.ValidateBookingDetail)
	detail.Get("/:bookingDetailId/qrcode", middleware.Protected(), validate.GetById("bookingDetailId"), handler.GetBookingDetailQRCode)

	gate := v1.Group("/gate")
	gate.Get("/feed/:sessionId", websocket.New(handler.GateFeed))
}
