package main

import (
	"cinema_booking/config"
	"cinema_booking/database"
	"cinema_booking/handler"
	"cinema_booking/helper"
	"cinema_booking/router"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		MaxAge:           600,
	}))

	database.ConnectDB()

	handler.InitTicketIssuer(helper.NewTicketIssuer(config.LoadTicketConfig()))

	helper.StartCatalogScheduler()
	defer helper.StopCatalogScheduler()
	helper.StartBookingExpiryScheduler()
	defer helper.StopBookingExpiryScheduler()

	router.SetupRoutes(app)

	log.Fatal(app.Listen(":8002"))
}
