package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetSessions(c *fiber.Ctx) error {
	var sessions []model.Session
	if err := database.DB.Preload("Movie").Preload("Theater").
		Order("start_time asc").Find(&sessions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, sessions)
}

func GetSessionById(c *fiber.Ctx) error {
	id := c.Locals("sessionId").(uint)

	var session model.Session
	if err := database.DB.Preload("Movie").Preload("Theater").
		First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

func CreateSession(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateSessionInput)

	db := database.DB
	var movie model.Movie
	if err := db.First(&movie, input.MovieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown movie", err)
	}
	var theater model.Theater
	if err := db.First(&theater, input.TheaterId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown theater", err)
	}

	session := model.Session{
		MovieId:   movie.ID,
		TheaterId: theater.ID,
		StartTime: input.StartTime,
		UnitPrice: helper.PriceForQuality(theater.Quality),
	}
	if err := db.Create(&session).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, session)
}

func GetTheaters(c *fiber.Ctx) error {
	var theaters []model.Theater
	if err := database.DB.Order("name asc").Find(&theaters).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, theaters)
}

func CreateTheater(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateTheaterInput)

	theater := model.Theater{
		Name:     input.Name,
		Quality:  input.Quality,
		Capacity: input.Capacity,
	}
	if err := database.DB.Create(&theater).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, theater)
}
