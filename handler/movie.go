package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func GetMovies(c *fiber.Ctx) error {
	var pagination model.Pagination
	if err := c.QueryParser(&pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	var movies []model.Movie
	condition := db.Model(&model.Movie{})

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, pagination.Limit, pagination.Page)
	if err := condition.Order("title asc").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	response := &model.ResponseCustom{
		Rows:       movies,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetMovieBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var movie model.Movie
	if err := database.DB.Where("slug = ?", slug).First(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

// SyncMovies triggers a catalog pull outside the daily schedule.
func SyncMovies(c *fiber.Ctx) error {
	if err := helper.SyncCatalog(database.DB); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Catalog sync failed", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "catalog synced"})
}
