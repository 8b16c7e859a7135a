package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/services"
)

func (handler *Handler) BuildRoadmap(c *fiber.Ctx) error {
	input := services.RoadmapInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	roadmap, err := services.BuildRoadmap(input)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(roadmap)
}

func (handler *Handler) BuildWeeklyStrategy(c *fiber.Ctx) error {
	input := services.StrategyInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	strategy, err := services.BuildWeeklyStrategy(input)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(strategy)
}
