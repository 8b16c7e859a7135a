package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/services"
)

func (handler *Handler) CreateDailyLog(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.DailyLogInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.logService.RecordDaily(patient.ID, input, handler.currentTime())
	if err != nil {
		if errors.Is(err, services.ErrMedicationTakenRequired) {
			return apiError(c, fiber.StatusBadRequest, "medication_taken is required")
		}
		return internalError(c, "failed to save daily log", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "log": entry})
}

func (handler *Handler) CreateWeeklyLog(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.WeeklyLogInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.logService.RecordWeekly(patient.ID, input, handler.currentTime())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeeklyWeightInvalid):
			return apiError(c, fiber.StatusBadRequest, "weight_kg must be between 20 and 400")
		case errors.Is(err, services.ErrBodyFatInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid body_fat_percent")
		default:
			return internalError(c, "failed to save weekly log", err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "log": entry})
}

func (handler *Handler) GetDailyLogs(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.logService.DailyHistory(patient.ID, queryInt(c, "days", services.DefaultHistoryDays), handler.currentTime())
	if err != nil {
		return internalError(c, "failed to load daily logs", err)
	}
	return c.JSON(fiber.Map{"days": history.Days, "logs": history.DailyLogs})
}

func (handler *Handler) GetWeeklyLogs(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.logService.WeeklyHistory(patient.ID, queryInt(c, "days", services.DefaultHistoryDays), handler.currentTime())
	if err != nil {
		return internalError(c, "failed to load weekly logs", err)
	}
	return c.JSON(fiber.Map{"days": history.Days, "logs": history.WeeklyLogs})
}

func (handler *Handler) GetStatus(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	status, err := handler.logService.Status(patient.ID, handler.currentTime())
	if err != nil {
		return internalError(c, "failed to compute status", err)
	}
	return c.JSON(status)
}

func (handler *Handler) GetReport(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	report, err := handler.logService.Report(*patient, queryInt(c, "days", services.ReportPeriodShort), handler.currentTime())
	if err != nil {
		return internalError(c, "failed to build report", err)
	}
	return c.JSON(report)
}
