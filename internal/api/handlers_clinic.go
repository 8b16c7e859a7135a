package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/services"
)

func (handler *Handler) ClinicDashboard(c *fiber.Ctx) error {
	clinicID := currentClinic(c)
	filter := services.DashboardFilter{
		Weeks:  queryInt(c, "weeks", services.DefaultDashboardWeeks),
		Status: c.Query("status"),
		Color:  c.Query("color"),
	}

	dashboard, err := handler.dashboardService.BuildDashboard(clinicID, filter, handler.currentTime())
	if err != nil {
		if errors.Is(err, services.ErrDashboardFilterInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid filter")
		}
		return internalError(c, "failed to build dashboard", err)
	}
	return c.JSON(dashboard)
}

func (handler *Handler) ClinicPatients(c *fiber.Ctx) error {
	clinicID := currentClinic(c)
	patients, err := handler.dashboardService.ListPatients(clinicID)
	if err != nil {
		return internalError(c, "failed to list patients", err)
	}
	return c.JSON(fiber.Map{"clinic_id": clinicID, "patients": patients})
}

func (handler *Handler) ClinicPatientReport(c *fiber.Ctx) error {
	clinicID := currentClinic(c)
	code := c.Params("patient_code")
	if !services.LooksLikePatientCode(code) {
		return apiError(c, fiber.StatusBadRequest, "invalid patient code")
	}

	report, err := handler.dashboardService.PatientReport(clinicID, code, queryInt(c, "weeks", services.DefaultDashboardWeeks), handler.currentTime())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			return apiError(c, fiber.StatusNotFound, "patient not found")
		case errors.Is(err, services.ErrPatientOtherClinic):
			return apiError(c, fiber.StatusForbidden, "patient belongs to another clinic")
		default:
			return internalError(c, "failed to build patient report", err)
		}
	}
	return c.JSON(report)
}
