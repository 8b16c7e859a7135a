package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	sessionCookieName = "glpcare_session"
	clinicTokenHeader = "x-clinic-token"
	contextPatientKey = "current_patient"
	contextClinicKey  = "current_clinic"
)

func currentPatient(c *fiber.Ctx) (*models.Patient, bool) {
	patient, ok := c.Locals(contextPatientKey).(*models.Patient)
	return patient, ok && patient != nil
}

func currentClinic(c *fiber.Ctx) string {
	clinicID, _ := c.Locals(contextClinicKey).(string)
	return clinicID
}
