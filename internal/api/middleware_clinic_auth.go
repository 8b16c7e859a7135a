package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/security"
)

// ClinicAuthRequired checks the clinic token of the :clinic_id route against
// the configured clinic token map.
func (handler *Handler) ClinicAuthRequired(c *fiber.Ctx) error {
	clinicID := strings.TrimSpace(c.Params("clinic_id"))
	token := clinicTokenFromRequest(c)
	if clinicID == "" || token == "" {
		return apiError(c, fiber.StatusUnauthorized, "missing token or clinic_id")
	}

	expected, ok := handler.clinicTokens[clinicID]
	if !ok || !security.TokensEqual(expected, token) {
		return apiError(c, fiber.StatusUnauthorized, "invalid token for clinic")
	}

	c.Locals(contextClinicKey, clinicID)
	return c.Next()
}

// clinicTokenFromRequest prefers the dedicated header, then a bearer token,
// then the token query parameter.
func clinicTokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(clinicTokenHeader)); token != "" {
		return token
	}
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authorization) > len("bearer ") && strings.EqualFold(authorization[:len("bearer ")], "bearer ") {
		if token := strings.TrimSpace(authorization[len("bearer "):]); token != "" {
			return token
		}
	}
	return strings.TrimSpace(c.Query("token"))
}
