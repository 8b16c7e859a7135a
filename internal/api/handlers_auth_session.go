package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/services"
)

func (handler *Handler) RequestCode(c *fiber.Ctx) error {
	input := requestCodeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	email := services.NormalizeAuthEmail(input.Email)
	if email == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	}

	now := handler.currentTime()
	if handler.codeLimiter.tooManyRecent(email, now, maxCodeRequestsPerHour, codeRequestWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many code requests")
	}
	handler.codeLimiter.record(email, now, codeRequestWindow)

	challenge, err := handler.authService.RequestLoginCode(email, now)
	if err != nil {
		if errors.Is(err, services.ErrAuthEmailInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid email")
		}
		return internalError(c, "failed to issue login code", err)
	}

	payload := fiber.Map{"ok": true, "expires_at": challenge.ExpiresAt}
	if handler.devMode {
		payload["dev_code"] = challenge.Code
		payload["dev_token"] = challenge.Token
	}
	return c.JSON(payload)
}

func (handler *Handler) VerifyCode(c *fiber.Ctx) error {
	input := verifyCodeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	patient, err := handler.authService.VerifyLoginCode(input.Email, input.Code, handler.currentTime())
	if err != nil {
		return handler.loginError(c, err)
	}
	if err := handler.setSessionCookie(c, &patient); err != nil {
		return internalError(c, "failed to create session", err)
	}
	handler.codeLimiter.reset(patient.EmailValue())
	return c.JSON(fiber.Map{"ok": true, "user_id": patient.UserID})
}

func (handler *Handler) VerifyLink(c *fiber.Ctx) error {
	patient, err := handler.authService.VerifyLoginToken(c.Query("token"), handler.currentTime())
	if err != nil {
		return handler.loginError(c, err)
	}
	if err := handler.setSessionCookie(c, &patient); err != nil {
		return internalError(c, "failed to create session", err)
	}
	return c.JSON(fiber.Map{"ok": true, "user_id": patient.UserID})
}

func (handler *Handler) loginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAuthEmailInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	case errors.Is(err, services.ErrLoginCodeFormat), errors.Is(err, services.ErrLoginTokenFormat):
		return apiError(c, fiber.StatusBadRequest, "invalid code")
	case errors.Is(err, services.ErrLoginCodeLocked):
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	case errors.Is(err, services.ErrLoginCodeExpired):
		return apiError(c, fiber.StatusUnauthorized, "code expired")
	case errors.Is(err, services.ErrLoginTokenUsed), errors.Is(err, services.ErrLoginTokenRevoked):
		return apiError(c, fiber.StatusUnauthorized, "link already used")
	case errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrLoginCodeNotFound),
		errors.Is(err, services.ErrLoginCodeMismatch):
		return apiError(c, fiber.StatusUnauthorized, "invalid code")
	default:
		return internalError(c, "failed to verify login", err)
	}
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"user_id": patient.UserID,
		"email":   patient.EmailValue(),
		"consent": patient.Consent,
	})
}
