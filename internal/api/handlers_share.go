package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/services"
)

func (handler *Handler) CreateShare(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := shareInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}

	token, err := handler.shareService.Create(patient.ID, input.ExpiresMinutes, handler.currentTime())
	if err != nil {
		return internalError(c, "failed to create share link", err)
	}
	return c.JSON(fiber.Map{"token": token.Token, "expires_at": token.ExpiresAt})
}

func (handler *Handler) ListShares(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	tokens, err := handler.shareService.List(patient.ID)
	if err != nil {
		return internalError(c, "failed to list share links", err)
	}
	return c.JSON(fiber.Map{"tokens": tokens})
}

// OpenShare is public: the token itself is the credential.
func (handler *Handler) OpenShare(c *fiber.Ctx) error {
	shared, err := handler.shareService.Open(c.Params("token"), handler.currentTime())
	if err != nil {
		return handler.shareError(c, err)
	}
	return c.JSON(shared)
}

func (handler *Handler) RevokeShare(c *fiber.Ctx) error {
	patient, ok := currentPatient(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.shareService.Revoke(patient.ID, c.Params("token"), handler.currentTime()); err != nil {
		return handler.shareError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) shareError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrShareTokenNotFound):
		return apiError(c, fiber.StatusNotFound, "share link not found")
	case errors.Is(err, services.ErrShareTokenRevoked):
		return apiError(c, fiber.StatusGone, "share link revoked")
	case errors.Is(err, services.ErrShareTokenExpired):
		return apiError(c, fiber.StatusGone, "share link expired")
	case errors.Is(err, services.ErrShareTokenForbidden):
		return apiError(c, fiber.StatusForbidden, "forbidden")
	default:
		return internalError(c, "failed to load share link", err)
	}
}
