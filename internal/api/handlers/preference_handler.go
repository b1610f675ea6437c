package handlers

import (
	"zipli-backend/domain"
	"zipli-backend/internal/api/presenters"
	"zipli-backend/pkg/preference"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PreferenceHandler interface {
		GetPreference(c *fiber.Ctx) error
		SetPreference(c *fiber.Ctx) error
	}

	preferenceHandler struct {
		preferenceService preference.PreferenceService
		validator         *validator.Validate
	}
)

func NewPreferenceHandler(preferenceService preference.PreferenceService, validator *validator.Validate) PreferenceHandler {
	return &preferenceHandler{
		preferenceService: preferenceService,
		validator:         validator,
	}
}

func (h *preferenceHandler) GetPreference(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	pref, err := h.preferenceService.GetPreference(c.UserContext(), userID, c.Params("key"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetPreference, err)
	}

	return presenters.SuccessResponse(c, pref, fiber.StatusOK, domain.MessageSuccessGetPreference)
}

func (h *preferenceHandler) SetPreference(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SetPreferenceRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetPreference, err)
	}

	pref, err := h.preferenceService.SetPreference(c.UserContext(), userID, c.Params("key"), req.Value)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSetPreference, err)
	}

	return presenters.SuccessResponse(c, pref, fiber.StatusOK, domain.MessageSuccessSetPreference)
}
