package handlers

import (
	"context"
	"errors"

	"zipli-backend/domain"
	"zipli-backend/pkg/dashboard"
	"zipli-backend/pkg/gateway"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP statuses; anything unknown is a
// bad request.
func statusFor(err error) int {
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &gwErr):
		if gwErr.Status >= 400 && gwErr.Status < 500 {
			return gwErr.Status
		}
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrFormNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPreferenceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyRegistered),
		errors.Is(err, domain.ErrSubmitInFlight),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrSubmitNotAllowed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTooManyForms):
		return fiber.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusBadRequest
}

func sessionFrom(c *fiber.Ctx) dashboard.Session {
	sess := dashboard.Session{}
	sess.UserID, _ = c.Locals("user_id").(string)
	sess.Email, _ = c.Locals("email").(string)
	sess.Role, _ = c.Locals("role").(string)
	sess.AccessToken, _ = c.Locals("access_token").(string)
	return sess
}

// gatewayContext scopes gateway calls to the caller's token.
func gatewayContext(c *fiber.Ctx) context.Context {
	token, _ := c.Locals("access_token").(string)
	if token == "" {
		return c.UserContext()
	}
	return gateway.WithAccessToken(c.UserContext(), token)
}
