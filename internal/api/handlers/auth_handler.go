package handlers

import (
	"strings"

	"zipli-backend/domain"
	"zipli-backend/internal/api/presenters"
	"zipli-backend/pkg/dashboard"
	"zipli-backend/pkg/gateway"
	"zipli-backend/pkg/preference"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		SignUp(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		ForgotPassword(c *fiber.Ctx) error
		ResetPassword(c *fiber.Ctx) error
	}

	authHandler struct {
		gateway     gateway.Gateway
		preferences preference.Factory
		validator   *validator.Validate
	}
)

func NewAuthHandler(gw gateway.Gateway, preferences preference.Factory, validator *validator.Validate) AuthHandler {
	return &authHandler{
		gateway:     gw,
		preferences: preferences,
		validator:   validator,
	}
}

func (h *authHandler) SignUp(c *fiber.Ctx) error {
	req := new(domain.SignUpRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if req.Email == "" || req.Password == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignUp, domain.ErrMissingCredentials)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignUp, err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleRecipient
	}
	session, err := h.gateway.SignUp(c.UserContext(), strings.TrimSpace(req.Email), req.Password, domain.UserMetadata{Role: role})
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSignUp, err)
	}

	return presenters.SuccessResponse(c, session, fiber.StatusCreated, domain.MessageSuccessSignUp)
}

func (h *authHandler) Login(c *fiber.Ctx) error {
	req := new(domain.SignInRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if req.Email == "" || req.Password == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignIn, domain.ErrMissingCredentials)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignIn, err)
	}

	session, err := h.gateway.SignIn(c.UserContext(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSignIn, err)
	}

	dashboard.RememberRole(c.UserContext(), h.preferences.ForUser(session.User.ID), session.User.UserMetadata.Role)

	return presenters.SuccessResponse(c, session, fiber.StatusOK, domain.MessageSuccessSignIn)
}

func (h *authHandler) Me(c *fiber.Ctx) error {
	token := c.Locals("access_token").(string)

	user, err := h.gateway.GetUser(c.UserContext(), token)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, user, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *authHandler) ForgotPassword(c *fiber.Ctx) error {
	req := new(domain.ResetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetRequest, err)
	}

	redirect := req.RedirectURL
	if redirect == "" {
		redirect = domain.DefaultResetRedirectURL
	}
	if err := h.gateway.ResetPasswordRequest(c.UserContext(), strings.TrimSpace(req.Email), redirect); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedResetRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetRequest)
}

func (h *authHandler) ResetPassword(c *fiber.Ctx) error {
	req := new(domain.UpdatePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if len(req.NewPassword) < domain.MinPasswordLength {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePassword, domain.ErrPasswordTooShort)
	}
	if req.NewPassword != req.ConfirmPassword {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePassword, domain.ErrPasswordMismatch)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePassword, err)
	}

	if err := h.gateway.UpdatePassword(c.UserContext(), req.AccessToken, req.NewPassword); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdatePassword, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdatePassword)
}
