package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSignUp         = "check your email for confirmation"
	MessageSuccessSignIn         = "signed in successfully"
	MessageSuccessGetUser        = "user retrieved successfully"
	MessageSuccessResetRequest   = "password reset instructions sent"
	MessageSuccessUpdatePassword = "password updated successfully"

	MessageFailedSignUp         = "sign up failed"
	MessageFailedSignIn         = "login failed"
	MessageFailedGetUser        = "failed to fetch user data"
	MessageFailedResetRequest   = "failed to send reset instructions"
	MessageFailedUpdatePassword = "reset failed"

	ErrEmailAlreadyRegistered = errors.New("user already registered")
	ErrInvalidCredentials     = errors.New("invalid login credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidRole            = errors.New("role must be donor or recipient")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters long")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrMissingCredentials     = errors.New("please enter both email and password")
)

const (
	MinPasswordLength = 6

	DefaultResetRedirectURL = "zipli://reset-password"
)

type (
	SignUpRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"omitempty,oneof=donor recipient"`
	}

	SignInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	ResetPasswordRequest struct {
		Email       string `json:"email" validate:"required,email"`
		RedirectURL string `json:"redirect_url" validate:"omitempty"`
	}

	UpdatePasswordRequest struct {
		AccessToken     string `json:"access_token" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}

	// UserMetadata is the profile metadata attached at sign-up.
	UserMetadata struct {
		Role string `json:"role"`
	}

	User struct {
		ID           string       `json:"id"`
		Email        string       `json:"email"`
		UserMetadata UserMetadata `json:"user_metadata"`
		CreatedAt    time.Time    `json:"created_at"`
	}

	Session struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   time.Time `json:"expires_at"`
		User        User      `json:"user"`
	}
)
