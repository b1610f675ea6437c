package domain

import (
	"errors"
)

const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"

	PreferenceKeyUserRole = "userRole"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// IsKnownRole reports whether role is one of the roles a dashboard can render.
func IsKnownRole(role string) bool {
	return role == RoleDonor || role == RoleRecipient
}
