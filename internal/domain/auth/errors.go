package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionRevoked     = errors.New("session has been logged out")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminRequired      = errors.New("admin privilege required")
)
