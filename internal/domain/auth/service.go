package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (SessionResponse, error)
	// IsSessionActive reports whether the login recorded under tokenID is still live.
	IsSessionActive(ctx context.Context, tokenID string) (bool, error)
}
