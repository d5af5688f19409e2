package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	accounts auth.AccountRepository
	sessions auth.SessionRepository
	tokens   jwt.Service
	clock    clock.Clock
}

func NewAuthService(accounts auth.AccountRepository, sessions auth.SessionRepository, tokens jwt.Service, c clock.Clock) auth.AuthService {
	return &AuthServiceImpl{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		clock:    c,
	}
}

// findAccount checks admins before employee accounts.
func (a *AuthServiceImpl) findAccount(ctx context.Context, email string) (auth.Account, error) {
	account, err := a.accounts.FindAdminByEmail(ctx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return auth.Account{}, err
	}

	account, err = a.accounts.FindEmployeeAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.Account{}, auth.ErrInvalidCredentials
		}
		return auth.Account{}, err
	}
	return account, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	account, err := a.findAccount(ctx, req.Email)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, tokenID, expiresAt, err := a.tokens.GenerateAccessToken(account.ID, account.Email, account.Name, account.EmployeeID, account.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	session := auth.Session{
		TokenID: tokenID,
		LoginAt: a.clock.Now(),
	}
	if account.Role == auth.RoleAdmin {
		session.AdminID = &account.ID
	} else {
		session.EmployeeID = account.EmployeeID
	}
	if req.IPAddress != "" {
		session.IPAddress = &req.IPAddress
	}
	if req.UserAgent != "" {
		session.UserAgent = &req.UserAgent
	}
	if req.DeviceType != "" {
		session.DeviceType = &req.DeviceType
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		slog.Warn("Failed to record login session", "user_id", account.ID, "error", err)
	}

	slog.Info("User logged in", "user_id", account.ID, "role", account.Role)
	return auth.LoginResponse{
		UserID:                account.ID,
		EmployeeID:            account.EmployeeID,
		Name:                  account.Name,
		Email:                 account.Email,
		Role:                  account.Role,
		Department:            account.Department,
		Position:              account.Position,
		AccessToken:           token,
		AccessTokenExpiresAt:  expiresAt,
		RequestPasswordChange: account.RequestPasswordChange,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context) error {
	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return auth.ErrInvalidToken
	}
	if err := a.sessions.Deactivate(ctx, claims.TokenID); err != nil {
		return err
	}
	slog.Info("User logged out", "user_id", claims.UserID)
	return nil
}

// Session implements auth.AuthService.
func (a *AuthServiceImpl) Session(ctx context.Context) (auth.SessionResponse, error) {
	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return auth.SessionResponse{}, auth.ErrInvalidToken
	}

	account, err := a.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		return auth.SessionResponse{}, err
	}
	return auth.SessionResponse{
		UserID:      account.ID,
		EmployeeID:  account.EmployeeID,
		Name:        account.Name,
		Email:       account.Email,
		Role:        account.Role,
		Department:  account.Department,
		Position:    account.Position,
		Designation: account.Designation,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// IsSessionActive implements auth.AuthService. A token without a session row
// is let through, since recording the row at login is allowed to fail.
func (a *AuthServiceImpl) IsSessionActive(ctx context.Context, tokenID string) (bool, error) {
	session, err := a.sessions.FindByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			slog.Warn("No login session recorded for token", "token_id", tokenID)
			return true, nil
		}
		return false, err
	}
	if !session.IsActive || session.LogoutAt != nil {
		return false, nil
	}
	return true, nil
}
