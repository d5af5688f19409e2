package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionStoreImpl struct {
	db *database.DB
}

// NewLoginSessionRepository stores one row per issued access token.
func NewLoginSessionRepository(db *database.DB) auth.SessionRepository {
	return &sessionStoreImpl{db: db}
}

func (s *sessionStoreImpl) Create(ctx context.Context, session auth.Session) error {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_sessions (id, employee_id, admin_id, token_id, ip_address, user_agent, device_type, login_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	`
	_, err = q.Exec(ctx, query,
		id, session.EmployeeID, session.AdminID, session.TokenID,
		session.IPAddress, session.UserAgent, session.DeviceType, session.LoginAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create login session: %w", err)
	}
	return nil
}

func (s *sessionStoreImpl) FindByTokenID(ctx context.Context, tokenID string) (auth.Session, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, admin_id, token_id, ip_address, user_agent, device_type,
			   login_at, logout_at, is_active
		FROM user_sessions
		WHERE token_id = $1
	`

	var session auth.Session
	err := q.QueryRow(ctx, query, tokenID).Scan(
		&session.ID, &session.EmployeeID, &session.AdminID, &session.TokenID,
		&session.IPAddress, &session.UserAgent, &session.DeviceType,
		&session.LoginAt, &session.LogoutAt, &session.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrInvalidToken
		}
		return auth.Session{}, fmt.Errorf("failed to get login session: %w", err)
	}
	return session, nil
}

func (s *sessionStoreImpl) Deactivate(ctx context.Context, tokenID string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE user_sessions
		SET is_active = FALSE, logout_at = NOW()
		WHERE token_id = $1 AND is_active = TRUE
	`
	if _, err := q.Exec(ctx, query, tokenID); err != nil {
		return fmt.Errorf("failed to deactivate login session: %w", err)
	}
	return nil
}
