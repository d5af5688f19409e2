package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// IdentityRepository answers which employee a login or path id refers to.
type IdentityRepository struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// EmployeeExists reports whether id is an employees.id.
func (r *IdentityRepository) EmployeeExists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id::text = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee: %w", err)
	}
	return exists, nil
}

// EmployeeIDForAccount maps a user_accounts.id to its employee, or "" when
// no such account exists.
func (r *IdentityRepository) EmployeeIDForAccount(ctx context.Context, accountID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var employeeID string
	err := q.QueryRow(ctx, `SELECT employee_id FROM user_accounts WHERE id::text = $1`, accountID).Scan(&employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve account: %w", err)
	}
	return employeeID, nil
}
