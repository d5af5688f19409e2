package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) auth.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

const employeeAccountQuery = `
	SELECT ua.id, ua.employee_id, ua.email, ua.password_hash, e.name, e.department, e.position,
		   e.designation, ua.request_password_change
	FROM user_accounts ua
	JOIN employees e ON e.id = ua.employee_id
`

func scanEmployeeAccount(row pgx.Row) (auth.Account, error) {
	var a auth.Account
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Email, &a.PasswordHash, &a.Name, &a.Department, &a.Position,
		&a.Designation, &a.RequestPasswordChange,
	)
	a.Role = auth.RoleEmployee
	return a, err
}

const adminAccountQuery = `
	SELECT id, email, password_hash, full_name
	FROM admin_users
`

func scanAdminAccount(row pgx.Row) (auth.Account, error) {
	var a auth.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name)
	a.Role = auth.RoleAdmin
	return a, err
}

func accountResult(a auth.Account, err error, what string) (auth.Account, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Account{}, auth.ErrUserNotFound
		}
		return auth.Account{}, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return a, nil
}

// FindAdminByEmail implements auth.AccountRepository.
func (r *accountRepositoryImpl) FindAdminByEmail(ctx context.Context, email string) (auth.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdminAccount(q.QueryRow(ctx, adminAccountQuery+` WHERE lower(email) = lower($1) AND status = 'Active'`, email))
	return accountResult(a, err, "admin")
}

// FindEmployeeAccountByEmail implements auth.AccountRepository.
func (r *accountRepositoryImpl) FindEmployeeAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanEmployeeAccount(q.QueryRow(ctx, employeeAccountQuery+` WHERE lower(ua.email) = lower($1) AND ua.status = 'Active'`, email))
	return accountResult(a, err, "user account")
}

// FindByID implements auth.AccountRepository. Employee accounts are checked
// before admins.
func (r *accountRepositoryImpl) FindByID(ctx context.Context, id string) (auth.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanEmployeeAccount(q.QueryRow(ctx, employeeAccountQuery+` WHERE ua.id = $1`, id))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return auth.Account{}, fmt.Errorf("failed to get user account: %w", err)
	}

	a, err = scanAdminAccount(q.QueryRow(ctx, adminAccountQuery+` WHERE id = $1`, id))
	return accountResult(a, err, "admin")
}
