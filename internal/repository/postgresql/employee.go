package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	employeeEmailKey = "employees_email_key"
	employeeCodeKey  = "employees_employee_code_key"
	accountEmailKey  = "user_accounts_email_key"
)

const employeeColumns = `
	e.id, e.employee_code, e.name, e.email, e.phone, e.cnic, e.department, e.position,
	e.designation, e.address, e.emergency_contact, e.bank_account, e.tax_id,
	e.join_date, e.status, e.created_at, e.updated_at,
	es.base_salary, es.total_salary`

const employeeFrom = `
	FROM employees e
	LEFT JOIN employee_salaries es ON es.employee_id = e.id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.Name, &e.Email, &e.Phone, &e.CNIC, &e.Department, &e.Position,
		&e.Designation, &e.Address, &e.EmergencyContact, &e.BankAccount, &e.TaxID,
		&e.JoinDate, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		&e.BaseSalary, &e.TotalSalary,
	)
	return e, err
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// employeeConflict maps unique violations on employees and user_accounts to
// domain conflicts.
func employeeConflict(err error) error {
	switch {
	case database.IsUniqueViolation(err, employeeEmailKey, accountEmailKey):
		return employee.ErrEmailExists
	case database.IsUniqueViolation(err, employeeCodeKey):
		return employee.ErrEmployeeCodeExists
	}
	return nil
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (
			id, employee_code, name, email, phone, cnic, department, position, designation,
			address, emergency_contact, bank_account, tax_id, join_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id, e.EmployeeCode, e.Name, e.Email, e.Phone, e.CNIC, e.Department, e.Position, e.Designation,
		e.Address, e.EmergencyContact, e.BankAccount, e.TaxID, e.JoinDate, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

// CreateAccount implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CreateAccount(ctx context.Context, a employee.Account) (employee.Account, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Account{}, err
	}

	query := `
		INSERT INTO user_accounts (id, employee_id, email, password_hash, request_password_change, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, id, a.EmployeeID, a.Email, a.PasswordHash, a.RequestPasswordChange, a.Status).Scan(&a.ID); err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Account{}, conflict
		}
		return employee.Account{}, fmt.Errorf("failed to create user account: %w", err)
	}
	return a, nil
}

// CreateSalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CreateSalary(ctx context.Context, s employee.Salary) error {
	q := GetQuerier(ctx, r.db)

	query := `INSERT INTO employee_salaries (employee_id, base_salary, total_salary) VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, query, s.EmployeeID, s.BaseSalary, s.TotalSalary); err != nil {
		return fmt.Errorf("failed to create salary: %w", err)
	}
	return nil
}

// CreateAllowances implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CreateAllowances(ctx context.Context, employeeID string, allowances []employee.Allowance) error {
	if len(allowances) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, a := range allowances {
		id, err := newID()
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO employee_allowances (id, employee_id, name, amount) VALUES ($1, $2, $3, $4)`,
			id, employeeID, a.Name, a.Amount)
	}
	return sendBatch(ctx, q, batch, "allowance")
}

// CreateResources implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CreateResources(ctx context.Context, employeeID string, resources []employee.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, res := range resources {
		id, err := newID()
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO employee_resources (id, employee_id, name, serial) VALUES ($1, $2, $3, $4)`,
			id, employeeID, res.Name, res.Serial)
	}
	return sendBatch(ctx, q, batch, "resource")
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func sendBatch(ctx context.Context, q database.Querier, batch *pgx.Batch, what string) error {
	sender, ok := q.(batchSender)
	if !ok {
		return fmt.Errorf("querier %T cannot send batches", q)
	}
	results := sender.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to create %s: %w", what, err)
		}
	}
	return results.Close()
}

// SaveProgress implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SaveProgress(ctx context.Context, p employee.Progress) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO onboarding_progress (
			employee_id, basic_info, security_setup, job_details, allowances,
			additional_info, review_confirm, is_completed, completion_percentage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id) DO UPDATE SET
			basic_info = EXCLUDED.basic_info,
			security_setup = EXCLUDED.security_setup,
			job_details = EXCLUDED.job_details,
			allowances = EXCLUDED.allowances,
			additional_info = EXCLUDED.additional_info,
			review_confirm = EXCLUDED.review_confirm,
			is_completed = EXCLUDED.is_completed,
			completion_percentage = EXCLUDED.completion_percentage,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		p.EmployeeID, p.BasicInfo, p.SecuritySetup, p.JobDetails, p.Allowances,
		p.AdditionalInfo, p.ReviewConfirm, p.IsCompleted, p.CompletionPercentage,
	)
	if err != nil {
		return fmt.Errorf("failed to save onboarding progress: %w", err)
	}
	return nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+employeeFrom+` ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return employees, nil
}

// ListAllowances implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListAllowances(ctx context.Context, employeeID string) ([]employee.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, employee_id, name, amount FROM employee_allowances WHERE employee_id = $1 ORDER BY name`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []employee.Allowance
	for rows.Next() {
		var a employee.Allowance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Name, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	return allowances, rows.Err()
}

// ListResources implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListResources(ctx context.Context, employeeID string) ([]employee.Resource, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, employee_id, name, serial FROM employee_resources WHERE employee_id = $1 ORDER BY name`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []employee.Resource
	for rows.Next() {
		var res employee.Resource
		if err := rows.Scan(&res.ID, &res.EmployeeID, &res.Name, &res.Serial); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// GetProgress implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetProgress(ctx context.Context, employeeID string) (employee.Progress, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, basic_info, security_setup, job_details, allowances,
			   additional_info, review_confirm, is_completed, completion_percentage, updated_at
		FROM onboarding_progress
		WHERE employee_id = $1
	`

	var p employee.Progress
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&p.EmployeeID, &p.BasicInfo, &p.SecuritySetup, &p.JobDetails, &p.Allowances,
		&p.AdditionalInfo, &p.ReviewConfirm, &p.IsCompleted, &p.CompletionPercentage, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Progress{}, employee.ErrProgressNotFound
		}
		return employee.Progress{}, fmt.Errorf("failed to get onboarding progress: %w", err)
	}
	return p, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE employees SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		column string
		value  *string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"cnic", req.CNIC},
		{"department", req.Department},
		{"position", req.Position},
		{"address", req.Address},
		{"emergency_contact", req.EmergencyContact},
		{"bank_account", req.BankAccount},
		{"tax_id", req.TaxID},
		{"status", req.Status},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", f.column, argIdx)
		args = append(args, *f.value)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, req.ID)
}

// SyncAccountEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SyncAccountEmail(ctx context.Context, employeeID, email string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE user_accounts SET email = $2, updated_at = NOW() WHERE employee_id = $1`, employeeID, email)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to update account email: %w", err)
	}
	return nil
}

// SetStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetStatus(ctx context.Context, id, status string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE employees SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if _, err := q.Exec(ctx, `UPDATE user_accounts SET status = $2, updated_at = NOW() WHERE employee_id = $1`, id, status); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update account status: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

type employeeDirectory struct {
	db *database.DB
}

func NewEmployeeDirectory(db *database.DB) attendance.EmployeeDirectory {
	return &employeeDirectory{db: db}
}

// ListActive implements attendance.EmployeeDirectory.
func (d *employeeDirectory) ListActive(ctx context.Context) ([]attendance.ActiveEmployee, error) {
	q := GetQuerier(ctx, d.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_code, name, email, join_date
		FROM employees
		WHERE status = 'Active'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.ActiveEmployee
	for rows.Next() {
		var e attendance.ActiveEmployee
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Email, &e.JoinDate); err != nil {
			return nil, fmt.Errorf("failed to scan active employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
