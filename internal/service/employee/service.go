package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx           postgresql.Transactor
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(tx postgresql.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	allowances := make([]employee.Allowance, 0, len(req.Allowances))
	for _, a := range req.Allowances {
		allowances = append(allowances, employee.Allowance{Name: strings.TrimSpace(a.Name), Amount: a.Amount})
	}
	resources := make([]employee.Resource, 0, len(req.Resources))
	for _, r := range req.Resources {
		resources = append(resources, employee.Resource{Name: strings.TrimSpace(r.Name), Serial: r.Serial})
	}
	total := employee.TotalSalary(req.BaseSalary, allowances)

	var resp employee.CreateEmployeeResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.employeeRepo.Create(ctx, employee.Employee{
			EmployeeCode:     strings.TrimSpace(req.EmployeeCode),
			Name:             strings.TrimSpace(req.Name),
			Email:            strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:            req.Phone,
			CNIC:             req.CNIC,
			Department:       req.Department,
			Position:         req.Position,
			Designation:      req.Designation,
			Address:          req.Address,
			EmergencyContact: req.EmergencyContact,
			BankAccount:      req.BankAccount,
			TaxID:            req.TaxID,
			JoinDate:         req.ParsedJoinDate(),
			Status:           employee.StatusActive,
		})
		if err != nil {
			return err
		}

		account, err := s.employeeRepo.CreateAccount(ctx, employee.Account{
			EmployeeID:            created.ID,
			Email:                 created.Email,
			PasswordHash:          passwordHash,
			RequestPasswordChange: true,
			Status:                employee.StatusActive,
		})
		if err != nil {
			return err
		}

		if err := s.employeeRepo.CreateSalary(ctx, employee.Salary{
			EmployeeID:  created.ID,
			BaseSalary:  req.BaseSalary,
			TotalSalary: total,
		}); err != nil {
			return err
		}
		if err := s.employeeRepo.CreateAllowances(ctx, created.ID, allowances); err != nil {
			return err
		}
		if err := s.employeeRepo.CreateResources(ctx, created.ID, resources); err != nil {
			return err
		}
		if err := s.employeeRepo.SaveProgress(ctx, employee.CompletedProgress(created.ID)); err != nil {
			return err
		}

		resp = employee.CreateEmployeeResponse{
			ID:           created.ID,
			EmployeeCode: created.EmployeeCode,
			AccountID:    account.ID,
			TotalSalary:  total,
		}
		return nil
	})
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	slog.Info("Employee onboarded", "employee_id", resp.ID, "employee_code", resp.EmployeeCode)
	return resp, nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.NewEmployeeResponse(e))
	}
	return out, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeDetailResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	allowances, err := s.employeeRepo.ListAllowances(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	resources, err := s.employeeRepo.ListResources(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	detail := employee.EmployeeDetailResponse{
		EmployeeResponse: employee.NewEmployeeResponse(emp),
		Allowances:       make([]employee.AllowanceResponse, 0, len(allowances)),
		Resources:        make([]employee.ResourceResponse, 0, len(resources)),
	}
	for _, a := range allowances {
		detail.Allowances = append(detail.Allowances, employee.AllowanceResponse{Name: a.Name, Amount: a.Amount})
	}
	for _, r := range resources {
		detail.Resources = append(detail.Resources, employee.ResourceResponse{Name: r.Name, Serial: r.Serial})
	}

	progress, err := s.employeeRepo.GetProgress(ctx, id)
	switch {
	case err == nil:
		p := employee.NewProgressResponse(progress)
		detail.Progress = &p
	case !errors.Is(err, employee.ErrProgressNotFound):
		return employee.EmployeeDetailResponse{}, err
	}
	return detail, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if req.IsEmpty() {
		return employee.EmployeeResponse{}, employee.ErrNoFieldsToUpdate
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}

	var updated employee.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = s.employeeRepo.Update(ctx, req); err != nil {
			return err
		}
		if req.Email != nil {
			return s.employeeRepo.SyncAccountEmail(ctx, updated.ID, updated.Email)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}

// Progress implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Progress(ctx context.Context, id string) (employee.ProgressResponse, error) {
	progress, err := s.employeeRepo.GetProgress(ctx, id)
	if err != nil {
		return employee.ProgressResponse{}, err
	}
	return employee.NewProgressResponse(progress), nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	var updated employee.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if emp.Status == employee.StatusInactive {
			return employee.ErrAlreadyInactive
		}
		updated, err = s.employeeRepo.SetStatus(ctx, id, employee.StatusInactive)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee deactivated", "employee_id", id)
	return employee.NewEmployeeResponse(updated), nil
}
