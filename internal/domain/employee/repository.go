package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	CreateAccount(ctx context.Context, a Account) (Account, error)
	CreateSalary(ctx context.Context, s Salary) error
	CreateAllowances(ctx context.Context, employeeID string, allowances []Allowance) error
	CreateResources(ctx context.Context, employeeID string, resources []Resource) error
	SaveProgress(ctx context.Context, p Progress) error

	GetByID(ctx context.Context, id string) (Employee, error)
	// List returns employees with their salary, newest first.
	List(ctx context.Context) ([]Employee, error)
	ListAllowances(ctx context.Context, employeeID string) ([]Allowance, error)
	ListResources(ctx context.Context, employeeID string) ([]Resource, error)
	GetProgress(ctx context.Context, employeeID string) (Progress, error)

	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	// SyncAccountEmail keeps the login email in step with the employee record.
	SyncAccountEmail(ctx context.Context, employeeID, email string) error
	SetStatus(ctx context.Context, id, status string) (Employee, error)
	Delete(ctx context.Context, id string) error
}
