package employee

import "context"

// EmployeeService manages onboarding records.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeDetailResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	Progress(ctx context.Context, id string) (ProgressResponse, error)
	Deactivate(ctx context.Context, id string) (EmployeeResponse, error)
}
