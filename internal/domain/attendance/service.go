package attendance

import (
	"context"
)

// AttendanceService is the session state machine and its repair pass.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// Today returns the session of the current attendance date with its breaks.
	Today(ctx context.Context, employeeID string) (SessionResponse, error)
	Monthly(ctx context.Context, filter MonthlyFilter) (MonthlyResponse, error)

	GenerateAbsent(ctx context.Context) (GenerateAbsentResponse, error)
	CloseStale(ctx context.Context) (CloseStaleResponse, error)

	// RepairSession fixes one closed session with missing working time.
	RepairSession(ctx context.Context, id string) (bool, error)
	RepairAll(ctx context.Context) (RepairResponse, error)
}
