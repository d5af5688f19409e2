package breaks

import "context"

type BreakService interface {
	Start(ctx context.Context, req StartRequest) (StartResponse, error)
	Progress(ctx context.Context, req ProgressRequest) (BreakResponse, error)
	End(ctx context.Context, req EndRequest) (EndResponse, error)
	Record(ctx context.Context, req RecordRequest) (EndResponse, error)

	Ongoing(ctx context.Context, employeeID string) (OngoingResponse, error)
	Today(ctx context.Context, employeeID string) (TodayResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
