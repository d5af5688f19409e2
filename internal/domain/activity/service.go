package activity

import "context"

type ActivityService interface {
	Record(ctx context.Context, req RecordRequest) (ActivityResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	Today(ctx context.Context) (TodayResponse, error)
	Stats(ctx context.Context, filter StatsFilter) ([]TypeStatResponse, error)
}
