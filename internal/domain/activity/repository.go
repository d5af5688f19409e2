package activity

import "context"

type Repository interface {
	Insert(ctx context.Context, a Activity) (Activity, error)
	// List orders by occurred_at descending and returns the total row count
	// matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Activity, int64, error)
	// Stats groups by activity type, most frequent first.
	Stats(ctx context.Context, filter StatsFilter) ([]TypeStat, error)
}
