package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type ReportRepository interface {
	// ListAttendance returns one page of live sessions, newest date first.
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]attendance.Session, int64, error)
	// ListAttendanceAll returns every live session matching the filter, unpaginated.
	ListAttendanceAll(ctx context.Context, filter AttendanceFilter) ([]attendance.Session, error)
	ListAttendanceRange(ctx context.Context, filter RangeFilter, limit int) ([]attendance.Session, error)

	Summary(ctx context.Context, filter RangeFilter) ([]SummaryRow, error)
	Overtime(ctx context.Context, filter RangeFilter) ([]OvertimeRow, error)
}
