package report

import "context"

type ReportService interface {
	All(ctx context.Context, filter AttendanceFilter) (AttendanceListResponse, error)
	AllWithAbsent(ctx context.Context, filter AttendanceFilter) (AttendanceListResponse, error)
	Summary(ctx context.Context, filter RangeFilter) ([]SummaryRow, error)
	Overtime(ctx context.Context, filter RangeFilter) (OvertimeResponse, error)

	ExportOvertime(ctx context.Context, filter RangeFilter) (Export, error)
	ExportAttendance(ctx context.Context, filter RangeFilter) (Export, error)
}
