package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// sessionFilter builds the WHERE clause shared by the attendance list queries.
type sessionFilter struct {
	clauses []string
	args    []interface{}
}

func newSessionFilter() *sessionFilter {
	return &sessionFilter{clauses: []string{"s.superseded_at IS NULL"}}
}

func (f *sessionFilter) add(clause string, arg interface{}) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, fmt.Sprintf(clause, len(f.args)))
}

func (f *sessionFilter) addRange(filter report.RangeFilter) {
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		f.add("s.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		f.add("s.attendance_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		f.add("s.attendance_date <= $%d::date", *filter.EndDate)
	}
}

func (f *sessionFilter) addAttendance(filter report.AttendanceFilter) {
	if filter.Date != nil && *filter.Date != "" {
		f.add("s.attendance_date = $%d::date", *filter.Date)
	}
	if filter.Status != nil && *filter.Status != "" {
		f.add("s.status = $%d", *filter.Status)
	}
}

func (f *sessionFilter) where() string {
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

func (r *reportRepositoryImpl) listSessions(ctx context.Context, f *sessionFilter, suffix string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + f.where() +
		` ORDER BY s.attendance_date DESC, e.name ASC` + suffix

	rows, err := q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return sessions, nil
}

// ListAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, filter report.AttendanceFilter) ([]attendance.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newSessionFilter()
	f.addAttendance(filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+sessionFrom+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	limitIdx := len(f.args) + 1
	f.args = append(f.args, filter.Limit, (filter.Page-1)*filter.Limit)
	sessions, err := r.listSessions(ctx, f, fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1))
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// ListAttendanceAll implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendanceAll(ctx context.Context, filter report.AttendanceFilter) ([]attendance.Session, error) {
	f := newSessionFilter()
	f.addAttendance(filter)
	return r.listSessions(ctx, f, "")
}

// ListAttendanceRange implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendanceRange(ctx context.Context, filter report.RangeFilter, limit int) ([]attendance.Session, error) {
	f := newSessionFilter()
	f.addRange(filter)
	f.args = append(f.args, limit)
	return r.listSessions(ctx, f, fmt.Sprintf(" LIMIT $%d", len(f.args)))
}

// Summary implements report.ReportRepository.
func (r *reportRepositoryImpl) Summary(ctx context.Context, filter report.RangeFilter) ([]report.SummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	f := newSessionFilter()
	f.addRange(filter)

	query := `
		SELECT
			e.id, e.name, e.employee_code, e.department,
			COUNT(s.id),
			COUNT(*) FILTER (WHERE s.status = 'Present'),
			COUNT(*) FILTER (WHERE s.status = 'Late'),
			COUNT(*) FILTER (WHERE s.status = 'Absent'),
			COALESCE(SUM(s.late_by_minutes), 0),
			COALESCE(SUM(s.net_working_minutes), 0),
			COALESCE(SUM(s.overtime_minutes), 0),
			COALESCE(SUM(s.total_break_duration_minutes), 0)
		FROM attendance_sessions s
		JOIN employees e ON e.id = s.employee_id` + f.where() + `
		GROUP BY e.id, e.name, e.employee_code, e.department
		ORDER BY e.name
	`

	rows, err := q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance summary: %w", err)
	}
	defer rows.Close()

	var result []report.SummaryRow
	for rows.Next() {
		var row report.SummaryRow
		if err := rows.Scan(
			&row.EmployeeID, &row.EmployeeName, &row.EmployeeCode, &row.Department,
			&row.TotalDays, &row.PresentDays, &row.LateDays, &row.AbsentDays,
			&row.TotalLateMinutes, &row.TotalNetMinutes, &row.TotalOvertimeMinutes, &row.TotalBreakMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Overtime implements report.ReportRepository.
func (r *reportRepositoryImpl) Overtime(ctx context.Context, filter report.RangeFilter) ([]report.OvertimeRow, error) {
	q := GetQuerier(ctx, r.db)

	f := newSessionFilter()
	f.clauses = append(f.clauses, "s.overtime_minutes > 0")
	f.addRange(filter)

	query := `
		SELECT
			s.id, s.employee_id, e.name, e.employee_code,
			to_char(s.attendance_date, 'YYYY-MM-DD'),
			to_char(s.check_in_time, 'HH24:MI:SS'), to_char(s.check_out_time, 'HH24:MI:SS'),
			COALESCE(s.net_working_minutes, 0), s.overtime_minutes, s.overtime_hours
		FROM attendance_sessions s
		JOIN employees e ON e.id = s.employee_id` + f.where() + `
		ORDER BY s.attendance_date DESC, e.name
	`

	rows, err := q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var result []report.OvertimeRow
	for rows.Next() {
		var row report.OvertimeRow
		if err := rows.Scan(
			&row.AttendanceID, &row.EmployeeID, &row.EmployeeName, &row.EmployeeCode,
			&row.AttendanceDate, &row.CheckInTime, &row.CheckOutTime,
			&row.NetMinutes, &row.OvertimeMinutes, &row.OvertimeHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
