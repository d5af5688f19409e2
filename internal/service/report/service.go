package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workdays"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	RemarkNoCheckIn = "No check-in"

	defaultPageLimit = 50
	exportRowLimit   = 10000
)

var sixty = decimal.NewFromInt(60)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	sessions   attendance.SessionRepository
	employees  attendance.EmployeeDirectory
	clock      clock.Clock
}

func NewReportService(reportRepo report.ReportRepository, sessions attendance.SessionRepository, employees attendance.EmployeeDirectory, c clock.Clock) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		sessions:   sessions,
		employees:  employees,
		clock:      c,
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// withBreaks loads the breaks of every stored row in one query.
func (s *ReportServiceImpl) withBreaks(ctx context.Context, rows []report.AttendanceRow) error {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := s.sessions.ListBreaks(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load breaks: %w", err)
	}
	for i := range rows {
		rows[i].Breaks = byID[rows[i].ID]
		if rows[i].Breaks == nil {
			rows[i].Breaks = []attendance.BreakSummary{}
		}
		rows[i].TotalBreaksCount = len(rows[i].Breaks)
	}
	return nil
}

// All implements report.ReportService.
func (s *ReportServiceImpl) All(ctx context.Context, filter report.AttendanceFilter) (report.AttendanceListResponse, error) {
	if err := filter.Validate(defaultPageLimit); err != nil {
		return report.AttendanceListResponse{}, err
	}

	sessions, total, err := s.reportRepo.ListAttendance(ctx, filter)
	if err != nil {
		return report.AttendanceListResponse{}, err
	}

	rows := make([]report.AttendanceRow, 0, len(sessions))
	for _, sess := range sessions {
		rows = append(rows, report.AttendanceRow{SessionResponse: attendance.NewSessionResponse(sess)})
	}
	if err := s.withBreaks(ctx, rows); err != nil {
		return report.AttendanceListResponse{}, err
	}

	return report.AttendanceListResponse{
		Records: rows,
		Pagination: report.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages(total, filter.Limit),
		},
	}, nil
}

// AllWithAbsent implements report.ReportService.
func (s *ReportServiceImpl) AllWithAbsent(ctx context.Context, filter report.AttendanceFilter) (report.AttendanceListResponse, error) {
	if err := filter.Validate(defaultPageLimit); err != nil {
		return report.AttendanceListResponse{}, err
	}

	var (
		employees []attendance.ActiveEmployee
		sessions  []attendance.Session
	)
	stored := filter
	stored.Status = nil

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employees.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.reportRepo.ListAttendanceAll(gctx, stored)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.AttendanceListResponse{}, err
	}

	rows := make([]report.AttendanceRow, 0, len(sessions)+len(employees))
	seen := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		seen[sess.EmployeeID] = true
		rows = append(rows, report.AttendanceRow{SessionResponse: attendance.NewSessionResponse(sess)})
	}

	if filter.Date != nil && *filter.Date != "" {
		day, err := clock.ParseDate(*filter.Date)
		if err != nil {
			return report.AttendanceListResponse{}, err
		}
		if workdays.IsWeekday(day) {
			for _, emp := range employees {
				if seen[emp.ID] {
					continue
				}
				rows = append(rows, absentPlaceholder(emp, *filter.Date))
			}
		}
	}

	if filter.Status != nil && *filter.Status != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Status == *filter.Status {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ni, nj := nameOf(rows[i]), nameOf(rows[j])
		if ni != nj {
			return ni < nj
		}
		return rows[i].Status < rows[j].Status
	})

	total := int64(len(rows))
	from := min(len(rows), (filter.Page-1)*filter.Limit)
	to := min(len(rows), from+filter.Limit)
	page := rows[from:to]

	if err := s.withBreaks(ctx, page); err != nil {
		return report.AttendanceListResponse{}, err
	}

	active := len(employees)
	return report.AttendanceListResponse{
		Records: page,
		Pagination: report.Pagination{
			Page:                 filter.Page,
			Limit:                filter.Limit,
			Total:                total,
			TotalPages:           totalPages(total, filter.Limit),
			TotalActiveEmployees: &active,
		},
	}, nil
}

func absentPlaceholder(emp attendance.ActiveEmployee, date string) report.AttendanceRow {
	name, email, remark := emp.Name, emp.Email, RemarkNoCheckIn
	return report.AttendanceRow{
		SessionResponse: attendance.SessionResponse{
			EmployeeID:             emp.ID,
			EmployeeName:           &name,
			EmployeeEmail:          &email,
			AttendanceDate:         date,
			Status:                 shift.StatusAbsent,
			ExpectedWorkingMinutes: worktime.ExpectedShiftMinutes,
			OvertimeHours:          decimal.Zero,
			Remarks:                &remark,
			Breaks:                 []attendance.BreakSummary{},
		},
	}
}

func nameOf(r report.AttendanceRow) string {
	if r.EmployeeName == nil {
		return ""
	}
	return *r.EmployeeName
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, filter report.RangeFilter) ([]report.SummaryRow, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		worked := rows[i].PresentDays + rows[i].LateDays
		rows[i].AverageNetHours = decimal.Zero
		if worked > 0 {
			rows[i].AverageNetHours = decimal.NewFromInt(int64(rows[i].TotalNetMinutes)).
				Div(sixty).
				Div(decimal.NewFromInt(int64(worked))).
				Round(2)
		}
	}
	if rows == nil {
		rows = []report.SummaryRow{}
	}
	return rows, nil
}

// Overtime implements report.ReportService.
func (s *ReportServiceImpl) Overtime(ctx context.Context, filter report.RangeFilter) (report.OvertimeResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.OvertimeResponse{}, err
	}

	rows, err := s.reportRepo.Overtime(ctx, filter)
	if err != nil {
		return report.OvertimeResponse{}, err
	}
	if rows == nil {
		rows = []report.OvertimeRow{}
	}

	minutes := 0
	for _, r := range rows {
		minutes += r.OvertimeMinutes
	}

	summary := report.OvertimeSummary{
		TotalOvertimeHours:    decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2),
		TotalOvertimeDays:     len(rows),
		AverageOvertimePerDay: decimal.Zero,
	}
	if len(rows) > 0 {
		summary.AverageOvertimePerDay = decimal.NewFromInt(int64(minutes)).
			Div(sixty).
			Div(decimal.NewFromInt(int64(len(rows)))).
			Round(2)
	}

	return report.OvertimeResponse{Records: rows, Summary: summary}, nil
}

func exportName(prefix string, filter report.RangeFilter, now time.Time) string {
	from, to := "all", now.Format(clock.DateLayout)
	if filter.StartDate != nil && *filter.StartDate != "" {
		from = *filter.StartDate
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		to = *filter.EndDate
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, from, to)
}

// ExportOvertime implements report.ReportService.
func (s *ReportServiceImpl) ExportOvertime(ctx context.Context, filter report.RangeFilter) (report.Export, error) {
	resp, err := s.Overtime(ctx, filter)
	if err != nil {
		return report.Export{}, err
	}

	records := export.Sheet{
		Name: "Overtime",
		Columns: []export.Column{
			{Header: "Employee", Width: 24},
			{Header: "Code", Width: 12},
			{Header: "Date", Width: 12},
			{Header: "Check In", Width: 10},
			{Header: "Check Out", Width: 10},
			{Header: "Net Minutes", Width: 12},
			{Header: "Overtime Minutes", Width: 16},
			{Header: "Overtime Hours", Width: 14},
		},
	}
	for _, r := range resp.Records {
		records.Rows = append(records.Rows, []any{
			r.EmployeeName, r.EmployeeCode, r.AttendanceDate,
			r.CheckInTime, r.CheckOutTime,
			r.NetMinutes, r.OvertimeMinutes, r.OvertimeHours,
		})
	}

	summary := export.Sheet{
		Name:    "Summary",
		Columns: []export.Column{{Header: "Total Overtime Hours", Width: 20}, {Header: "Days", Width: 8}, {Header: "Average Per Day", Width: 16}},
		Rows:    [][]any{{resp.Summary.TotalOvertimeHours, resp.Summary.TotalOvertimeDays, resp.Summary.AverageOvertimePerDay}},
	}

	content, err := export.Build(records, summary)
	if err != nil {
		return report.Export{}, err
	}
	return report.Export{
		Filename:    exportName("overtime_report", filter, s.clock.Now().In(clock.PKT)),
		ContentType: export.ContentType,
		Content:     content,
	}, nil
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, filter report.RangeFilter) (report.Export, error) {
	if err := filter.Validate(); err != nil {
		return report.Export{}, err
	}

	sessions, err := s.reportRepo.ListAttendanceRange(ctx, filter, exportRowLimit+1)
	if err != nil {
		return report.Export{}, err
	}
	if len(sessions) > exportRowLimit {
		return report.Export{}, report.ErrExportTooLarge
	}

	sheet := export.Sheet{
		Name: "Attendance",
		Columns: []export.Column{
			{Header: "Employee", Width: 24},
			{Header: "Date", Width: 12},
			{Header: "Status", Width: 10},
			{Header: "Check In", Width: 10},
			{Header: "Check Out", Width: 10},
			{Header: "Late Minutes", Width: 12},
			{Header: "Gross Minutes", Width: 14},
			{Header: "Net Minutes", Width: 12},
			{Header: "Break Minutes", Width: 14},
			{Header: "Overtime Hours", Width: 14},
			{Header: "Remarks", Width: 30},
		},
	}
	for _, sess := range sessions {
		r := attendance.NewSessionResponse(sess)
		sheet.Rows = append(sheet.Rows, []any{
			r.EmployeeName, r.AttendanceDate, r.Status,
			r.CheckInTime, r.CheckOutTime, r.LateByMinutes,
			r.GrossWorkingMinutes, r.NetWorkingMinutes, r.TotalBreakDurationMinutes,
			r.OvertimeHours, r.Remarks,
		})
	}

	content, err := export.Build(sheet)
	if err != nil {
		return report.Export{}, err
	}
	return report.Export{
		Filename:    exportName("attendance_report", filter, s.clock.Now().In(clock.PKT)),
		ContentType: export.ContentType,
		Content:     content,
	}, nil
}
