package report

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE LISTS
// ========================================

type AttendanceFilter struct {
	Date   *string `json:"date,omitempty"`
	Status *string `json:"status,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *AttendanceFilter) Validate(defaultLimit int) error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" {
		validStatuses := []string{shift.StatusPresent, shift.StatusLate, shift.StatusAbsent}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Late, Absent",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceRow struct {
	attendance.SessionResponse
	TotalBreaksCount int `json:"total_breaks_count"`
}

type Pagination struct {
	Page                 int   `json:"page"`
	Limit                int   `json:"limit"`
	Total                int64 `json:"total"`
	TotalPages           int   `json:"total_pages"`
	TotalActiveEmployees *int  `json:"total_active_employees,omitempty"`
}

type AttendanceListResponse struct {
	Records    []AttendanceRow `json:"records"`
	Pagination Pagination      `json:"pagination"`
}

// ========================================
// SUMMARY & OVERTIME
// ========================================

type RangeFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (f *RangeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	start, startOK := parseOptionalDate(f.StartDate)
	if f.StartDate != nil && *f.StartDate != "" && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := parseOptionalDate(f.EndDate)
	if f.EndDate != nil && *f.EndDate != "" && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end < start {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// parseOptionalDate returns the date back as a sortable string when valid.
func parseOptionalDate(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	if _, ok := validator.IsValidDate(*s); !ok {
		return "", false
	}
	return *s, true
}

// SummaryRow aggregates one employee over the filtered range.
type SummaryRow struct {
	EmployeeID           string          `json:"employee_id"`
	EmployeeName         string          `json:"employee_name"`
	EmployeeCode         string          `json:"employee_code"`
	Department           string          `json:"department"`
	TotalDays            int             `json:"total_days"`
	PresentDays          int             `json:"present_days"`
	LateDays             int             `json:"late_days"`
	AbsentDays           int             `json:"absent_days"`
	TotalLateMinutes     int             `json:"total_late_minutes"`
	TotalNetMinutes      int             `json:"total_net_working_minutes"`
	TotalOvertimeMinutes int             `json:"total_overtime_minutes"`
	TotalBreakMinutes    int             `json:"total_break_minutes"`
	AverageNetHours      decimal.Decimal `json:"average_net_working_hours"`
}

type OvertimeRow struct {
	AttendanceID    string          `json:"attendance_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	EmployeeCode    string          `json:"employee_code"`
	AttendanceDate  string          `json:"attendance_date"`
	CheckInTime     *string         `json:"check_in_time"`
	CheckOutTime    *string         `json:"check_out_time"`
	NetMinutes      int             `json:"net_working_time_minutes"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
}

type OvertimeSummary struct {
	TotalOvertimeHours    decimal.Decimal `json:"total_overtime_hours"`
	TotalOvertimeDays     int             `json:"total_overtime_days"`
	AverageOvertimePerDay decimal.Decimal `json:"average_overtime_per_day"`
}

type OvertimeResponse struct {
	Records []OvertimeRow   `json:"records"`
	Summary OvertimeSummary `json:"summary"`
}

// Export is a generated spreadsheet.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}
