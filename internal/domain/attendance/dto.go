package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	DeviceInfo *string `json:"device_info,omitempty"`
	IPAddress  *string `json:"ip_address,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.DeviceInfo != nil && len(*r.DeviceInfo) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "device_info",
			Message: "device_info must not exceed 255 characters",
		})
	}

	if r.IPAddress != nil && len(*r.IPAddress) > 45 {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_address",
			Message: "ip_address must not exceed 45 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID                        string          `json:"id"`
	EmployeeID                string          `json:"employee_id"`
	EmployeeName              *string         `json:"employee_name,omitempty"`
	EmployeeEmail             *string         `json:"email,omitempty"`
	AttendanceDate            string          `json:"attendance_date"`
	CheckInTime               *string         `json:"check_in_time"`
	CheckOutTime              *string         `json:"check_out_time"`
	Status                    string          `json:"status"`
	OnTime                    bool            `json:"on_time"`
	IsLate                    bool            `json:"is_late"`
	LateByMinutes             int             `json:"late_by_minutes"`
	GrossWorkingMinutes       *int            `json:"gross_working_time_minutes"`
	NetWorkingMinutes         *int            `json:"net_working_time_minutes"`
	ExpectedWorkingMinutes    int             `json:"expected_working_time_minutes"`
	OvertimeMinutes           int             `json:"overtime_minutes"`
	OvertimeHours             decimal.Decimal `json:"overtime_hours"`
	SmokeBreakCount           int             `json:"smoke_break_count"`
	DinnerBreakCount          int             `json:"dinner_break_count"`
	WashroomBreakCount        int             `json:"washroom_break_count"`
	PrayerBreakCount          int             `json:"prayer_break_count"`
	SmokeBreakMinutes         int             `json:"smoke_break_duration_minutes"`
	DinnerBreakMinutes        int             `json:"dinner_break_duration_minutes"`
	WashroomBreakMinutes      int             `json:"washroom_break_duration_minutes"`
	PrayerBreakMinutes        int             `json:"prayer_break_duration_minutes"`
	TotalBreaksTaken          int             `json:"total_breaks_taken"`
	TotalBreakDurationMinutes int             `json:"total_break_duration_minutes"`
	Remarks                   *string         `json:"remarks,omitempty"`
	IsCheckedIn               bool            `json:"is_checked_in"`
	Breaks                    []BreakSummary  `json:"breaks,omitempty"`
}

// BreakSummary is a break as listed under its attendance session.
type BreakSummary struct {
	ID              string  `json:"id"`
	AttendanceID    string  `json:"attendance_id"`
	BreakType       string  `json:"break_type"`
	StartTime       string  `json:"break_start_time"`
	EndTime         *string `json:"break_end_time"`
	DurationMinutes int     `json:"break_duration_minutes"`
	Reason          *string `json:"reason,omitempty"`
	Status          string  `json:"status"`
}

// NewSessionResponse flattens a session for the wire.
func NewSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:                        s.ID,
		EmployeeID:                s.EmployeeID,
		EmployeeName:              s.EmployeeName,
		EmployeeEmail:             s.EmployeeEmail,
		AttendanceDate:            s.AttendanceDate,
		Status:                    s.Status,
		OnTime:                    s.OnTime,
		IsLate:                    s.LateByMinutes > 0,
		LateByMinutes:             s.LateByMinutes,
		GrossWorkingMinutes:       s.GrossWorkingMinutes,
		NetWorkingMinutes:         s.NetWorkingMinutes,
		ExpectedWorkingMinutes:    s.ExpectedWorkingMinutes,
		OvertimeMinutes:           s.OvertimeMinutes,
		OvertimeHours:             s.OvertimeHours,
		SmokeBreakCount:           s.Breaks.SmokeCount,
		DinnerBreakCount:          s.Breaks.DinnerCount,
		WashroomBreakCount:        s.Breaks.WashroomCount,
		PrayerBreakCount:          s.Breaks.PrayerCount,
		SmokeBreakMinutes:         s.Breaks.SmokeMinutes,
		DinnerBreakMinutes:        s.Breaks.DinnerMinutes,
		WashroomBreakMinutes:      s.Breaks.WashroomMinutes,
		PrayerBreakMinutes:        s.Breaks.PrayerMinutes,
		TotalBreaksTaken:          s.TotalBreaksTaken,
		TotalBreakDurationMinutes: s.TotalBreakDurationMinutes,
		Remarks:                   s.Remarks,
		IsCheckedIn:               s.IsOpen(),
	}
	if s.CheckInTime != nil {
		v := s.CheckInTime.String()
		resp.CheckInTime = &v
	}
	if s.CheckOutTime != nil {
		v := s.CheckOutTime.String()
		resp.CheckOutTime = &v
	}
	return resp
}

type CheckInResponse struct {
	SessionResponse
	Warning            string           `json:"warning,omitempty"`
	AutoClosedPrevious *SessionResponse `json:"auto_closed_previous,omitempty"`
}

type CheckOutResponse struct {
	SessionResponse
	Repaired bool `json:"repaired"`
}

// ========================================
// READ DTOs
// ========================================

type MonthlyFilter struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (f *MonthlyFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if f.Month < 0 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}
	if f.Year < 0 || (f.Year > 0 && (f.Year < 2000 || f.Year > 2100)) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MonthlySummary struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	LateDays    int `json:"late_days"`
}

type MonthlyResponse struct {
	Records []SessionResponse `json:"records"`
	Summary MonthlySummary    `json:"summary"`
}

// ========================================
// ADMINISTRATIVE DTOs
// ========================================

type EmployeeAbsentResult struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	WorkingDays  int    `json:"working_days"`
	Created      int    `json:"created"`
}

type GenerateAbsentResponse struct {
	UpTo      string                 `json:"up_to"`
	Processed int                    `json:"processed"`
	Created   int                    `json:"created"`
	Employees []EmployeeAbsentResult `json:"employees"`
}

type RepairedRecord struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	AttendanceDate  string `json:"attendance_date"`
	GrossMinutes    int    `json:"gross_working_time_minutes"`
	NetMinutes      int    `json:"net_working_time_minutes"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

type RepairResponse struct {
	RecordsUpdated int              `json:"records_updated"`
	Records        []RepairedRecord `json:"records"`
}

type CloseStaleResponse struct {
	Closed int `json:"closed"`
}
