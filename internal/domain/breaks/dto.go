package breaks

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

func validateCommon(employeeID, breakType string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(breakType) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type",
			Message: "break_type is required",
		})
	} else if _, err := ParseBreakType(breakType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type",
			Message: ErrInvalidBreakType.Error(),
		})
	}

	return errs
}

func validateTime(errs validator.ValidationErrors, field string, value *string) validator.ValidationErrors {
	if value != nil && *value != "" && !validator.IsValidTimeOfDay(*value) {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be in HH:MM or HH:MM:SS format",
		})
	}
	return errs
}

type StartRequest struct {
	EmployeeID     string  `json:"employee_id"`
	BreakType      string  `json:"break_type"`
	BreakStartTime *string `json:"break_start_time,omitempty"`
	Reason         *string `json:"reason,omitempty"`
}

func (r *StartRequest) Validate() error {
	errs := validateCommon(r.EmployeeID, r.BreakType)
	errs = validateTime(errs, "break_start_time", r.BreakStartTime)

	if r.Reason != nil && len(*r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProgressRequest struct {
	EmployeeID             string `json:"employee_id"`
	BreakType              string `json:"break_type"`
	CurrentDurationMinutes int    `json:"current_duration_minutes"`
}

func (r *ProgressRequest) Validate() error {
	errs := validateCommon(r.EmployeeID, r.BreakType)

	if r.CurrentDurationMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "current_duration_minutes",
			Message: "current_duration_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EndRequest struct {
	EmployeeID           string  `json:"employee_id"`
	BreakType            string  `json:"break_type"`
	BreakEndTime         *string `json:"break_end_time,omitempty"`
	BreakDurationMinutes *int    `json:"break_duration_minutes,omitempty"`
}

func (r *EndRequest) Validate() error {
	errs := validateCommon(r.EmployeeID, r.BreakType)
	errs = validateTime(errs, "break_end_time", r.BreakEndTime)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordRequest logs a finished break in one call.
type RecordRequest struct {
	EmployeeID           string  `json:"employee_id"`
	BreakType            string  `json:"break_type"`
	BreakStartTime       string  `json:"break_start_time"`
	BreakEndTime         *string `json:"break_end_time,omitempty"`
	BreakDurationMinutes *int    `json:"break_duration_minutes,omitempty"`
	Reason               *string `json:"reason,omitempty"`
}

func (r *RecordRequest) Validate() error {
	errs := validateCommon(r.EmployeeID, r.BreakType)

	if validator.IsEmpty(r.BreakStartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_start_time",
			Message: "break_start_time is required",
		})
	} else {
		errs = validateTime(errs, "break_start_time", &r.BreakStartTime)
	}
	errs = validateTime(errs, "break_end_time", r.BreakEndTime)

	if (r.BreakEndTime == nil || *r.BreakEndTime == "") && r.BreakDurationMinutes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "break_end_time",
			Message: "break_end_time or break_duration_minutes is required",
		})
	}
	if r.BreakDurationMinutes != nil && *r.BreakDurationMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_duration_minutes",
			Message: "break_duration_minutes must not be negative",
		})
	} else if r.BreakDurationMinutes != nil && *r.BreakDurationMinutes > MaxBreakMinutes {
		errs = append(errs, validator.ValidationError{
			Field:   "break_duration_minutes",
			Message: "break_duration_minutes must not exceed 720",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	Date       *string `json:"date,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	BreakType  *string `json:"break_type,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
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
	if f.BreakType != nil && *f.BreakType != "" {
		bt, err := ParseBreakType(*f.BreakType)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "break_type",
				Message: ErrInvalidBreakType.Error(),
			})
		} else {
			s := string(bt)
			f.BreakType = &s
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakResponse struct {
	ID              string    `json:"id"`
	AttendanceID    string    `json:"attendance_id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    *string   `json:"employee_name,omitempty"`
	AttendanceDate  *string   `json:"attendance_date,omitempty"`
	BreakType       BreakType `json:"break_type"`
	StartTime       string    `json:"break_start_time"`
	EndTime         *string   `json:"break_end_time"`
	DurationMinutes int       `json:"break_duration_minutes"`
	Reason          *string   `json:"reason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewBreakResponse(r Record) BreakResponse {
	resp := BreakResponse{
		ID:              r.ID,
		AttendanceID:    r.AttendanceID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		AttendanceDate:  r.AttendanceDate,
		BreakType:       r.BreakType,
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
		Reason:          r.Reason,
		Status:          r.Status(),
		CreatedAt:       r.CreatedAt,
	}
	if r.EndTime != nil {
		v := r.EndTime.String()
		resp.EndTime = &v
	}
	return resp
}

type StartResponse struct {
	Break           BreakResponse              `json:"break"`
	Attendance      attendance.SessionResponse `json:"attendance"`
	SessionCreated  bool                       `json:"session_created"`
	SessionPromoted bool                       `json:"session_promoted"`
}

type EndResponse struct {
	Break                     BreakResponse `json:"break"`
	DurationSource            string        `json:"duration_source"`
	TotalBreaksTaken          int           `json:"total_breaks_taken"`
	TotalBreakDurationMinutes int           `json:"total_break_duration_minutes"`
}

type OngoingBreak struct {
	BreakResponse
	StoredDurationMinutes int    `json:"stored_duration_minutes"`
	LiveDurationMinutes   int    `json:"live_duration_minutes"`
	StartedAt             string `json:"started_at"`
}

type OngoingResponse struct {
	AttendanceID   string         `json:"attendance_id"`
	AttendanceDate string         `json:"attendance_date"`
	Breaks         []OngoingBreak `json:"ongoing_breaks"`
	Count          int            `json:"count"`
}

type TodayResponse struct {
	AttendanceID              string          `json:"attendance_id"`
	AttendanceDate            string          `json:"attendance_date"`
	Breaks                    []BreakResponse `json:"breaks"`
	TotalBreaksTaken          int             `json:"total_breaks_taken"`
	TotalBreakDurationMinutes int             `json:"total_break_duration_minutes"`
}

type ListResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Breaks     []BreakResponse `json:"breaks"`
}
