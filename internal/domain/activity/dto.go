package activity

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type RecordRequest struct {
	EmployeeID      string  `json:"employee_id"`
	ActivityType    string  `json:"activity_type"`
	Action          string  `json:"action"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	Device          *string `json:"device,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

func (r *RecordRequest) Validate() error {
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

	if validator.IsEmpty(r.ActivityType) {
		errs = append(errs, validator.ValidationError{
			Field:   "activity_type",
			Message: "activity_type is required",
		})
	} else if len(r.ActivityType) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "activity_type",
			Message: "activity_type must not exceed 100 characters",
		})
	}

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	} else if len(r.Action) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must not exceed 255 characters",
		})
	}

	if r.Description != nil && len(*r.Description) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 1000 characters",
		})
	}
	if r.DurationMinutes != nil && *r.DurationMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_minutes",
			Message: "duration_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	ActivityType *string `json:"activity_type,omitempty"`
	Date         *string `json:"date,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
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

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	errs = validateRange(errs, f.StartDate, f.EndDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatsFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (f *StatsFilter) Validate() error {
	errs := validateRange(nil, f.StartDate, f.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRange(errs validator.ValidationErrors, start, end *string) validator.ValidationErrors {
	var from, to time.Time
	var fromOK, toOK bool

	if start != nil && *start != "" {
		if from, fromOK = validator.IsValidDate(*start); !fromOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil && *end != "" {
		if to, toOK = validator.IsValidDate(*end); !toOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}
	return errs
}

type ActivityResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    *string   `json:"employee_name,omitempty"`
	Department      *string   `json:"department,omitempty"`
	ActivityType    string    `json:"activity_type"`
	Action          string    `json:"action"`
	Description     *string   `json:"description"`
	Timestamp       time.Time `json:"timestamp"`
	ActivityDate    string    `json:"activity_date"`
	Location        *string   `json:"location"`
	Device          *string   `json:"device"`
	DurationMinutes *int      `json:"duration_minutes"`
}

func NewActivityResponse(a Activity) ActivityResponse {
	return ActivityResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		Department:      a.Department,
		ActivityType:    a.ActivityType,
		Action:          a.Action,
		Description:     a.Description,
		Timestamp:       a.OccurredAt,
		ActivityDate:    a.ActivityDate,
		Location:        a.Location,
		Device:          a.Device,
		DurationMinutes: a.DurationMinutes,
	}
}

type ListResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Activities []ActivityResponse `json:"activities"`
}

type TodayResponse struct {
	Date       string             `json:"date"`
	Total      int                `json:"total"`
	Activities []ActivityResponse `json:"activities"`
}

type TypeStatResponse struct {
	ActivityType    string `json:"activity_type"`
	Count           int64  `json:"count"`
	UniqueEmployees int64  `json:"unique_employees"`
}
