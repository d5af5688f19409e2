package rule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	RuleName                   string           `json:"rule_name"`
	RuleType                   string           `json:"rule_type"`
	Description                *string          `json:"description,omitempty"`
	StartTime                  *string          `json:"start_time,omitempty"`
	EndTime                    *string          `json:"end_time,omitempty"`
	TotalHours                 *decimal.Decimal `json:"total_hours,omitempty"`
	BreakDurationMinutes       *int             `json:"break_duration_minutes,omitempty"`
	BreakType                  *string          `json:"break_type,omitempty"`
	OvertimeStartsAfterMinutes *int             `json:"overtime_starts_after_minutes,omitempty"`
	OvertimeMultiplier         *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	IsActive                   *bool            `json:"is_active,omitempty"`
	Priority                   *int             `json:"priority,omitempty"`
}

func (r *CreateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RuleName) {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_name",
			Message: "rule_name is required",
		})
	} else if len(r.RuleName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_name",
			Message: "rule_name must not exceed 255 characters",
		})
	}

	t := Type(r.RuleType)
	if validator.IsEmpty(r.RuleType) {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_type",
			Message: "rule_type is required",
		})
	} else if !t.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_type",
			Message: ErrInvalidRuleType.Error(),
		})
	}

	switch t {
	case TypeWorkingHours:
		if isBlank(r.StartTime) || isBlank(r.EndTime) || r.TotalHours == nil || !r.TotalHours.IsPositive() {
			errs = append(errs, validator.ValidationError{
				Field:   "rule_type",
				Message: "working hours rule requires: start_time, end_time, total_hours",
			})
		}
	case TypeBreakTime:
		if r.BreakDurationMinutes == nil || *r.BreakDurationMinutes <= 0 || isBlank(r.BreakType) {
			errs = append(errs, validator.ValidationError{
				Field:   "rule_type",
				Message: "break time rule requires: break_duration_minutes, break_type",
			})
		}
	case TypeOvertime:
		if r.OvertimeStartsAfterMinutes == nil || *r.OvertimeStartsAfterMinutes <= 0 || r.OvertimeMultiplier == nil || !r.OvertimeMultiplier.IsPositive() {
			errs = append(errs, validator.ValidationError{
				Field:   "rule_type",
				Message: "overtime rule requires: overtime_starts_after_minutes, overtime_multiplier",
			})
		}
	}

	errs = validateTimes(errs, r.StartTime, r.EndTime)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRuleRequest struct {
	ID                         string           `json:"-"`
	RuleName                   *string          `json:"rule_name,omitempty"`
	Description                *string          `json:"description,omitempty"`
	StartTime                  *string          `json:"start_time,omitempty"`
	EndTime                    *string          `json:"end_time,omitempty"`
	TotalHours                 *decimal.Decimal `json:"total_hours,omitempty"`
	BreakDurationMinutes       *int             `json:"break_duration_minutes,omitempty"`
	BreakType                  *string          `json:"break_type,omitempty"`
	OvertimeStartsAfterMinutes *int             `json:"overtime_starts_after_minutes,omitempty"`
	OvertimeMultiplier         *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	IsActive                   *bool            `json:"is_active,omitempty"`
	Priority                   *int             `json:"priority,omitempty"`
}

// IsEmpty reports a request that changes nothing.
func (r *UpdateRuleRequest) IsEmpty() bool {
	return r.RuleName == nil && r.Description == nil && r.StartTime == nil && r.EndTime == nil &&
		r.TotalHours == nil && r.BreakDurationMinutes == nil && r.BreakType == nil &&
		r.OvertimeStartsAfterMinutes == nil && r.OvertimeMultiplier == nil &&
		r.IsActive == nil && r.Priority == nil
}

func (r *UpdateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RuleName != nil && validator.IsEmpty(*r.RuleName) {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_name",
			Message: "rule_name must not be empty",
		})
	}
	if r.BreakDurationMinutes != nil && *r.BreakDurationMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_duration_minutes",
			Message: "break_duration_minutes must be positive",
		})
	}
	errs = validateTimes(errs, r.StartTime, r.EndTime)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTimes(errs validator.ValidationErrors, start, end *string) validator.ValidationErrors {
	if start != nil && *start != "" && !validator.IsValidTimeOfDay(*start) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM or HH:MM:SS format",
		})
	}
	if end != nil && *end != "" && !validator.IsValidTimeOfDay(*end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM or HH:MM:SS format",
		})
	}
	return errs
}

func isBlank(s *string) bool {
	return s == nil || validator.IsEmpty(*s)
}

type RuleResponse struct {
	ID                         string           `json:"id"`
	RuleName                   string           `json:"rule_name"`
	RuleType                   Type             `json:"rule_type"`
	Description                *string          `json:"description"`
	StartTime                  *string          `json:"start_time"`
	EndTime                    *string          `json:"end_time"`
	TotalHours                 *decimal.Decimal `json:"total_hours"`
	BreakDurationMinutes       *int             `json:"break_duration_minutes"`
	BreakType                  *string          `json:"break_type"`
	OvertimeStartsAfterMinutes *int             `json:"overtime_starts_after_minutes"`
	OvertimeMultiplier         *decimal.Decimal `json:"overtime_multiplier"`
	IsActive                   bool             `json:"is_active"`
	Priority                   int              `json:"priority"`
	CreatedAt                  time.Time        `json:"created_at"`
	UpdatedAt                  time.Time        `json:"updated_at"`
}

func NewRuleResponse(r Rule) RuleResponse {
	return RuleResponse{
		ID:                         r.ID,
		RuleName:                   r.Name,
		RuleType:                   r.Type,
		Description:                r.Description,
		StartTime:                  r.StartTime,
		EndTime:                    r.EndTime,
		TotalHours:                 r.TotalHours,
		BreakDurationMinutes:       r.BreakDurationMinutes,
		BreakType:                  r.BreakType,
		OvertimeStartsAfterMinutes: r.OvertimeStartsAfterMinutes,
		OvertimeMultiplier:         r.OvertimeMultiplier,
		IsActive:                   r.IsActive,
		Priority:                   r.Priority,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
}

// BreakRule is the compact shape break-timer clients consume.
type BreakRule struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Limit       *int    `json:"limit"`
	Description *string `json:"description"`
}

// NewBreakRule names the rule after its break type, and derives a short
// lowercase key such as "smoke" from "Smoke Break".
func NewBreakRule(r Rule) BreakRule {
	name := r.Name
	if r.BreakType != nil && *r.BreakType != "" {
		name = *r.BreakType
	}
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " break", "")
	key = strings.ReplaceAll(key, "break", "")
	return BreakRule{
		ID:          r.ID,
		Name:        name,
		Type:        strings.TrimSpace(key),
		Limit:       r.BreakDurationMinutes,
		Description: r.Description,
	}
}
