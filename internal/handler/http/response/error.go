package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/rule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

var exposeCause atomic.Bool

// ExposeErrorCause makes unexpected errors carry their text in
// error.details.cause. Only development servers should enable it.
func ExposeErrorCause(enabled bool) {
	exposeCause.Store(enabled)
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var openSession *attendance.OpenSessionError
	if errors.As(err, &openSession) {
		ConflictWithData(w, openSession.Error(), openSession.Details())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrSessionRevoked):
		Unauthorized(w, "Session has been logged out")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrOutsideShift):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, err.Error())

	// Breaks
	case errors.Is(err, breaks.ErrInvalidBreakType):
		BadRequest(w, err.Error(), map[string]string{"break_type": err.Error()})
	case errors.Is(err, breaks.ErrEndBeforeStart):
		BadRequest(w, err.Error(), map[string]string{"break_end_time": err.Error()})
	case errors.Is(err, breaks.ErrSessionClosed),
		errors.Is(err, breaks.ErrBreakAlreadyOngoing):
		Conflict(w, err.Error())
	case errors.Is(err, breaks.ErrNoOpenSession),
		errors.Is(err, breaks.ErrNoOngoingBreak),
		errors.Is(err, breaks.ErrBreakNotFound):
		NotFound(w, err.Error())

	// Reports
	case errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrExportTooLarge):
		BadRequest(w, err.Error(), nil)

	// Rules
	case errors.Is(err, rule.ErrRuleNotFound):
		NotFound(w, "Rule not found")
	case errors.Is(err, rule.ErrRuleNameExists):
		Conflict(w, "Rule with this name already exists")
	case errors.Is(err, rule.ErrInvalidRuleType),
		errors.Is(err, rule.ErrNoFieldsToUpdate):
		BadRequest(w, err.Error(), nil)

	// Employees
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrProgressNotFound):
		NotFound(w, "Onboarding progress not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrNoFieldsToUpdate):
		BadRequest(w, "No fields to update", nil)

	default:
		slog.Error("Unhandled error", "error", err)
		var details map[string]string
		if exposeCause.Load() {
			details = map[string]string{"cause": err.Error()}
		}
		InternalServerError(w, "An unexpected error occurred", details)
	}
}
