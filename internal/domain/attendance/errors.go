package attendance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrOpenSessionExists = errors.New("you are still checked in from your previous session, please check out first")
	ErrOutsideShift      = errors.New("check-in is outside shift hours (21:00 to 06:00)")

	// Check-out errors
	ErrNoOpenSession     = errors.New("no open attendance session found for today or yesterday")
	ErrAlreadyCheckedOut = errors.New("attendance session is already checked out")

	// General errors
	ErrSessionNotFound     = errors.New("attendance record not found")
	ErrEmployeeIDRequired  = errors.New("employee_id is required")
	ErrMissingWorkingTime  = errors.New("closed attendance session has no working time")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrAttendanceDateRange = errors.New("start_date must not be after end_date")
)

// OpenSessionError is returned by check-in when a recent session is still
// open. It carries what a client needs to decide to check out.
type OpenSessionError struct {
	RecordID       string
	CheckInTime    string
	AttendanceDate string
	HoursOpen      decimal.Decimal
}

func (e *OpenSessionError) Error() string {
	return ErrOpenSessionExists.Error()
}

func (e *OpenSessionError) Is(target error) bool {
	return target == ErrOpenSessionExists
}

// Details is rendered as the response data of the conflict.
func (e *OpenSessionError) Details() map[string]any {
	return map[string]any{
		"record_id":       e.RecordID,
		"check_in_time":   e.CheckInTime,
		"attendance_date": e.AttendanceDate,
		"hours_open":      e.HoursOpen,
		"action":          "call POST /api/v1/attendance/check-out to complete the previous session",
	}
}
