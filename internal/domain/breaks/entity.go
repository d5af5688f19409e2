package breaks

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
)

type BreakType string

const (
	Smoke    BreakType = "Smoke"
	Dinner   BreakType = "Dinner"
	Washroom BreakType = "Washroom"
	Prayer   BreakType = "Prayer"
	Other    BreakType = "Other"
)

// Types lists every break type in display order.
var Types = []BreakType{Smoke, Dinner, Washroom, Prayer, Other}

// ParseBreakType accepts a type name in any letter case.
func ParseBreakType(s string) (BreakType, error) {
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBreakType, s)
}

// CategoryColumns names the session columns a break type accumulates into.
type CategoryColumns struct {
	Count       string
	Duration    string
	HasCategory bool
}

// Columns maps a break type to its per-category session columns. Other has
// none and only moves the session totals.
func (t BreakType) Columns() CategoryColumns {
	switch t {
	case Smoke:
		return CategoryColumns{Count: "smoke_break_count", Duration: "smoke_break_duration_minutes", HasCategory: true}
	case Dinner:
		return CategoryColumns{Count: "dinner_break_count", Duration: "dinner_break_duration_minutes", HasCategory: true}
	case Washroom:
		return CategoryColumns{Count: "washroom_break_count", Duration: "washroom_break_duration_minutes", HasCategory: true}
	case Prayer:
		return CategoryColumns{Count: "prayer_break_count", Duration: "prayer_break_duration_minutes", HasCategory: true}
	default:
		return CategoryColumns{}
	}
}

const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Record is one break taken during an attendance session.
type Record struct {
	ID              string
	AttendanceID    string
	EmployeeID      string
	BreakType       BreakType
	StartTime       shift.TimeOfDay
	EndTime         *shift.TimeOfDay
	DurationMinutes int
	Reason          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined
	EmployeeName   *string
	AttendanceDate *string
}

func (r Record) IsOngoing() bool {
	return r.EndTime == nil
}

func (r Record) Status() string {
	if r.IsOngoing() {
		return StatusOngoing
	}
	return StatusCompleted
}

// StartedAt rebuilds the instant the break began. Starts before 06:00 belong
// to the calendar day after the attendance date.
func StartedAt(attendanceDate time.Time, start shift.TimeOfDay) time.Time {
	at := start.On(attendanceDate)
	if shift.IsEarlyMorning(start) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// ElapsedMinutes is the whole minutes from start to end, wrapping past
// midnight when end is numerically earlier.
func ElapsedMinutes(start, end shift.TimeOfDay) int {
	d := end.Minutes() - start.Minutes()
	if d < 0 {
		d += shift.MinutesPerDay
	}
	return d
}

// MaxBreakMinutes bounds a single break. An end clock time further than this
// past the start is read as lying before it.
const MaxBreakMinutes = 12 * 60

// EndsAfter reports whether end can close a break that began at start.
func EndsAfter(start, end shift.TimeOfDay) bool {
	return ElapsedMinutes(start, end) <= MaxBreakMinutes
}

// ReconcileDuration picks the displayed length of an ongoing break. A stored
// value more than ten minutes off the live one is discarded; otherwise the
// larger wins so the display never goes backwards.
func ReconcileDuration(stored, live int) int {
	diff := stored - live
	if diff < 0 {
		diff = -diff
	}
	if diff > 10 {
		return live
	}
	return max(stored, live)
}
