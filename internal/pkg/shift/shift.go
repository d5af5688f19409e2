// Package shift classifies instants against the night shift that runs from
// 21:00 to 05:59 the next morning.
package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	// ShiftStartMinutes is 21:00.
	ShiftStartMinutes = 21 * 60
	// GraceEndMinutes is 21:15, the last on-time check-in minute.
	GraceEndMinutes = 21*60 + 15
	// MorningEndMinutes is 06:00. Check-ins up to and including it count as
	// late arrivals for the previous evening's shift.
	MorningEndMinutes = 6 * 60
	// morningRolloverHour is the first hour that belongs to the current date.
	morningRolloverHour = 6
)

// Status values stored on attendance sessions.
const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
)

// TimeOfDay is a local wall-clock time with second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS. Fractional seconds, as Postgres
// may render them, are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) == 0 || len(p) > 2 {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
		}
		vals[i] = n
	}

	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range %q", s)
	}
	return t, nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTime takes the wall-clock time of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Minutes returns minutes since midnight. Seconds are truncated.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, date.Location())
}

// AttendanceDate returns the calendar date a shift event at t is filed
// under. Events before 06:00 belong to the previous evening's shift.
func AttendanceDate(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if t.Hour() < morningRolloverHour {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// IsEarlyMorning reports whether t falls in the post-midnight part of the
// shift, where the event's real calendar day is attendance date + 1.
func IsEarlyMorning(t TimeOfDay) bool {
	return t.Hour < morningRolloverHour
}

// IsShiftTime reports whether t is inside [21:00, 24:00) or [00:00, 06:00).
func IsShiftTime(t TimeOfDay) bool {
	m := t.Minutes()
	return m >= ShiftStartMinutes || m < MorningEndMinutes
}

// Lateness is the outcome of classifying a check-in.
type Lateness struct {
	Status        string
	OnTime        bool
	IsLate        bool
	LateByMinutes int
	InShift       bool
}

// ClassifyCheckIn applies the 21:00 shift start with a 15 minute grace window.
// 06:00 itself is still scored as late but lies outside the shift.
func ClassifyCheckIn(t TimeOfDay) Lateness {
	m := t.Minutes()
	inShift := IsShiftTime(t)

	switch {
	case m >= ShiftStartMinutes && m <= GraceEndMinutes:
		return Lateness{Status: StatusPresent, OnTime: true, InShift: inShift}
	case m > GraceEndMinutes && m < MinutesPerDay:
		return Lateness{Status: StatusLate, IsLate: true, LateByMinutes: m - GraceEndMinutes, InShift: inShift}
	case m >= 0 && m <= MorningEndMinutes:
		return Lateness{Status: StatusLate, IsLate: true, LateByMinutes: (MinutesPerDay - GraceEndMinutes) + m, InShift: inShift}
	default:
		return Lateness{Status: StatusPresent, OnTime: true, InShift: inShift}
	}
}
