package clock

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
)

const DateLayout = "2006-01-02"

// PKT is the fixed UTC+5 zone all attendance dates and times are expressed in.
var PKT = time.FixedZone("PKT", 5*60*60)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns a Clock reading the wall clock in PKT.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().In(PKT)
}

// Fixed always returns the same instant, converted to PKT.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f).In(PKT)
}

// Moment is a single reading of the clock. Every date or time an operation
// needs is derived from one Moment so that all of them agree.
type Moment struct {
	Time time.Time
}

// Snapshot reads c once.
func Snapshot(c Clock) Moment {
	return Moment{Time: c.Now().In(PKT)}
}

// DateString returns the wall-clock calendar date, YYYY-MM-DD.
func (m Moment) DateString() string {
	return m.Time.Format(DateLayout)
}

// YesterdayString returns the calendar date before DateString.
func (m Moment) YesterdayString() string {
	return m.Time.AddDate(0, 0, -1).Format(DateLayout)
}

// AttendanceDate is the shift anchor date for this moment.
func (m Moment) AttendanceDate() string {
	return shift.AttendanceDate(m.Time).Format(DateLayout)
}

// TimeOfDay returns the wall-clock time of day.
func (m Moment) TimeOfDay() shift.TimeOfDay {
	return shift.FromTime(m.Time)
}

// Midnight returns 00:00 of the wall-clock date in PKT.
func (m Moment) Midnight() time.Time {
	y, mo, d := m.Time.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, PKT)
}

// ParseDate parses YYYY-MM-DD as midnight PKT.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, PKT)
}
