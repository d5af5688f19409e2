package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/shopspring/decimal"
)

// Session is one employee's attendance for one shift (attendance date).
type Session struct {
	ID             string
	EmployeeID     string
	AttendanceDate string // YYYY-MM-DD
	CheckInTime    *shift.TimeOfDay
	CheckOutTime   *shift.TimeOfDay
	Status         string
	OnTime         bool
	LateByMinutes  int

	GrossWorkingMinutes    *int
	NetWorkingMinutes      *int
	ExpectedWorkingMinutes int
	OvertimeMinutes        int
	OvertimeHours          decimal.Decimal

	Breaks                    BreakTotals
	TotalBreaksTaken          int
	TotalBreakDurationMinutes int

	Remarks      *string
	DeviceInfo   *string
	IPAddress    *string
	CheckedInAt  *time.Time
	SupersededAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// WorkingTimeCheckedAt is set whenever gross, net and overtime are written.
	WorkingTimeCheckedAt *time.Time

	// Joined
	EmployeeName  *string
	EmployeeEmail *string
}

// BreakTotals are the per-category counters kept on the session row.
type BreakTotals struct {
	SmokeCount      int
	DinnerCount     int
	WashroomCount   int
	PrayerCount     int
	SmokeMinutes    int
	DinnerMinutes   int
	WashroomMinutes int
	PrayerMinutes   int
}

func (s Session) IsClosed() bool {
	return s.CheckOutTime != nil
}

// IsOpen means checked in and not yet checked out.
func (s Session) IsOpen() bool {
	return s.CheckInTime != nil && s.CheckOutTime == nil
}

// IsPlaceholder reports a generated Absent row nobody has checked in to.
func (s Session) IsPlaceholder() bool {
	return s.CheckInTime == nil && s.CheckOutTime == nil
}

// NeedsRepair is a closed Present/Late row whose working time was never stored.
func (s Session) NeedsRepair() bool {
	if s.Status == shift.StatusAbsent || s.CheckInTime == nil || s.CheckOutTime == nil {
		return false
	}
	if s.WorkingTimeCheckedAt != nil {
		return false
	}
	return s.GrossWorkingMinutes == nil || *s.GrossWorkingMinutes == 0
}

// OpenFor returns how long the session has been checked in at now.
func (s Session) OpenFor(now time.Time) time.Duration {
	if s.CheckedInAt != nil {
		return now.Sub(*s.CheckedInAt)
	}
	return now.Sub(s.CreatedAt)
}

// ActiveEmployee is the slice of an employee the attendance engine needs.
type ActiveEmployee struct {
	ID       string
	Code     string
	Name     string
	Email    string
	JoinDate time.Time
}
