// Package worktime computes gross, net and overtime minutes for a shift.
package worktime

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/shopspring/decimal"
)

// ExpectedShiftMinutes is the nine hour shift length overtime is measured against.
const ExpectedShiftMinutes = 540

var sixty = decimal.NewFromInt(60)

type Result struct {
	Gross         int
	Net           int
	Overtime      int
	OvertimeHours decimal.Decimal
}

// Compute derives working time from check-in and check-out at minute
// granularity. A missing time yields a zero result.
func Compute(checkIn, checkOut *shift.TimeOfDay, breakMinutes int) Result {
	if checkIn == nil || checkOut == nil {
		return Result{OvertimeHours: decimal.Zero}
	}

	a := checkIn.Minutes()
	b := checkOut.Minutes()

	gross := GrossMinutes(a, b)
	net := max(0, gross-max(0, breakMinutes))
	overtime := max(0, net-ExpectedShiftMinutes)

	return Result{
		Gross:         gross,
		Net:           net,
		Overtime:      overtime,
		OvertimeHours: OvertimeHours(overtime),
	}
}

// GrossMinutes returns elapsed minutes from a to b, both minutes since
// midnight. A night-shift check-in (21:00 or later) followed by a
// numerically earlier check-out is taken to have crossed midnight.
func GrossMinutes(a, b int) int {
	var gross int
	if a >= shift.ShiftStartMinutes {
		diff := b - a
		if diff >= 0 {
			gross = diff
		} else {
			gross = (shift.MinutesPerDay - a) + b
		}
	} else {
		gross = b - a
	}
	return max(0, gross)
}

// OvertimeHours converts minutes to hours rounded to two places.
func OvertimeHours(minutes int) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}
