// Package workdays enumerates the Monday to Friday dates absent records are
// generated for.
package workdays

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Recurrence is the working-week rule, in RFC 5545 form.
const Recurrence = "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR"

// Between returns every weekday from start to end inclusive, at midnight in
// start's location. An end before start yields nothing.
func Between(start, end time.Time) ([]time.Time, error) {
	loc := start.Location()
	from := midnight(start, loc)
	to := midnight(end.In(loc), loc)
	if to.Before(from) {
		return nil, nil
	}

	opt, err := rrule.StrToROption(Recurrence)
	if err != nil {
		return nil, fmt.Errorf("parse working-week rule: %w", err)
	}
	opt.Dtstart = from
	opt.Until = to

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build working-week rule: %w", err)
	}

	return rule.All(), nil
}

// IsWeekday reports whether t falls Monday to Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
