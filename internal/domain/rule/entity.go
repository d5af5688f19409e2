package rule

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeWorkingHours Type = "WORKING_HOURS"
	TypeBreakTime    Type = "BREAK_TIME"
	TypeOvertime     Type = "OVERTIME"
	TypeLeave        Type = "LEAVE"
)

var Types = []Type{TypeWorkingHours, TypeBreakTime, TypeOvertime, TypeLeave}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

type Rule struct {
	ID                         string
	Name                       string
	Type                       Type
	Description                *string
	StartTime                  *string
	EndTime                    *string
	TotalHours                 *decimal.Decimal
	BreakDurationMinutes       *int
	BreakType                  *string
	OvertimeStartsAfterMinutes *int
	OvertimeMultiplier         *decimal.Decimal
	IsActive                   bool
	Priority                   int
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
