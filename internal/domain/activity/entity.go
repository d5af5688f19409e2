package activity

import "time"

// Activity is one entry of an employee's activity log. ActivityDate is the
// PKT calendar day of OccurredAt.
type Activity struct {
	ID              string
	EmployeeID      string
	EmployeeName    *string
	Department      *string
	ActivityType    string
	Action          string
	Description     *string
	OccurredAt      time.Time
	ActivityDate    string
	Location        *string
	Device          *string
	DurationMinutes *int
	CreatedAt       time.Time
}

type TypeStat struct {
	ActivityType    string
	Count           int64
	UniqueEmployees int64
}
