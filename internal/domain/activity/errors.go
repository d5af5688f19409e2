package activity

import "errors"

var (
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")
)
