package breaks

import "errors"

var (
	ErrInvalidBreakType    = errors.New("break_type must be one of Smoke, Dinner, Washroom, Prayer, Other")
	ErrSessionClosed       = errors.New("cannot take a break after checking out")
	ErrNoOpenSession       = errors.New("no open attendance session found")
	ErrNoOngoingBreak      = errors.New("no ongoing break of this type found")
	ErrBreakAlreadyOngoing = errors.New("a break of this type is already ongoing")
	ErrBreakNotFound       = errors.New("break not found")
	ErrEndBeforeStart      = errors.New("break_end_time must not be before break_start_time")
)
