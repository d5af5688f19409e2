package rule

import "errors"

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrRuleNameExists   = errors.New("rule with this name already exists")
	ErrInvalidRuleType  = errors.New("invalid rule type, must be one of: WORKING_HOURS, BREAK_TIME, OVERTIME, LEAVE")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
