package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrProgressNotFound   = errors.New("onboarding progress not found")
	ErrNoFieldsToUpdate   = errors.New("no valid fields to update")
	ErrAlreadyInactive    = errors.New("employee is already inactive")
)
