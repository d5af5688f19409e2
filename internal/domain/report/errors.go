package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")
	ErrExportTooLarge   = errors.New("export range is too large, narrow the date filter")
)
