package absence

import "errors"

var (
	ErrAbsenceNotFound  = errors.New("absence not found")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)
