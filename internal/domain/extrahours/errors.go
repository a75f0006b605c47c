package extrahours

import "errors"

var (
	ErrRecordNotFound        = errors.New("extra-hours record not found")
	ErrNonPositiveHours      = errors.New("hours must be greater than zero")
	ErrNonPositiveMultiplier = errors.New("multiplier must be greater than zero")
	ErrFieldNotApplicable    = errors.New("field does not apply to this record kind")
)
