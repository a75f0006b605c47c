package attendance

import "errors"

// Time entry lifecycle errors
var (
	ErrDuplicateEntry = errors.New("a conflicting time entry already exists for this employee and date")
	ErrNoOpenEntry    = errors.New("no open time entry to clock out")
	ErrInvalidRange   = errors.New("clock-out must be after clock-in")
	ErrNegativeHours  = errors.New("total hours must not be negative")

	// General errors
	ErrTimeEntryNotFound = errors.New("time entry not found")
)
