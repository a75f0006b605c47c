package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrWorkCycleNotFound  = errors.New("work cycle not found")
	ErrNoApplicablePeriod = errors.New("no period of the schedule covers this time")

	// Configuration Errors
	ErrScheduleConfiguration = errors.New("invalid schedule configuration")
	ErrInvalidTimeOfDay      = errors.New("invalid time of day, use HH:MM")
)

// ConfigurationError locates a malformed Schedule, Period, TimeRange or WorkCycle definition.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid schedule configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrScheduleConfiguration
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
