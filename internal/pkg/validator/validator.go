package validator

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidDate parses a calendar date in "YYYY-MM-DD" format as UTC midnight.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// IsValidDateRange parses both dates and checks that end is not before start.
func IsValidDateRange(start, end string) (time.Time, time.Time, bool) {
	s, ok := IsValidDate(start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	e, ok := IsValidDate(end)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return s, e, !e.Before(s)
}
