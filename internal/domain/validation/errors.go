package validation

import "errors"

var (
	ErrReportNotFound = errors.New("validation report not found")
)
