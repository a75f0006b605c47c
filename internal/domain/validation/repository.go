package validation

import "context"

// ReportRepository keeps the last report per time entry.
type ReportRepository interface {
	// Save replaces the stored report of the entry
	Save(ctx context.Context, r Report) error

	// GetLatest returns ErrReportNotFound when the entry was never validated
	GetLatest(ctx context.Context, entryID string) (Report, error)
}
