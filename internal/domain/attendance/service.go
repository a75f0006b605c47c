package attendance

import (
	"context"
	"time"
)

// AttendanceService drives the time entry lifecycle
type AttendanceService interface {
	// ClockIn opens a PENDING entry for the day
	ClockIn(ctx context.Context, req ClockInRequest) (TimeEntryResponse, error)

	// ClockOut closes the employee's open entry and derives total hours
	ClockOut(ctx context.Context, req ClockOutRequest) (TimeEntryResponse, error)

	// CorrectEntry applies a privileged manual correction
	CorrectEntry(ctx context.Context, req CorrectionRequest) (TimeEntryResponse, error)

	// DeleteEntry removes an entry as a privileged correction
	DeleteEntry(ctx context.Context, id string) error

	// MarkAbsent records an explicit absence marker for a day without clock events
	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (TimeEntryResponse, error)

	GetEntry(ctx context.Context, id string) (TimeEntryResponse, error)

	ListEntries(ctx context.Context, filter TimeEntryFilter) (ListTimeEntryResponse, error)

	// CloseStaleEntries moves open entries older than the grace window to INCOMPLETE
	CloseStaleEntries(ctx context.Context, now time.Time, grace time.Duration) (CloseStaleResponse, error)
}
