package attendance

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access for time entries.
// Date bounds are inclusive calendar dates at UTC midnight.
type TimeEntryRepository interface {
	// Create inserts a new entry. A second PENDING entry for the same employee and date
	// fails with ErrDuplicateEntry.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	Update(ctx context.Context, entry TimeEntry) error

	// ClosePending writes entry only while the stored row is still PENDING and fails
	// with ErrNoOpenEntry otherwise.
	ClosePending(ctx context.Context, entry TimeEntry) error

	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (TimeEntry, error)

	// GetOpenEntry returns the latest PENDING entry of the employee or ErrNoOpenEntry
	GetOpenEntry(ctx context.Context, employeeID string) (TimeEntry, error)

	FindByEmployeeAndDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]TimeEntry, error)

	// FindByDateRange returns the entries of all employees in the range
	FindByDateRange(ctx context.Context, start, end time.Time) ([]TimeEntry, error)

	// FindStalePending returns PENDING entries clocked in before the cutoff
	FindStalePending(ctx context.Context, clockInBefore time.Time) ([]TimeEntry, error)

	List(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, int64, error)
}
