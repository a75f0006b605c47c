package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type timeEntryRepository struct{ s *Store }

func NewTimeEntryRepository(s *Store) attendance.TimeEntryRepository {
	return &timeEntryRepository{s: s}
}

// Create mirrors the partial unique index on (employee_id, date) for PENDING entries.
func (r *timeEntryRepository) Create(ctx context.Context, entry attendance.TimeEntry) (attendance.TimeEntry, error) {
	defer r.s.lock(ctx)()

	if entry.Status == attendance.StatusPending {
		for _, e := range r.s.t.entries {
			if e.EmployeeID == entry.EmployeeID && e.Date.Equal(entry.Date) && e.Status == attendance.StatusPending {
				return attendance.TimeEntry{}, attendance.ErrDuplicateEntry
			}
		}
	}
	r.s.t.entries[entry.ID] = entry
	return entry, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry attendance.TimeEntry) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.entries[entry.ID]; !ok {
		return attendance.ErrTimeEntryNotFound
	}
	r.s.t.entries[entry.ID] = entry
	return nil
}

func (r *timeEntryRepository) ClosePending(ctx context.Context, entry attendance.TimeEntry) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.t.entries[entry.ID]
	if !ok || stored.Status != attendance.StatusPending {
		return attendance.ErrNoOpenEntry
	}
	r.s.t.entries[entry.ID] = entry
	return nil
}

func (r *timeEntryRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.entries[id]; !ok {
		return attendance.ErrTimeEntryNotFound
	}
	delete(r.s.t.entries, id)
	delete(r.s.t.reports, id)
	return nil
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (attendance.TimeEntry, error) {
	defer r.s.rlock(ctx)()
	e, ok := r.s.t.entries[id]
	if !ok {
		return attendance.TimeEntry{}, attendance.ErrTimeEntryNotFound
	}
	return e, nil
}

func (r *timeEntryRepository) GetOpenEntry(ctx context.Context, employeeID string) (attendance.TimeEntry, error) {
	defer r.s.rlock(ctx)()

	var (
		latest attendance.TimeEntry
		found  bool
	)
	for _, e := range r.s.t.entries {
		if e.EmployeeID != employeeID || e.Status != attendance.StatusPending || e.ClockIn == nil {
			continue
		}
		if !found || e.ClockIn.After(*latest.ClockIn) {
			latest, found = e, true
		}
	}
	if !found {
		return attendance.TimeEntry{}, attendance.ErrNoOpenEntry
	}
	return latest, nil
}

func (r *timeEntryRepository) FindByEmployeeAndDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.TimeEntry, error) {
	return r.find(ctx, func(e attendance.TimeEntry) bool {
		return e.EmployeeID == employeeID && inRange(e.Date, start, end)
	}, false), nil
}

func (r *timeEntryRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]attendance.TimeEntry, error) {
	return r.find(ctx, func(e attendance.TimeEntry) bool {
		return inRange(e.Date, start, end)
	}, false), nil
}

func (r *timeEntryRepository) FindStalePending(ctx context.Context, clockInBefore time.Time) ([]attendance.TimeEntry, error) {
	return r.find(ctx, func(e attendance.TimeEntry) bool {
		return e.Status == attendance.StatusPending && e.ClockIn != nil && e.ClockIn.Before(clockInBefore)
	}, false), nil
}

func (r *timeEntryRepository) List(ctx context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntry, int64, error) {
	var start, end *time.Time
	if filter.StartDate != nil {
		if t, ok := validator.IsValidDate(*filter.StartDate); ok {
			start = &t
		}
	}
	if filter.EndDate != nil {
		if t, ok := validator.IsValidDate(*filter.EndDate); ok {
			end = &t
		}
	}

	matched := r.find(ctx, func(e attendance.TimeEntry) bool {
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			return false
		}
		if start != nil && e.Date.Before(*start) {
			return false
		}
		if end != nil && e.Date.After(*end) {
			return false
		}
		return true
	}, filter.SortOrder != "asc")

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *timeEntryRepository) find(ctx context.Context, match func(attendance.TimeEntry) bool, desc bool) []attendance.TimeEntry {
	defer r.s.rlock(ctx)()

	out := []attendance.TimeEntry{}
	for _, e := range r.s.t.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date) != desc
		}
		return (a.ID < b.ID) != desc
	})
	return out
}
