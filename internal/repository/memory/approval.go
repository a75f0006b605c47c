package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &t
}

type absenceRepository struct{ s *Store }

func NewAbsenceRepository(s *Store) absence.AbsenceRepository {
	return &absenceRepository{s: s}
}

func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	defer r.s.lock(ctx)()
	r.s.t.absences[a.ID] = a
	return a, nil
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	defer r.s.rlock(ctx)()
	a, ok := r.s.t.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (r *absenceRepository) UpdatePending(ctx context.Context, a absence.Absence) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.t.absences[a.ID]
	if !ok {
		return absence.ErrAbsenceNotFound
	}
	if err := approval.CheckEditable(stored.Status); err != nil {
		return err
	}
	a.Status = stored.Status
	r.s.t.absences[a.ID] = a
	return nil
}

func (r *absenceRepository) Decide(ctx context.Context, id string, d approval.Decision) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.t.absences[id]
	if !ok {
		return absence.ErrAbsenceNotFound
	}
	if err := stored.Apply(d); err != nil {
		return err
	}
	stored.UpdatedAt = d.DecidedAt
	r.s.t.absences[id] = stored
	return nil
}

func (r *absenceRepository) FindOverlapping(ctx context.Context, employeeID *string, start, end time.Time) ([]absence.Absence, error) {
	defer r.s.rlock(ctx)()

	out := []absence.Absence{}
	for _, a := range r.s.t.absences {
		if employeeID != nil && a.EmployeeID != *employeeID {
			continue
		}
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *absenceRepository) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, int64, error) {
	start, end := parseOptionalDate(filter.StartDate), parseOptionalDate(filter.EndDate)

	unlock := r.s.rlock(ctx)
	out := []absence.Absence{}
	for _, a := range r.s.t.absences {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		if start != nil && a.EndDate.Before(*start) {
			continue
		}
		if end != nil && a.StartDate.After(*end) {
			continue
		}
		out = append(out, a)
	}
	unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

type extraHoursRepository struct{ s *Store }

func NewExtraHoursRepository(s *Store) extrahours.RecordRepository {
	return &extraHoursRepository{s: s}
}

func (r *extraHoursRepository) Create(ctx context.Context, rec extrahours.Record) (extrahours.Record, error) {
	defer r.s.lock(ctx)()
	r.s.t.extraHours[rec.ID] = rec
	return rec, nil
}

func (r *extraHoursRepository) GetByID(ctx context.Context, id string) (extrahours.Record, error) {
	defer r.s.rlock(ctx)()
	rec, ok := r.s.t.extraHours[id]
	if !ok {
		return extrahours.Record{}, extrahours.ErrRecordNotFound
	}
	return rec, nil
}

func (r *extraHoursRepository) UpdatePending(ctx context.Context, rec extrahours.Record) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.t.extraHours[rec.ID]
	if !ok {
		return extrahours.ErrRecordNotFound
	}
	if err := approval.CheckEditable(stored.Status); err != nil {
		return err
	}
	rec.Status = stored.Status
	r.s.t.extraHours[rec.ID] = rec
	return nil
}

func (r *extraHoursRepository) Decide(ctx context.Context, id string, d approval.Decision) error {
	defer r.s.lock(ctx)()
	rec, ok := r.s.t.extraHours[id]
	if !ok {
		return extrahours.ErrRecordNotFound
	}
	if err := rec.Apply(d); err != nil {
		return err
	}
	rec.UpdatedAt = d.DecidedAt
	r.s.t.extraHours[id] = rec
	return nil
}

func (r *extraHoursRepository) FindByDateRange(ctx context.Context, employeeID *string, start, end time.Time) ([]extrahours.Record, error) {
	defer r.s.rlock(ctx)()

	out := []extrahours.Record{}
	for _, rec := range r.s.t.extraHours {
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if inRange(rec.Date, start, end) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *extraHoursRepository) List(ctx context.Context, filter extrahours.RecordFilter) ([]extrahours.Record, int64, error) {
	start, end := parseOptionalDate(filter.StartDate), parseOptionalDate(filter.EndDate)

	unlock := r.s.rlock(ctx)
	out := []extrahours.Record{}
	for _, rec := range r.s.t.extraHours {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Kind != nil && string(rec.Kind) != *filter.Kind {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		if start != nil && rec.Date.Before(*start) {
			continue
		}
		if end != nil && rec.Date.After(*end) {
			continue
		}
		out = append(out, rec)
	}
	unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}
