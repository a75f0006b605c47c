package memory

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
)

type reportRepository struct{ s *Store }

func NewValidationReportRepository(s *Store) validation.ReportRepository {
	return &reportRepository{s: s}
}

func (r *reportRepository) Save(ctx context.Context, rep validation.Report) error {
	defer r.s.lock(ctx)()
	r.s.t.reports[rep.EntryID] = rep
	return nil
}

func (r *reportRepository) GetLatest(ctx context.Context, entryID string) (validation.Report, error) {
	defer r.s.rlock(ctx)()
	rep, ok := r.s.t.reports[entryID]
	if !ok {
		return validation.Report{}, validation.ErrReportNotFound
	}
	return rep, nil
}
