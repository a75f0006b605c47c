package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type ValidationServiceImpl struct {
	tx         database.Transactor
	entryRepo  attendance.TimeEntryRepository
	reportRepo validation.ReportRepository
	schedules  schedule.Lookup
	authorizer authz.Authorizer
	engine     *validation.Engine
	now        func() time.Time
}

func NewValidationService(
	tx database.Transactor,
	entryRepo attendance.TimeEntryRepository,
	reportRepo validation.ReportRepository,
	schedules schedule.Lookup,
	authorizer authz.Authorizer,
	engine *validation.Engine,
) *ValidationServiceImpl {
	return &ValidationServiceImpl{
		tx:         tx,
		entryRepo:  entryRepo,
		reportRepo: reportRepo,
		schedules:  schedules,
		authorizer: authorizer,
		engine:     engine,
		now:        time.Now,
	}
}

// ValidateEntry implements validation.ValidationService.
func (s *ValidationServiceImpl) ValidateEntry(ctx context.Context, req validation.ValidateEntryRequest) (validation.ReportResponse, error) {
	subject, ok := authz.SubjectFromContext(ctx)
	if !ok {
		return validation.ReportResponse{}, authz.ErrMissingSubject
	}

	var report validation.Report
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.entryRepo.GetByID(ctx, req.EntryID)
		if err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, authz.CapabilityValidate, entry.EmployeeID); err != nil {
			return err
		}

		sched, err := s.schedules.ScheduleForEmployee(ctx, entry.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to resolve schedule: %w", err)
		}
		siblings, err := s.entryRepo.FindByEmployeeAndDateRange(ctx, entry.EmployeeID, entry.Date, entry.Date)
		if err != nil {
			return fmt.Errorf("failed to load same-day entries: %w", err)
		}

		report, err = s.validateOne(ctx, entry, siblings, sched, req.AutoCorrect, subject.ActorID())
		return err
	})
	if err != nil {
		return validation.ReportResponse{}, err
	}
	return validation.NewReportResponse(report), nil
}

// ValidatePeriod implements validation.ValidationService.
func (s *ValidationServiceImpl) ValidatePeriod(ctx context.Context, req validation.ValidatePeriodRequest) (validation.PeriodReportResponse, error) {
	if err := req.Validate(); err != nil {
		return validation.PeriodReportResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityValidate, req.EmployeeID); err != nil {
		return validation.PeriodReportResponse{}, err
	}
	subject, _ := authz.SubjectFromContext(ctx)
	start, end, _ := validator.IsValidDateRange(req.StartDate, req.EndDate)

	var reports []validation.Report
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sched, err := s.schedules.ScheduleForEmployee(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to resolve schedule: %w", err)
		}
		entries, err := s.entryRepo.FindByEmployeeAndDateRange(ctx, req.EmployeeID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		byDay := make(map[time.Time][]attendance.TimeEntry)
		for _, e := range entries {
			byDay[e.Date] = append(byDay[e.Date], e)
		}

		for _, entry := range entries {
			report, err := s.validateOne(ctx, entry, byDay[entry.Date], sched, req.AutoCorrect, subject.ActorID())
			if err != nil {
				return fmt.Errorf("failed to validate entry %s: %w", entry.ID, err)
			}
			reports = append(reports, report)

			// Later entries of the day see the corrected times.
			if len(report.CorrectionsApplied) > 0 {
				corrected, err := s.entryRepo.GetByID(ctx, entry.ID)
				if err != nil {
					return err
				}
				day := byDay[entry.Date]
				for i := range day {
					if day[i].ID == entry.ID {
						day[i] = corrected
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return validation.PeriodReportResponse{}, err
	}

	responses := make([]validation.ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, validation.NewReportResponse(r))
	}
	stats := validation.Summarize(reports)

	slog.Info("Period validated", "employee_id", req.EmployeeID, "entries", stats.Total, "invalid", stats.Invalid, "corrected", stats.Corrected)
	return validation.PeriodReportResponse{
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reports:    responses,
		Statistics: stats,
	}, nil
}

// validateOne returns the stored report of an already validated entry untouched.
// Otherwise it runs the engine and persists the entry and its report.
func (s *ValidationServiceImpl) validateOne(
	ctx context.Context,
	entry attendance.TimeEntry,
	sameDay []attendance.TimeEntry,
	sched *schedule.Schedule,
	autoCorrect bool,
	actor string,
) (validation.Report, error) {
	if entry.IsValidated {
		last, err := s.reportRepo.GetLatest(ctx, entry.ID)
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, validation.ErrReportNotFound) {
			return validation.Report{}, err
		}
	}

	others := make([]attendance.TimeEntry, 0, len(sameDay))
	for _, e := range sameDay {
		if e.ID != entry.ID {
			others = append(others, e)
		}
	}

	now := s.now()
	if entry.IsValidated {
		// Validated before reports were kept; report without writing.
		report, _ := s.engine.Run(validation.Input{Entry: entry, SameDay: others, Schedule: sched}, false, actor, now)
		report.Validated = true
		return report, nil
	}

	report, updated := s.engine.Run(validation.Input{Entry: entry, SameDay: others, Schedule: sched}, autoCorrect, actor, now)
	report.ID = uuid.Must(uuid.NewV7()).String()

	if len(report.CorrectionsApplied) > 0 || report.Validated {
		updated.UpdatedAt = now.UTC()
		if err := s.entryRepo.Update(ctx, updated); err != nil {
			return validation.Report{}, fmt.Errorf("failed to update entry: %w", err)
		}
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return validation.Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

var _ validation.ValidationService = (*ValidationServiceImpl)(nil)
