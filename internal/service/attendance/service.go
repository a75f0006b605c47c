package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx           database.Transactor
	entryRepo    attendance.TimeEntryRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
	location     *time.Location
	now          func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	entryRepo attendance.TimeEntryRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
	location *time.Location,
) *AttendanceServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:           tx,
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
		location:     location,
		now:          time.Now,
	}
}

// clockTime is the event instant in the configured zone, so the entry's date is the
// local calendar date.
func (a *AttendanceServiceImpl) clockTime(timestamp *string, now time.Time) time.Time {
	return attendance.ParseTimestamp(timestamp, now).In(a.location)
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) error {
	emp, err := a.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.Active {
		return employee.ErrEmployeeInactive
	}
	return nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityRecord, req.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.activeEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	now := a.now().UTC()
	entry := attendance.NewPending(req.EmployeeID, a.clockTime(req.Timestamp, now))
	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.Notes = req.Notes
	entry.CreatedAt = now
	entry.UpdatedAt = now

	created, err := a.entryRepo.Create(ctx, entry)
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	slog.Info("Clock-in recorded", "entry_id", created.ID, "employee_id", created.EmployeeID, "date", created.Date.Format(validator.DateLayout))
	return attendance.NewTimeEntryResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityRecord, req.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	now := a.now().UTC()
	var entry attendance.TimeEntry
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = a.entryRepo.GetOpenEntry(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if err := entry.Close(a.clockTime(req.Timestamp, now)); err != nil {
			return err
		}
		entry.UpdatedAt = now
		return a.entryRepo.ClosePending(ctx, entry)
	})
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	slog.Info("Clock-out recorded", "entry_id", entry.ID, "employee_id", entry.EmployeeID, "total_hours", entry.TotalHours, "status", entry.Status)
	return attendance.NewTimeEntryResponse(entry), nil
}

// CorrectEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CorrectEntry(ctx context.Context, req attendance.CorrectionRequest) (attendance.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	var corrected attendance.TimeEntry
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := a.entryRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := a.authorizer.Authorize(ctx, authz.CapabilityCorrect, entry.EmployeeID); err != nil {
			return err
		}
		if err := entry.ApplyCorrection(req.ToCorrection()); err != nil {
			return err
		}
		entry.UpdatedAt = a.now().UTC()
		if err := a.entryRepo.Update(ctx, entry); err != nil {
			return err
		}
		corrected = entry
		return nil
	})
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	slog.Info("Time entry corrected", "entry_id", corrected.ID, "hours_overridden", corrected.HoursOverridden)
	return attendance.NewTimeEntryResponse(corrected), nil
}

// DeleteEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	entry, err := a.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityCorrect, entry.EmployeeID); err != nil {
		return err
	}
	if err := a.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Time entry deleted", "entry_id", id, "employee_id", entry.EmployeeID)
	return nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest) (attendance.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityCorrect, req.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.activeEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	var created attendance.TimeEntry
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.entryRepo.FindByEmployeeAndDateRange(ctx, req.EmployeeID, date, date)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return attendance.ErrDuplicateEntry
		}

		now := a.now().UTC()
		entry := attendance.NewAbsent(req.EmployeeID, date)
		entry.ID = uuid.Must(uuid.NewV7()).String()
		entry.Notes = req.Notes
		entry.CreatedAt = now
		entry.UpdatedAt = now

		created, err = a.entryRepo.Create(ctx, entry)
		return err
	})
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	return attendance.NewTimeEntryResponse(created), nil
}

// GetEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEntry(ctx context.Context, id string) (attendance.TimeEntryResponse, error) {
	entry, err := a.entryRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityView, entry.EmployeeID); err != nil {
		return attendance.TimeEntryResponse{}, err
	}
	return attendance.NewTimeEntryResponse(entry), nil
}

// ListEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEntries(ctx context.Context, filter attendance.TimeEntryFilter) (attendance.ListTimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListTimeEntryResponse{}, err
	}

	owner := ""
	if filter.EmployeeID != nil {
		owner = *filter.EmployeeID
	}
	if err := a.authorizer.Authorize(ctx, authz.CapabilityView, owner); err != nil {
		return attendance.ListTimeEntryResponse{}, err
	}

	entries, total, err := a.entryRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListTimeEntryResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	responses := make([]attendance.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, attendance.NewTimeEntryResponse(e))
	}

	return attendance.ListTimeEntryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Entries:    responses,
	}, nil
}

// CloseStaleEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CloseStaleEntries(ctx context.Context, now time.Time, grace time.Duration) (attendance.CloseStaleResponse, error) {
	if err := a.authorizer.Authorize(ctx, authz.CapabilityCorrect, ""); err != nil {
		return attendance.CloseStaleResponse{}, err
	}

	closed := 0
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		stale, err := a.entryRepo.FindStalePending(ctx, now.Add(-grace))
		if err != nil {
			return err
		}
		for _, entry := range stale {
			if err := entry.Abandon(); err != nil {
				return err
			}
			entry.UpdatedAt = now.UTC()
			if err := a.entryRepo.Update(ctx, entry); err != nil {
				return fmt.Errorf("failed to close entry %s: %w", entry.ID, err)
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return attendance.CloseStaleResponse{}, err
	}
	return attendance.CloseStaleResponse{Closed: closed}, nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
