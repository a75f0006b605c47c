package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	employeeRepo  employee.EmployeeRepository
	schedules     schedule.Lookup
	grace         time.Duration
	location      *time.Location
	now           func() time.Time
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	schedules schedule.Lookup,
	grace time.Duration,
	location *time.Location,
) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		employeeRepo:  employeeRepo,
		schedules:     schedules,
		grace:         grace,
		location:      location,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("close_stale_time_entries", interval, j.CloseStaleEntries)
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// CloseStaleEntries moves PENDING entries older than the grace window to INCOMPLETE.
func (j *AttendanceJobs) CloseStaleEntries(ctx context.Context) error {
	ctx = authz.WithSubject(ctx, authz.SystemSubject())

	res, err := j.attendanceSvc.CloseStaleEntries(ctx, j.now().UTC(), j.grace)
	if err != nil {
		return fmt.Errorf("failed to close stale entries: %w", err)
	}
	if res.Closed > 0 {
		slog.Info("Cron: Closed stale time entries", "count", res.Closed)
	}
	return nil
}

// MarkAbsentEmployees records an ABSENT entry for yesterday, on the local calendar, for
// every active, scheduled employee who has no entry that day. Weekends are skipped.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	ctx = authz.WithSubject(ctx, authz.SystemSubject())

	yesterday := j.now().In(j.location).AddDate(0, 0, -1)
	if wd := yesterday.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil
	}
	day := yesterday.Format("2006-01-02")

	employees, err := j.employeeRepo.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		sched, err := j.schedules.ScheduleForEmployee(ctx, emp.ID)
		if err != nil {
			slog.Error("Cron: Failed to resolve schedule", "employee_id", emp.ID, "error", err)
			continue
		}
		if sched == nil {
			continue
		}

		_, err = j.attendanceSvc.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: day})
		if errors.Is(err, attendance.ErrDuplicateEntry) {
			continue
		}
		if err != nil {
			slog.Error("Cron: Failed to mark employee absent", "employee_id", emp.ID, "date", day, "error", err)
			continue
		}
		marked++
	}

	slog.Info("Cron: Marked absent employees", "date", day, "count", marked)
	return nil
}
