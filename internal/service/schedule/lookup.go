package schedule

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

type lookupImpl struct {
	scheduleRepo  schedule.ScheduleRepository
	workCycleRepo schedule.WorkCycleRepository
	employeeRepo  employee.EmployeeRepository
}

func NewLookup(
	scheduleRepo schedule.ScheduleRepository,
	workCycleRepo schedule.WorkCycleRepository,
	employeeRepo employee.EmployeeRepository,
) schedule.Lookup {
	return &lookupImpl{
		scheduleRepo:  scheduleRepo,
		workCycleRepo: workCycleRepo,
		employeeRepo:  employeeRepo,
	}
}

// ScheduleForEmployee implements schedule.Lookup.
func (l *lookupImpl) ScheduleForEmployee(ctx context.Context, employeeID string) (*schedule.Schedule, error) {
	emp, err := l.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.WorkCycleID == nil {
		return nil, nil
	}

	cycle, err := l.workCycleRepo.GetByID(ctx, *emp.WorkCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get work cycle of employee %s: %w", employeeID, err)
	}

	sched, err := l.scheduleRepo.GetByID(ctx, cycle.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule of work cycle %s: %w", cycle.ID, err)
	}
	return &sched, nil
}
