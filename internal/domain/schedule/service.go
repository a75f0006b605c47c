package schedule

import "context"

type ScheduleService interface {
	// Schedule
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ListSchedules(ctx context.Context) ([]ScheduleResponse, error)

	// ResolveRate returns the period, time range and multiplier in effect at an instant
	ResolveRate(ctx context.Context, req ResolveRateRequest) (RateResolutionResponse, error)

	// Work Cycle
	CreateWorkCycle(ctx context.Context, req CreateWorkCycleRequest) (WorkCycleResponse, error)
	GetWorkCycle(ctx context.Context, id string) (WorkCycleResponse, error)
	ListWorkCycles(ctx context.Context) ([]WorkCycleResponse, error)
	AssignWorkCycle(ctx context.Context, req AssignWorkCycleRequest) error
}

// Lookup resolves the schedule an employee works under through their work cycle.
type Lookup interface {
	// ScheduleForEmployee returns nil, nil when the employee has no work cycle
	ScheduleForEmployee(ctx context.Context, employeeID string) (*Schedule, error)
}
