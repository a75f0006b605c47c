package schedule

import "context"

type ScheduleRepository interface {
	// Create persists a built schedule with its owned periods and ranges
	Create(ctx context.Context, s Schedule) (Schedule, error)
	// Update replaces the schedule definition, periods and ranges included
	Update(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	List(ctx context.Context) ([]Schedule, error)
}

type WorkCycleRepository interface {
	Create(ctx context.Context, w WorkCycle) (WorkCycle, error)
	GetByID(ctx context.Context, id string) (WorkCycle, error)
	List(ctx context.Context) ([]WorkCycle, error)
}
