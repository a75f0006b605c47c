package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/google/uuid"
)

type scheduleServiceImpl struct {
	scheduleRepo  schedule.ScheduleRepository
	workCycleRepo schedule.WorkCycleRepository
	employeeRepo  employee.EmployeeRepository
	authorizer    authz.Authorizer
	location      *time.Location
	now           func() time.Time
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	workCycleRepo schedule.WorkCycleRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
	location *time.Location,
) schedule.ScheduleService {
	if location == nil {
		location = time.UTC
	}
	return &scheduleServiceImpl{
		scheduleRepo:  scheduleRepo,
		workCycleRepo: workCycleRepo,
		employeeRepo:  employeeRepo,
		authorizer:    authorizer,
		location:      location,
		now:           time.Now,
	}
}

// CreateSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityConfigure, ""); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	sched := req.ToSchedule()
	if err := sched.Build(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	now := s.now().UTC()
	sched.ID = uuid.Must(uuid.NewV7()).String()
	sched.CreatedAt = now
	sched.UpdatedAt = now

	created, err := s.scheduleRepo.Create(ctx, sched)
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	slog.Info("schedule created", "schedule_id", created.ID, "theoretical_day_hours", created.TheoreticalDayHours)
	return created.ToResponse(), nil
}

// UpdateSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) UpdateSchedule(ctx context.Context, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityConfigure, ""); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	existing, err := s.scheduleRepo.GetByID(ctx, req.ID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	sched := req.ToSchedule()
	if err := sched.Build(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	sched.ID = existing.ID
	sched.CreatedAt = existing.CreatedAt
	sched.UpdatedAt = s.now().UTC()

	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to update schedule: %w", err)
	}
	return sched.ToResponse(), nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	sched, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return sched.ToResponse(), nil
}

// ListSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListSchedules(ctx context.Context) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sched := range schedules {
		responses = append(responses, sched.ToResponse())
	}
	return responses, nil
}

// ResolveRate implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ResolveRate(ctx context.Context, req schedule.ResolveRateRequest) (schedule.RateResolutionResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.RateResolutionResponse{}, err
	}
	at, _ := time.Parse(time.RFC3339, req.At)

	sched, err := s.scheduleRepo.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return schedule.RateResolutionResponse{}, err
	}

	// Schedule times are wall-clock times in the configured zone.
	res, err := sched.Resolve(at.In(s.location))
	if err != nil {
		return schedule.RateResolutionResponse{}, err
	}
	return schedule.NewRateResolutionResponse(sched.ID, at, res), nil
}

// CreateWorkCycle implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateWorkCycle(ctx context.Context, req schedule.CreateWorkCycleRequest) (schedule.WorkCycleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkCycleResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityConfigure, ""); err != nil {
		return schedule.WorkCycleResponse{}, err
	}

	cycle := req.ToWorkCycle()
	if err := cycle.Build(); err != nil {
		return schedule.WorkCycleResponse{}, err
	}
	if _, err := s.scheduleRepo.GetByID(ctx, cycle.ScheduleID); err != nil {
		return schedule.WorkCycleResponse{}, err
	}

	now := s.now().UTC()
	cycle.ID = uuid.Must(uuid.NewV7()).String()
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	created, err := s.workCycleRepo.Create(ctx, cycle)
	if err != nil {
		return schedule.WorkCycleResponse{}, fmt.Errorf("failed to create work cycle: %w", err)
	}
	return created.ToResponse(), nil
}

// GetWorkCycle implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetWorkCycle(ctx context.Context, id string) (schedule.WorkCycleResponse, error) {
	cycle, err := s.workCycleRepo.GetByID(ctx, id)
	if err != nil {
		return schedule.WorkCycleResponse{}, err
	}
	return cycle.ToResponse(), nil
}

// ListWorkCycles implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListWorkCycles(ctx context.Context) ([]schedule.WorkCycleResponse, error) {
	cycles, err := s.workCycleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list work cycles: %w", err)
	}

	responses := make([]schedule.WorkCycleResponse, 0, len(cycles))
	for _, c := range cycles {
		responses = append(responses, c.ToResponse())
	}
	return responses, nil
}

// AssignWorkCycle implements schedule.ScheduleService. A nil work cycle unassigns.
func (s *scheduleServiceImpl) AssignWorkCycle(ctx context.Context, req schedule.AssignWorkCycleRequest) error {
	if err := s.authorizer.Authorize(ctx, authz.CapabilityConfigure, req.EmployeeID); err != nil {
		return err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return err
	}
	if req.WorkCycleID != nil {
		if _, err := s.workCycleRepo.GetByID(ctx, *req.WorkCycleID); err != nil {
			return err
		}
	}

	if err := s.employeeRepo.UpdateWorkCycle(ctx, req.EmployeeID, req.WorkCycleID); err != nil {
		return fmt.Errorf("failed to assign work cycle: %w", err)
	}
	return nil
}
