package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

type scheduleRepository struct{ s *Store }

func NewScheduleRepository(s *Store) schedule.ScheduleRepository {
	return &scheduleRepository{s: s}
}

// copySchedule detaches the nested slices so callers cannot mutate stored state.
func copySchedule(in schedule.Schedule) schedule.Schedule {
	out := in
	out.Periods = slices.Clone(in.Periods)
	for i := range out.Periods {
		out.Periods[i].Ranges = slices.Clone(in.Periods[i].Ranges)
	}
	return out
}

func (r *scheduleRepository) Create(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	defer r.s.lock(ctx)()
	r.s.t.schedules[sched.ID] = copySchedule(sched)
	return sched, nil
}

func (r *scheduleRepository) Update(ctx context.Context, sched schedule.Schedule) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.schedules[sched.ID]; !ok {
		return schedule.ErrScheduleNotFound
	}
	r.s.t.schedules[sched.ID] = copySchedule(sched)
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	defer r.s.rlock(ctx)()
	sched, ok := r.s.t.schedules[id]
	if !ok {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return copySchedule(sched), nil
}

func (r *scheduleRepository) List(ctx context.Context) ([]schedule.Schedule, error) {
	defer r.s.rlock(ctx)()
	out := make([]schedule.Schedule, 0, len(r.s.t.schedules))
	for _, sched := range r.s.t.schedules {
		out = append(out, copySchedule(sched))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

type workCycleRepository struct{ s *Store }

func NewWorkCycleRepository(s *Store) schedule.WorkCycleRepository {
	return &workCycleRepository{s: s}
}

func (r *workCycleRepository) Create(ctx context.Context, w schedule.WorkCycle) (schedule.WorkCycle, error) {
	defer r.s.lock(ctx)()
	r.s.t.workCycles[w.ID] = w
	return w, nil
}

func (r *workCycleRepository) GetByID(ctx context.Context, id string) (schedule.WorkCycle, error) {
	defer r.s.rlock(ctx)()
	w, ok := r.s.t.workCycles[id]
	if !ok {
		return schedule.WorkCycle{}, schedule.ErrWorkCycleNotFound
	}
	return w, nil
}

func (r *workCycleRepository) List(ctx context.Context) ([]schedule.WorkCycle, error) {
	defer r.s.rlock(ctx)()
	out := make([]schedule.WorkCycle, 0, len(r.s.t.workCycles))
	for _, w := range r.s.t.workCycles {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
