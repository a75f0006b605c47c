package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	scheduleService "github.com/cmlabs-hris/attendance-engine/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobsFixture struct {
	jobs    *AttendanceJobs
	entries attendance.TimeEntryRepository
}

func newJobsFixture(t *testing.T, now time.Time) jobsFixture {
	t.Helper()
	return newJobsFixtureIn(t, now, nil)
}

func newJobsFixtureIn(t *testing.T, now time.Time, loc *time.Location) jobsFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	start, err := schedule.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	end, err := schedule.ParseTimeOfDay("17:00")
	require.NoError(t, err)
	sched := schedule.Schedule{ID: "sch-1", Label: "Office", Start: start, End: end}
	require.NoError(t, sched.Build())

	scheduleRepo := memory.NewScheduleRepository(store)
	workCycleRepo := memory.NewWorkCycleRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	_, err = scheduleRepo.Create(ctx, sched)
	require.NoError(t, err)
	_, err = workCycleRepo.Create(ctx, schedule.WorkCycle{ID: "wc-1", Name: "Week", CycleType: schedule.CycleTypeWeekly, CycleDays: 7, WeeklyHours: 40, ScheduleID: "sch-1"})
	require.NoError(t, err)

	wc := "wc-1"
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ana Duval", WorkCycleID: &wc, Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Marc Petit", WorkCycleID: &wc, Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-3", FullName: "Lea Blanc", Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-4", FullName: "Paul Noir", WorkCycleID: &wc, Active: false})

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)

	entries := memory.NewTimeEntryRepository(store)
	svc := attendanceService.NewAttendanceService(store.Transactor(), entries, employeeRepo, authorizer, nil)
	lookup := scheduleService.NewLookup(scheduleRepo, workCycleRepo, employeeRepo)

	jobs := NewAttendanceJobs(svc, employeeRepo, lookup, 12*time.Hour, loc)
	jobs.now = func() time.Time { return now }
	return jobsFixture{jobs: jobs, entries: entries}
}

func TestAttendanceJobs_MarkAbsentEmployees(t *testing.T) {
	// Tuesday, so yesterday is Monday 2024-03-04
	f := newJobsFixture(t, time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC))
	ctx := context.Background()
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	worked := attendance.NewPending("emp-2", monday.Add(8*time.Hour))
	worked.ID = "te-worked"
	require.NoError(t, worked.Close(monday.Add(16*time.Hour)))
	_, err := f.entries.Create(ctx, worked)
	require.NoError(t, err)

	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))

	got, err := f.entries.FindByEmployeeAndDateRange(ctx, "emp-1", monday, monday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, attendance.StatusAbsent, got[0].Status)
	assert.Nil(t, got[0].ClockIn)

	got, err = f.entries.FindByEmployeeAndDateRange(ctx, "emp-2", monday, monday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, attendance.StatusCompleted, got[0].Status)

	for _, id := range []string{"emp-3", "emp-4"} {
		got, err = f.entries.FindByEmployeeAndDateRange(ctx, id, monday, monday)
		require.NoError(t, err)
		assert.Empty(t, got, id)
	}

	// A second run finds every day already recorded
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	got, err = f.entries.FindByEmployeeAndDateRange(ctx, "emp-1", monday, monday)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAttendanceJobs_MarkAbsentEmployees_UsesLocalCalendar(t *testing.T) {
	// 23:30 UTC Tuesday is already Wednesday locally, so yesterday is Tuesday.
	f := newJobsFixtureIn(t, time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC), time.FixedZone("EET", 2*60*60))
	ctx := context.Background()
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))

	got, err := f.entries.FindByEmployeeAndDateRange(ctx, "emp-1", tuesday, tuesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, attendance.StatusAbsent, got[0].Status)

	got, err = f.entries.FindByEmployeeAndDateRange(ctx, "emp-1", monday, monday)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAttendanceJobs_MarkAbsentEmployees_SkipsWeekend(t *testing.T) {
	// Sunday, so yesterday is Saturday
	f := newJobsFixture(t, time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC))
	ctx := context.Background()
	saturday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))

	got, err := f.entries.FindByDateRange(ctx, saturday, saturday)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAttendanceJobs_CloseStaleEntries(t *testing.T) {
	f := newJobsFixture(t, time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC))
	ctx := context.Background()

	stale := attendance.NewPending("emp-1", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))
	stale.ID = "te-stale"
	_, err := f.entries.Create(ctx, stale)
	require.NoError(t, err)

	fresh := attendance.NewPending("emp-2", time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC))
	fresh.ID = "te-fresh"
	_, err = f.entries.Create(ctx, fresh)
	require.NoError(t, err)

	require.NoError(t, f.jobs.CloseStaleEntries(ctx))

	got, err := f.entries.GetByID(ctx, "te-stale")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusIncomplete, got.Status)

	got, err = f.entries.GetByID(ctx, "te-fresh")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPending, got.Status)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return assert.AnError
	})

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_SkipsOverlappingRun(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})

	s.jobs[0].running.Store(true)
	s.RunOnce(context.Background())
	assert.Equal(t, 0, calls)

	s.jobs[0].running.Store(false)
	s.RunOnce(context.Background())
	assert.Equal(t, 1, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
