package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    schedule.ScheduleService
	lookup schedule.Lookup
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Active: true})

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)

	scheduleRepo := memory.NewScheduleRepository(store)
	workCycleRepo := memory.NewWorkCycleRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	return fixture{
		svc:    NewScheduleService(scheduleRepo, workCycleRepo, employeeRepo, authorizer, nil),
		lookup: NewLookup(scheduleRepo, workCycleRepo, employeeRepo),
	}
}

func ownerCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{UserID: "owner-1", Role: authz.RoleOwner})
}

func managerCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "mgr-1", Role: authz.RoleManager})
}

func dayShiftRequest() schedule.CreateScheduleRequest {
	return schedule.CreateScheduleRequest{
		Label:     "Day shift",
		StartTime: "08:00",
		EndTime:   "17:00",
		Periods: []schedule.PeriodRequest{
			{
				Name: "Morning", StartTime: "08:00", EndTime: "12:00", PeriodType: "REGULAR",
				Ranges: []schedule.TimeRangeRequest{{Name: "Base", StartTime: "08:00", EndTime: "12:00", RangeType: "NORMAL"}},
			},
			{Name: "Lunch", StartTime: "12:00", EndTime: "13:00", PeriodType: "PAUSE"},
			{
				Name: "Afternoon", StartTime: "13:00", EndTime: "17:00", PeriodType: "REGULAR",
				Ranges: []schedule.TimeRangeRequest{
					{Name: "Base", StartTime: "13:00", EndTime: "16:00", RangeType: "NORMAL"},
					{Name: "Late", StartTime: "16:00", EndTime: "17:00", RangeType: "OVERTIME"},
				},
			},
		},
	}
}

func TestScheduleService_CreateSchedule_DerivesDayHours(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.CreateSchedule(ownerCtx(), dayShiftRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.InDelta(t, 8.0, got.TheoreticalDayHours, 0.001)
	require.Len(t, got.Periods, 3)
	assert.Equal(t, "BREAK", got.Periods[1].PeriodType)
	assert.Equal(t, "1.25", got.Periods[2].Ranges[1].Multiplier)
}

func TestScheduleService_CreateSchedule_RequiresConfigure(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateSchedule(managerCtx(), dayShiftRequest())
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestScheduleService_CreateSchedule_Invalid(t *testing.T) {
	f := newFixture(t)

	req := dayShiftRequest()
	req.StartTime = "8h"
	_, err := f.svc.CreateSchedule(ownerCtx(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_time")

	req = dayShiftRequest()
	req.Periods[1].StartTime = "11:00"
	_, err = f.svc.CreateSchedule(ownerCtx(), req)
	var cfgErr *schedule.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "periods[1]", cfgErr.Field)
}

func TestScheduleService_ResolveRate(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateSchedule(ownerCtx(), dayShiftRequest())
	require.NoError(t, err)

	late, err := f.svc.ResolveRate(ownerCtx(), schedule.ResolveRateRequest{ScheduleID: created.ID, At: "2024-03-04T16:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "Afternoon", late.PeriodName)
	require.NotNil(t, late.RangeType)
	assert.Equal(t, "OVERTIME", *late.RangeType)
	assert.Equal(t, "1.25", late.Multiplier)

	lunch, err := f.svc.ResolveRate(ownerCtx(), schedule.ResolveRateRequest{ScheduleID: created.ID, At: "2024-03-04T12:15:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "BREAK", lunch.PeriodType)
	assert.Equal(t, "0", lunch.Multiplier)

	_, err = f.svc.ResolveRate(ownerCtx(), schedule.ResolveRateRequest{ScheduleID: created.ID, At: "2024-03-04T20:00:00Z"})
	assert.ErrorIs(t, err, schedule.ErrNoApplicablePeriod)
}

func TestScheduleService_ResolveRate_UsesConfiguredZone(t *testing.T) {
	store := memory.NewStore()
	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)
	svc := NewScheduleService(
		memory.NewScheduleRepository(store),
		memory.NewWorkCycleRepository(store),
		memory.NewEmployeeRepository(store),
		authorizer,
		time.FixedZone("CEST", 2*60*60),
	)
	created, err := svc.CreateSchedule(ownerCtx(), dayShiftRequest())
	require.NoError(t, err)

	// 06:30 UTC is 08:30 on the local wall clock.
	morning, err := svc.ResolveRate(ownerCtx(), schedule.ResolveRateRequest{ScheduleID: created.ID, At: "2024-06-10T06:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "Morning", morning.PeriodName)

	_, err = svc.ResolveRate(ownerCtx(), schedule.ResolveRateRequest{ScheduleID: created.ID, At: "2024-06-10T16:30:00Z"})
	assert.ErrorIs(t, err, schedule.ErrNoApplicablePeriod)
}

func TestScheduleService_AssignWorkCycle_FeedsLookup(t *testing.T) {
	f := newFixture(t)
	ctx := ownerCtx()

	sched, err := f.svc.CreateSchedule(ctx, dayShiftRequest())
	require.NoError(t, err)

	none, err := f.lookup.ScheduleForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, none)

	cycle, err := f.svc.CreateWorkCycle(ctx, schedule.CreateWorkCycleRequest{
		Name:        "Standard week",
		CycleType:   "HEBDOMADAIRE",
		WeeklyHours: 40,
		ScheduleID:  sched.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "WEEKLY", cycle.CycleType)
	assert.Equal(t, 7, cycle.CycleDays)

	require.NoError(t, f.svc.AssignWorkCycle(ctx, schedule.AssignWorkCycleRequest{EmployeeID: "emp-1", WorkCycleID: &cycle.ID}))

	got, err := f.lookup.ScheduleForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sched.ID, got.ID)

	missing := "missing"
	err = f.svc.AssignWorkCycle(ctx, schedule.AssignWorkCycleRequest{EmployeeID: "emp-1", WorkCycleID: &missing})
	assert.ErrorIs(t, err, schedule.ErrWorkCycleNotFound)
}
