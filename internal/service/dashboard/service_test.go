package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
	scheduleService "github.com/cmlabs-hris/attendance-engine/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyReports fails the summary of one month.
type flakyReports struct {
	report.ReportService
	failMonth time.Month
}

func (f flakyReports) Summarize(ctx context.Context, start, end time.Time, employeeID *string) (report.PeriodSummary, error) {
	if start.Month() == f.failMonth {
		return report.PeriodSummary{}, errors.New("connection reset")
	}
	return f.ReportService.Summarize(ctx, start, end, employeeID)
}

// flakyLookup fails the schedule lookup of one employee.
type flakyLookup struct {
	schedule.Lookup
	failFor string
}

func (f flakyLookup) ScheduleForEmployee(ctx context.Context, employeeID string) (*schedule.Schedule, error) {
	if employeeID == f.failFor {
		return nil, errors.New("work cycle table unavailable")
	}
	return f.Lookup.ScheduleForEmployee(ctx, employeeID)
}

// ctxReports fails when the caller's context is already done.
type ctxReports struct {
	report.ReportService
}

func (c ctxReports) Summarize(ctx context.Context, start, end time.Time, employeeID *string) (report.PeriodSummary, error) {
	if err := ctx.Err(); err != nil {
		return report.PeriodSummary{}, err
	}
	return c.ReportService.Summarize(ctx, start, end, employeeID)
}

func newTestService(t *testing.T, failMonth time.Month) *DashboardServiceImpl {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	start, err := schedule.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	end, err := schedule.ParseTimeOfDay("17:00")
	require.NoError(t, err)
	breakMinutes := 60
	sched := schedule.Schedule{ID: "sch-1", Label: "Office", Start: start, End: end, BreakMinutes: &breakMinutes}
	require.NoError(t, sched.Build())

	scheduleRepo := memory.NewScheduleRepository(store)
	workCycleRepo := memory.NewWorkCycleRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	_, err = scheduleRepo.Create(ctx, sched)
	require.NoError(t, err)
	_, err = workCycleRepo.Create(ctx, schedule.WorkCycle{ID: "wc-1", Name: "Week", CycleType: schedule.CycleTypeWeekly, CycleDays: 7, WeeklyHours: 40, ScheduleID: "sch-1"})
	require.NoError(t, err)

	wc := "wc-1"
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Category: employee.CategoryFullTime, WorkCycleID: &wc, Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Léa Martin", Category: employee.CategoryContract, Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-3", EmployeeCode: "E003", FullName: "Old Timer", Category: employee.CategoryFullTime, Active: false})

	entries := memory.NewTimeEntryRepository(store)
	// 150 hours for emp-1 in April 2024, 10 hours in March.
	for i, h := range []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10} {
		e := attendance.NewPending("emp-1", time.Date(2024, 4, i+1, 7, 0, 0, 0, time.UTC))
		e.ID = "apr-" + time.Date(2024, 4, i+1, 0, 0, 0, 0, time.UTC).Format("02")
		require.NoError(t, e.Close(e.ClockIn.Add(time.Duration(h)*time.Hour)))
		_, err := entries.Create(ctx, e)
		require.NoError(t, err)
	}
	mar := attendance.NewPending("emp-1", time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC))
	mar.ID = "mar-12"
	require.NoError(t, mar.Close(time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)))
	_, err = entries.Create(ctx, mar)
	require.NoError(t, err)

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)

	absences := memory.NewAbsenceRepository(store)
	var reports report.ReportService = reportService.NewReportService(entries, absences, employeeRepo, authorizer)
	if failMonth != 0 {
		reports = flakyReports{ReportService: reports, failMonth: failMonth}
	}
	lookup := scheduleService.NewLookup(scheduleRepo, workCycleRepo, employeeRepo)
	return NewDashboardService(employeeRepo, entries, lookup, reports, authorizer)
}

func managerCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "mgr-1", Role: authz.RoleManager})
}

func TestDashboardService_GetStatistics(t *testing.T) {
	svc := newTestService(t, 0)

	resp, err := svc.GetStatistics(managerCtx(), dashboard.StatisticsRequest{Year: 2024, Month: 4})

	require.NoError(t, err)
	assert.Equal(t, "2024-04", resp.Month)
	assert.Equal(t, 22, resp.WorkingDays)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Equal(t, 1, resp.EmployeeByCategory["FULL_TIME"])
	assert.Equal(t, 1, resp.EmployeeByCategory["CONTRACT"])
	assert.Equal(t, 150.0, resp.WorkedHours)
	assert.Equal(t, 176.0, resp.TheoreticalHours)
	assert.Equal(t, 85.23, resp.EfficiencyRate)

	require.Len(t, resp.TopEmployees, 2)
	assert.Equal(t, "emp-1", resp.TopEmployees[0].EmployeeID)
	assert.Equal(t, 85.23, resp.TopEmployees[0].EfficiencyRate)
	assert.Equal(t, 0.0, resp.TopEmployees[1].EfficiencyRate)

	require.Len(t, resp.Trend, 6)
	assert.Equal(t, "2023-11", resp.Trend[0].Month)
	assert.Equal(t, "2024-03", resp.Trend[4].Month)
	assert.Equal(t, 10.0, resp.Trend[4].TotalHours)
	assert.Equal(t, "2024-04", resp.Trend[5].Month)
	assert.Equal(t, 150.0, resp.Trend[5].TotalHours)
	assert.Equal(t, 15, resp.Trend[5].TotalTimeEntries)
}

func TestDashboardService_GetStatistics_FailedMonthYieldsZeros(t *testing.T) {
	svc := newTestService(t, time.March)

	resp, err := svc.GetStatistics(managerCtx(), dashboard.StatisticsRequest{Year: 2024, Month: 4})

	require.NoError(t, err)
	require.Len(t, resp.Trend, 6)
	assert.True(t, resp.Trend[4].Failed)
	assert.Zero(t, resp.Trend[4].TotalHours)
	assert.Zero(t, resp.Trend[4].TotalTimeEntries)
	assert.False(t, resp.Trend[5].Failed)
	assert.Equal(t, 150.0, resp.Trend[5].TotalHours)
}

func TestDashboardService_GetStatistics_LookupFailureCountsNoTheoreticalHours(t *testing.T) {
	svc := newTestService(t, 0)
	svc.schedules = flakyLookup{Lookup: svc.schedules, failFor: "emp-1"}

	resp, err := svc.GetStatistics(managerCtx(), dashboard.StatisticsRequest{Year: 2024, Month: 4})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Equal(t, 150.0, resp.WorkedHours)
	assert.Zero(t, resp.TheoreticalHours)
}

func TestDashboardService_GetStatistics_SharedWorkIgnoresCallerCancel(t *testing.T) {
	svc := newTestService(t, 0)
	svc.reports = ctxReports{ReportService: svc.reports}
	ctx, cancel := context.WithCancel(managerCtx())
	cancel()

	resp, err := svc.GetStatistics(ctx, dashboard.StatisticsRequest{Year: 2024, Month: 4})

	require.NoError(t, err)
	require.Len(t, resp.Trend, 6)
	for _, p := range resp.Trend {
		assert.False(t, p.Failed, p.Month)
	}
	assert.Equal(t, 150.0, resp.Trend[5].TotalHours)
}

func TestDashboardService_GetStatistics_EmployeeForbidden(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "emp-1", Role: authz.RoleEmployee})

	_, err := svc.GetStatistics(ctx, dashboard.StatisticsRequest{Year: 2024, Month: 4})

	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestDashboardService_GetStatistics_InvalidMonth(t *testing.T) {
	svc := newTestService(t, 0)

	_, err := svc.GetStatistics(managerCtx(), dashboard.StatisticsRequest{Year: 2024, Month: 0})

	assert.Error(t, err)
}
