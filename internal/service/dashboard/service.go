package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type DashboardServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	entryRepo    attendance.TimeEntryRepository
	schedules    schedule.Lookup
	reports      report.ReportService
	authorizer   authz.Authorizer
	group        singleflight.Group
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	entryRepo attendance.TimeEntryRepository,
	schedules schedule.Lookup,
	reports report.ReportService,
	authorizer authz.Authorizer,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		employeeRepo: employeeRepo,
		entryRepo:    entryRepo,
		schedules:    schedules,
		reports:      reports,
		authorizer:   authorizer,
	}
}

// GetStatistics implements dashboard.DashboardService. Concurrent identical requests
// share one computation.
func (s *DashboardServiceImpl) GetStatistics(ctx context.Context, req dashboard.StatisticsRequest) (dashboard.StatisticsResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.StatisticsResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, ""); err != nil {
		return dashboard.StatisticsResponse{}, err
	}

	key := fmt.Sprintf("%04d-%02d/%d", req.Year, req.Month, req.Top)
	// The computation is shared, so one caller going away must not fail the others.
	shareCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		stats, err := s.compute(shareCtx, req.Year, time.Month(req.Month), req.Top)
		if err != nil {
			return nil, err
		}
		return dashboard.NewStatisticsResponse(stats), nil
	})
	if err != nil {
		return dashboard.StatisticsResponse{}, err
	}
	if shared {
		slog.Debug("Dashboard computation shared", "key", key)
	}
	return v.(dashboard.StatisticsResponse), nil
}

func (s *DashboardServiceImpl) compute(ctx context.Context, year int, month time.Month, topN int) (dashboard.Statistics, error) {
	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	if err != nil {
		return dashboard.Statistics{}, fmt.Errorf("failed to list employees: %w", err)
	}

	staff := make([]dashboard.Staff, 0, len(employees))
	for _, e := range employees {
		member := dashboard.Staff{Employee: e}
		sched, err := s.schedules.ScheduleForEmployee(ctx, e.ID)
		if err != nil {
			slog.Warn("Schedule unavailable, counting no theoretical hours", "employee_id", e.ID, "error", err)
		} else if sched != nil {
			member.TheoreticalDayHours = sched.TheoreticalDayHours
		}
		staff = append(staff, member)
	}

	start, end := dashboard.MonthRange(year, month)
	entries, err := s.entryRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return dashboard.Statistics{}, fmt.Errorf("failed to get time entries: %w", err)
	}

	stats := dashboard.Compute(year, month, staff, entries, topN)
	stats.Trend = s.trend(ctx, year, month)
	return stats, nil
}

// trend summarizes each month of the window in parallel. A month that fails is
// reported with zero totals.
func (s *DashboardServiceImpl) trend(ctx context.Context, year int, month time.Month) []dashboard.TrendPoint {
	points := dashboard.TrendWindow(year, month)

	g, gCtx := errgroup.WithContext(ctx)
	for i := range points {
		g.Go(func() error {
			start, end := dashboard.MonthRange(points[i].Year, points[i].Month)
			summary, err := s.reports.Summarize(gCtx, start, end, nil)
			if err != nil {
				slog.Warn("Trend month unavailable", "year", points[i].Year, "month", int(points[i].Month), "error", err)
				points[i].Summary = report.PeriodSummary{Start: start, End: end}
				points[i].Failed = true
				return nil
			}
			points[i].Summary = summary
			return nil
		})
	}
	_ = g.Wait()
	return points
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)
