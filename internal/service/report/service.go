package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/document"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type ReportServiceImpl struct {
	entryRepo    attendance.TimeEntryRepository
	absenceRepo  absence.AbsenceRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
}

func NewReportService(
	entryRepo attendance.TimeEntryRepository,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		entryRepo:    entryRepo,
		absenceRepo:  absenceRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
	}
}

// Summarize implements report.ReportService.
func (s *ReportServiceImpl) Summarize(ctx context.Context, start, end time.Time, employeeID *string) (report.PeriodSummary, error) {
	var (
		entries []attendance.TimeEntry
		err     error
	)
	if employeeID != nil {
		entries, err = s.entryRepo.FindByEmployeeAndDateRange(ctx, *employeeID, start, end)
	} else {
		entries, err = s.entryRepo.FindByDateRange(ctx, start, end)
	}
	if err != nil {
		return report.PeriodSummary{}, fmt.Errorf("failed to get time entries: %w", err)
	}

	absences, err := s.absenceRepo.FindOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return report.PeriodSummary{}, fmt.Errorf("failed to get absences: %w", err)
	}

	summary := report.Summarize(start, end, entries, absences)
	summary.EmployeeID = employeeID
	return summary, nil
}

func (s *ReportServiceImpl) summary(ctx context.Context, req report.SummaryRequest) (report.PeriodSummary, map[string]report.EmployeeIdentity, error) {
	if err := req.Validate(); err != nil {
		return report.PeriodSummary{}, nil, err
	}

	owner := ""
	if req.EmployeeID != nil {
		owner = *req.EmployeeID
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, owner); err != nil {
		return report.PeriodSummary{}, nil, err
	}

	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID); err != nil {
			return report.PeriodSummary{}, nil, err
		}
	}

	start, end, _ := validator.IsValidDateRange(req.StartDate, req.EndDate)
	summary, err := s.Summarize(ctx, start, end, req.EmployeeID)
	if err != nil {
		return report.PeriodSummary{}, nil, err
	}

	names := make(map[string]report.EmployeeIdentity, len(summary.Employees))
	for _, row := range summary.Employees {
		emp, err := s.employeeRepo.GetByID(ctx, row.EmployeeID)
		if err != nil {
			slog.Warn("Employee missing from summary row", "employee_id", row.EmployeeID, "error", err)
			continue
		}
		names[row.EmployeeID] = report.EmployeeIdentity{Code: emp.EmployeeCode, Name: emp.FullName}
	}
	return summary, names, nil
}

// PeriodSummary implements report.ReportService.
func (s *ReportServiceImpl) PeriodSummary(ctx context.Context, req report.SummaryRequest) (report.SummaryResponse, error) {
	summary, names, err := s.summary(ctx, req)
	if err != nil {
		return report.SummaryResponse{}, err
	}
	return report.NewSummaryResponse(summary, names), nil
}

// ExportPeriodSummary implements report.ReportService.
func (s *ReportServiceImpl) ExportPeriodSummary(ctx context.Context, req report.SummaryRequest) ([]byte, error) {
	summary, names, err := s.summary(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := report.NewSummaryResponse(summary, names)

	totals := document.Table{
		Title:  "Summary",
		Header: []string{"Start", "End", "Time entries", "Hours", "Absences", "Absence days"},
		Rows: [][]any{{
			resp.StartDate, resp.EndDate, resp.TotalTimeEntries, resp.TotalHours, resp.TotalAbsences, resp.TotalAbsenceDays,
		}},
	}
	employees := document.Table{
		Title:  "Employees",
		Header: []string{"Code", "Name", "Time entries", "Hours", "Absences", "Absence days"},
	}
	for _, row := range resp.Employees {
		employees.Rows = append(employees.Rows, []any{
			row.EmployeeCode, row.EmployeeName, row.TotalTimeEntries, row.TotalHours, row.TotalAbsences, row.TotalAbsenceDays,
		})
	}

	data, err := document.WriteXLSX(totals, employees)
	if err != nil {
		return nil, fmt.Errorf("failed to export summary: %w", err)
	}
	return data, nil
}

var _ report.ReportService = (*ReportServiceImpl)(nil)
