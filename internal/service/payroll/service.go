package payroll

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/document"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	entryRepo    attendance.TimeEntryRepository
	extraRepo    extrahours.RecordRepository
	absenceRepo  absence.AbsenceRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
}

func NewPayrollService(
	entryRepo attendance.TimeEntryRepository,
	extraRepo extrahours.RecordRepository,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		entryRepo:    entryRepo,
		extraRepo:    extraRepo,
		absenceRepo:  absenceRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
	}
}

func (s *PayrollServiceImpl) build(ctx context.Context, req payroll.PayslipRequest) (payroll.Payslip, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payslip{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, req.EmployeeID); err != nil {
		return payroll.Payslip{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	start, end, _ := validator.IsValidDateRange(req.StartDate, req.EndDate)

	var (
		entries  []attendance.TimeEntry
		records  []extrahours.Record
		absences []absence.Absence
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.FindByEmployeeAndDateRange(gCtx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to get time entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.extraRepo.FindByDateRange(gCtx, &emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to get extra hours: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		absences, err = s.absenceRepo.FindOverlapping(gCtx, &emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to get absences: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.Payslip{}, err
	}

	return payroll.BuildPayslip(emp, start, end, entries, records, absences), nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, req payroll.PayslipRequest) (payroll.PayslipResponse, error) {
	p, err := s.build(ctx, req)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.NewPayslipResponse(p), nil
}

// ExportPayslipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayslipPDF(ctx context.Context, req payroll.PayslipRequest) ([]byte, error) {
	p, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := payroll.NewPayslipResponse(p)

	data, err := document.WritePDF(payslipDocument(resp))
	if err != nil {
		return nil, fmt.Errorf("failed to export payslip: %w", err)
	}
	return data, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func payslipDocument(p payroll.PayslipResponse) document.PDF {
	doc := document.PDF{
		Title: "Payslip",
		Header: []document.KeyValue{
			{Key: "Employee", Value: p.Employee.FullName},
			{Key: "Code", Value: p.Employee.Code},
			{Key: "Period", Value: p.StartDate + " to " + p.EndDate},
			{Key: "Work days", Value: strconv.Itoa(p.Summary.WorkDays)},
			{Key: "Total hours", Value: formatHours(p.Summary.TotalHours)},
			{Key: "Overtime hours", Value: formatHours(p.Summary.TotalOvertimeHours) + " (weighted " + formatHours(p.Summary.WeightedOvertimeHours) + ")"},
			{Key: "Special hours", Value: formatHours(p.Summary.TotalSpecialHours) + " (weighted " + formatHours(p.Summary.WeightedSpecialHours) + ")"},
			{Key: "Absence days", Value: strconv.Itoa(p.Summary.TotalAbsenceDays)},
		},
	}

	entries := document.Table{Title: "Time entries", Header: []string{"Date", "Clock in", "Clock out", "Hours", "Status"}}
	for _, e := range p.TimeEntries {
		entries.Rows = append(entries.Rows, []any{e.Date, deref(e.ClockIn), deref(e.ClockOut), formatHours(e.TotalHours), e.Status})
	}

	extra := document.Table{Title: "Extra hours", Header: []string{"Date", "Kind", "Category", "Hours", "Multiplier", "Status"}}
	for _, list := range [][]extrahours.RecordResponse{p.Overtime, p.SpecialHours} {
		for _, r := range list {
			extra.Rows = append(extra.Rows, []any{r.Date, r.Kind, r.RateCategory, formatHours(r.Hours), r.Multiplier, r.Status})
		}
	}

	absences := document.Table{Title: "Absences", Header: []string{"Type", "Start", "End", "Days", "Status"}}
	for _, a := range p.Absences {
		absences.Rows = append(absences.Rows, []any{a.AbsenceType, a.StartDate, a.EndDate, a.Days, a.Status})
	}

	doc.Tables = []document.Table{entries, extra, absences}
	return doc
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
