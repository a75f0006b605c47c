package report

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) *ReportServiceImpl {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Léa Martin", Active: true})

	entries := memory.NewTimeEntryRepository(store)
	for i, e := range []struct {
		emp    string
		day    int
		inH    int
		outH   int
		closed bool
	}{
		{"emp-1", 4, 8, 17, true},
		{"emp-1", 5, 8, 16, true},
		{"emp-2", 4, 9, 13, true},
		{"emp-2", 5, 9, 0, false},
	} {
		in := time.Date(2024, 3, e.day, e.inH, 0, 0, 0, time.UTC)
		te := attendance.NewPending(e.emp, in)
		te.ID = fmt.Sprintf("te-%d", i)
		if e.closed {
			require.NoError(t, te.Close(time.Date(2024, 3, e.day, e.outH, 0, 0, 0, time.UTC)))
		}
		_, err := entries.Create(ctx, te)
		require.NoError(t, err)
	}

	absences := memory.NewAbsenceRepository(store)
	_, err := absences.Create(ctx, absence.Absence{
		ID: "abs-1", EmployeeID: "emp-2", AbsenceType: absence.TypeVacation,
		StartDate: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		Days: 3, Status: approval.StatusApproved,
	})
	require.NoError(t, err)

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)
	return NewReportService(entries, absences, memory.NewEmployeeRepository(store), authorizer)
}

func managerCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "mgr-1", Role: authz.RoleManager})
}

func employeeCtx(id string) context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: id, Role: authz.RoleEmployee})
}

func TestReportService_PeriodSummary_Organization(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.PeriodSummary(managerCtx(), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.TotalTimeEntries)
	assert.Equal(t, 21.0, resp.TotalHours)
	assert.Equal(t, 1, resp.TotalAbsences)
	assert.Equal(t, 3, resp.TotalAbsenceDays)
	require.Len(t, resp.Employees, 2)
	assert.Equal(t, "E001", resp.Employees[0].EmployeeCode)
	assert.Equal(t, 17.0, resp.Employees[0].TotalHours)
	assert.Equal(t, "Léa Martin", resp.Employees[1].EmployeeName)
}

func TestReportService_PeriodSummary_OwnSummary(t *testing.T) {
	svc := newTestService(t)
	emp := "emp-2"

	resp, err := svc.PeriodSummary(employeeCtx("emp-2"), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", EmployeeID: &emp})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalTimeEntries)
	assert.Equal(t, 4.0, resp.TotalHours)
	assert.Equal(t, 3, resp.TotalAbsenceDays)
}

func TestReportService_PeriodSummary_EmployeeCannotSeeOthers(t *testing.T) {
	svc := newTestService(t)
	other := "emp-1"

	_, err := svc.PeriodSummary(employeeCtx("emp-2"), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", EmployeeID: &other})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	_, err = svc.PeriodSummary(employeeCtx("emp-2"), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestReportService_PeriodSummary_UnknownEmployee(t *testing.T) {
	svc := newTestService(t)
	missing := "emp-9"

	_, err := svc.PeriodSummary(managerCtx(), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", EmployeeID: &missing})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReportService_ExportPeriodSummary(t *testing.T) {
	svc := newTestService(t)

	data, err := svc.ExportPeriodSummary(managerCtx(), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Employees"}, f.GetSheetList())
	name, err := f.GetCellValue("Employees", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Duval", name)
}
