package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *PayrollServiceImpl {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Category: employee.CategoryFullTime, Active: true})

	entries := memory.NewTimeEntryRepository(store)
	te := attendance.NewPending("emp-1", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))
	te.ID = "te-1"
	require.NoError(t, te.Close(time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)))
	_, err := entries.Create(ctx, te)
	require.NoError(t, err)

	extra := memory.NewExtraHoursRepository(store)
	ot, err := extrahours.NewOvertime("emp-1", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 3, schedule.RangeTypeOvertime, nil)
	require.NoError(t, err)
	ot.ID = "ot-1"
	_, err = extra.Create(ctx, ot)
	require.NoError(t, err)
	sp, err := extrahours.NewSpecialHours("emp-1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 4, extrahours.HourTypeWeekend, nil)
	require.NoError(t, err)
	sp.ID = "sp-1"
	sp.Status = approval.StatusApproved
	_, err = extra.Create(ctx, sp)
	require.NoError(t, err)

	absences := memory.NewAbsenceRepository(store)
	_, err = absences.Create(ctx, absence.Absence{
		ID: "abs-1", EmployeeID: "emp-1", AbsenceType: absence.TypeSick,
		StartDate: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Days: 6, Status: approval.StatusPending,
	})
	require.NoError(t, err)

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)
	return NewPayrollService(entries, extra, absences, memory.NewEmployeeRepository(store), authorizer)
}

func employeeCtx(id string) context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: id, Role: authz.RoleEmployee})
}

var march = payroll.PayslipRequest{EmployeeID: "emp-1", StartDate: "2024-03-01", EndDate: "2024-03-31"}

func TestPayrollService_GetPayslip(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.GetPayslip(employeeCtx("emp-1"), march)

	require.NoError(t, err)
	assert.Equal(t, "E001", resp.Employee.Code)
	assert.Equal(t, "FULL_TIME", resp.Employee.Category)
	assert.Len(t, resp.TimeEntries, 1)
	assert.Len(t, resp.Overtime, 1)
	assert.Len(t, resp.SpecialHours, 1)
	assert.Len(t, resp.Absences, 1)

	assert.Equal(t, 9.0, resp.Summary.TotalHours)
	assert.Equal(t, 1, resp.Summary.WorkDays)
	assert.Equal(t, 3.0, resp.Summary.TotalOvertimeHours)
	assert.Equal(t, 3.75, resp.Summary.WeightedOvertimeHours)
	assert.Equal(t, 4.0, resp.Summary.TotalSpecialHours)
	assert.Equal(t, 8.0, resp.Summary.WeightedSpecialHours)
	assert.Equal(t, []payroll.HourTypeTotal{{HourType: "WEEKEND", Hours: 4}}, resp.Summary.SpecialHoursByType)
	assert.Equal(t, 6, resp.Summary.TotalAbsenceDays)
}

func TestPayrollService_GetPayslip_OtherEmployeeForbidden(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetPayslip(employeeCtx("emp-2"), march)

	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestPayrollService_GetPayslip_InvalidRange(t *testing.T) {
	svc := newTestService(t)
	req := payroll.PayslipRequest{EmployeeID: "emp-1", StartDate: "2024-03-31", EndDate: "2024-03-01"}

	_, err := svc.GetPayslip(employeeCtx("emp-1"), req)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestPayrollService_ExportPayslipPDF(t *testing.T) {
	svc := newTestService(t)

	data, err := svc.ExportPayslipPDF(employeeCtx("emp-1"), march)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
