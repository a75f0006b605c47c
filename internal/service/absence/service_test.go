package absence

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *AbsenceServiceImpl {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Active: true})

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)

	svc := NewAbsenceService(store.Transactor(), memory.NewAbsenceRepository(store), memory.NewEmployeeRepository(store), authorizer)
	svc.now = func() time.Time { return time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC) }
	return svc
}

func employeeCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "emp-1", Role: authz.RoleEmployee})
}

func managerCtx() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{EmployeeID: "mgr-1", Role: authz.RoleManager})
}

func ptr[T any](v T) *T { return &v }

func request(t *testing.T, svc *AbsenceServiceImpl) absence.AbsenceResponse {
	t.Helper()
	got, err := svc.RequestAbsence(employeeCtx(), absence.CreateAbsenceRequest{
		EmployeeID:  "emp-1",
		AbsenceType: "congé",
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-05",
	})
	require.NoError(t, err)
	return got
}

func TestAbsenceService_RequestAbsence_ComputesDays(t *testing.T) {
	svc := newTestService(t)

	got := request(t, svc)

	assert.Equal(t, 5, got.Days)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, "VACATION", got.AbsenceType)
}

func TestAbsenceService_RequestAbsence_EndBeforeStart(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RequestAbsence(employeeCtx(), absence.CreateAbsenceRequest{
		EmployeeID:  "emp-1",
		AbsenceType: "SICK",
		StartDate:   "2024-03-05",
		EndDate:     "2024-03-01",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
}

func TestAbsenceService_UpdateAbsence_RecomputesDays(t *testing.T) {
	svc := newTestService(t)
	created := request(t, svc)

	got, err := svc.UpdateAbsence(employeeCtx(), absence.UpdateAbsenceRequest{ID: created.ID, EndDate: ptr("2024-03-10")})

	require.NoError(t, err)
	assert.Equal(t, 10, got.Days)
}

func TestAbsenceService_UpdateAbsence_ImmutableAfterDecision(t *testing.T) {
	svc := newTestService(t)
	created := request(t, svc)
	_, err := svc.ApproveAbsence(managerCtx(), absence.DecisionRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = svc.UpdateAbsence(employeeCtx(), absence.UpdateAbsenceRequest{ID: created.ID, EndDate: ptr("2024-03-10")})

	assert.ErrorIs(t, err, approval.ErrImmutableState)
}

func TestAbsenceService_ApproveAbsence(t *testing.T) {
	svc := newTestService(t)
	created := request(t, svc)

	// Employees cannot approve
	_, err := svc.ApproveAbsence(employeeCtx(), absence.DecisionRequest{ID: created.ID})
	require.ErrorIs(t, err, authz.ErrForbidden)

	got, err := svc.ApproveAbsence(managerCtx(), absence.DecisionRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "mgr-1", *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)
}

func TestAbsenceService_Decide_AlreadyDecided(t *testing.T) {
	svc := newTestService(t)
	created := request(t, svc)
	_, err := svc.RejectAbsence(managerCtx(), absence.DecisionRequest{ID: created.ID, Reason: ptr("peak season")})
	require.NoError(t, err)

	_, err = svc.ApproveAbsence(managerCtx(), absence.DecisionRequest{ID: created.ID})
	require.ErrorIs(t, err, approval.ErrAlreadyDecided)

	got, err := svc.GetAbsence(managerCtx(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", got.Status)
	assert.Equal(t, ptr("peak season"), got.RejectionReason)
}

func TestAbsenceService_ListAbsences_FrenchStatusFilter(t *testing.T) {
	svc := newTestService(t)
	request(t, svc)

	got, err := svc.ListAbsences(managerCtx(), absence.AbsenceFilter{Status: ptr("en attente")})

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalCount)
}
