package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	authzService "github.com/cmlabs-hris/attendance-engine/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *AttendanceServiceImpl
	repo  attendance.TimeEntryRepository
	store *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ana Duval", Category: employee.CategoryFullTime, Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Marc Petit", Category: employee.CategoryPartTime, Active: false})

	authorizer, err := authzService.NewAuthorizer(authz.RolePolicies)
	require.NoError(t, err)

	repo := memory.NewTimeEntryRepository(store)
	svc := NewAttendanceService(store.Transactor(), repo, memory.NewEmployeeRepository(store), authorizer, nil)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, repo: repo, store: store}
}

func asEmployee(id string) context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{UserID: "u-" + id, EmployeeID: id, Role: authz.RoleEmployee})
}

func asManager() context.Context {
	return authz.WithSubject(context.Background(), authz.Subject{UserID: "u-mgr", EmployeeID: "mgr-1", Role: authz.RoleManager})
}

func ptr[T any](v T) *T { return &v }

func TestAttendanceService_ClockInOut_Success(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")

	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", in.Status)
	assert.Equal(t, "2024-03-04", in.Date)

	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T17:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, 9.0, out.TotalHours)
	assert.Equal(t, "COMPLETED", out.Status)
	assert.False(t, out.IsValidated)
}

func TestAttendanceService_ClockIn_UsesLocalCalendarDate(t *testing.T) {
	f := newFixture(t)
	f.svc.location = time.FixedZone("CEST", 2*60*60)
	ctx := asEmployee("emp-1")

	// 23:30 UTC on the 10th is 01:30 on the 11th locally.
	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-06-10T23:30:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-11", in.Date)

	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-06-11T07:30:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-11", out.Date)
	assert.Equal(t, 8.0, out.TotalHours)
}

func TestAttendanceService_ClockOut_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")
	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T17:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T18:00:00Z")})
	assert.ErrorIs(t, err, attendance.ErrNoOpenEntry)
}

func TestAttendanceService_ClockOut_StaleReadDoesNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")
	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)

	stale, err := f.repo.GetOpenEntry(context.Background(), "emp-1")
	require.NoError(t, err)

	won, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T17:00:00Z")})
	require.NoError(t, err)
	_, err = f.svc.CorrectEntry(asManager(), attendance.CorrectionRequest{ID: won.ID, TotalHours: ptr(7.5)})
	require.NoError(t, err)

	require.NoError(t, stale.Close(time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)))
	err = f.repo.ClosePending(context.Background(), stale)
	assert.ErrorIs(t, err, attendance.ErrNoOpenEntry)

	stored, err := f.repo.GetByID(context.Background(), won.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, stored.TotalHours)
	assert.True(t, stored.HoursOverridden)
	assert.Equal(t, time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), *stored.ClockOut)
}

func TestAttendanceService_ClockIn_DuplicatePending(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T09:00:00Z")})
	assert.ErrorIs(t, err, attendance.ErrDuplicateEntry)
}

func TestAttendanceService_ClockIn_SecondShiftAfterClockOut(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T12:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T13:00:00Z")})
	assert.NoError(t, err)
}

func TestAttendanceService_ClockOut_NoOpenEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockOut(asEmployee("emp-1"), attendance.ClockOutRequest{EmployeeID: "emp-1"})

	assert.ErrorIs(t, err, attendance.ErrNoOpenEntry)
}

func TestAttendanceService_ClockIn_OtherEmployeeForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(asEmployee("emp-1"), attendance.ClockInRequest{EmployeeID: "emp-3"})

	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestAttendanceService_ClockIn_InactiveEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(asManager(), attendance.ClockInRequest{EmployeeID: "emp-2"})

	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestAttendanceService_ClockIn_ValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(asEmployee("emp-1"), attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("yesterday")})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestAttendanceService_CorrectEntry_HoursOverride(t *testing.T) {
	f := newFixture(t)
	in, err := f.svc.ClockIn(asEmployee("emp-1"), attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)

	// Employees cannot correct their own entries
	_, err = f.svc.CorrectEntry(asEmployee("emp-1"), attendance.CorrectionRequest{ID: in.ID, TotalHours: ptr(8.0)})
	require.ErrorIs(t, err, authz.ErrForbidden)

	got, err := f.svc.CorrectEntry(asManager(), attendance.CorrectionRequest{ID: in.ID, TotalHours: ptr(7.5)})
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.TotalHours)
	assert.True(t, got.HoursOverridden)
	assert.Equal(t, "COMPLETED", got.Status)
}

func TestAttendanceService_CorrectEntry_InvalidRangeLeavesEntry(t *testing.T) {
	f := newFixture(t)
	ctx := asEmployee("emp-1")
	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)
	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T17:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.CorrectEntry(asManager(), attendance.CorrectionRequest{ID: out.ID, ClockOut: ptr("2024-03-04T07:00:00Z")})
	require.ErrorIs(t, err, attendance.ErrInvalidRange)

	stored, err := f.repo.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.TotalHours)
	assert.Equal(t, time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), *stored.ClockOut)
}

func TestAttendanceService_MarkAbsent(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.MarkAbsent(asManager(), attendance.MarkAbsentRequest{EmployeeID: "emp-1", Date: "2024-03-05"})
	require.NoError(t, err)
	assert.Equal(t, "ABSENT", got.Status)
	assert.Nil(t, got.ClockIn)

	_, err = f.svc.MarkAbsent(asManager(), attendance.MarkAbsentRequest{EmployeeID: "emp-1", Date: "2024-03-05"})
	assert.ErrorIs(t, err, attendance.ErrDuplicateEntry)
}

func TestAttendanceService_CloseStaleEntries(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ClockIn(asEmployee("emp-1"), attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-03T08:00:00Z")})
	require.NoError(t, err)
	fresh, err := f.svc.ClockIn(asManager(), attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T16:00:00Z")})
	require.NoError(t, err)

	ctx := authz.WithSubject(context.Background(), authz.SystemSubject())
	got, err := f.svc.CloseStaleEntries(ctx, fixedNow, 16*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Closed)

	open, err := f.repo.GetOpenEntry(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, open.ID)
}

func TestAttendanceService_ListEntries_ScopedToSelf(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ClockIn(asEmployee("emp-1"), attendance.ClockInRequest{EmployeeID: "emp-1", Timestamp: ptr("2024-03-04T08:00:00Z")})
	require.NoError(t, err)

	_, err = f.svc.ListEntries(asEmployee("emp-1"), attendance.TimeEntryFilter{})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	got, err := f.svc.ListEntries(asEmployee("emp-1"), attendance.TimeEntryFilter{EmployeeID: ptr("emp-1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalCount)
	assert.Equal(t, 1, got.TotalPages)
	assert.Len(t, got.Entries, 1)
}
