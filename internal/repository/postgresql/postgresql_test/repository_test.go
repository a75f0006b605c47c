package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *TestDatabaseSetup

func TestMain(m *testing.M) {
	ctx := context.Background()
	setup, err := NewTestDatabase(ctx)
	if err != nil {
		panic("Failed to connect to test database: " + err.Error())
	}
	testDB = setup

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func setupTestData(t *testing.T) context.Context {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := t.Context()
	require.NoError(t, testDB.TruncateAllTables(ctx))
	return ctx
}

func createTestEmployee(t *testing.T, ctx context.Context, code string, active bool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := testDB.DB.Exec(ctx, `
		INSERT INTO employees (id, employee_code, full_name, category, active)
		VALUES ($1, $2, $3, 'FULL_TIME', $4)
	`, id, code, "Employee "+code, active)
	require.NoError(t, err)
	return id
}

func TestEmployeeRepository_List(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewEmployeeRepository(testDB.DB)

	activeID := createTestEmployee(t, ctx, "E-001", true)
	createTestEmployee(t, ctx, "E-002", false)

	all, err := repo.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, activeID, active[0].ID)
	assert.Equal(t, employee.CategoryFullTime, active[0].Category)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestTimeEntryRepository_OpenEntryLifecycle(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewTimeEntryRepository(testDB.DB)
	empID := createTestEmployee(t, ctx, "E-010", true)

	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	entry := attendance.NewPending(empID, now)
	entry.ID = uuid.NewString()
	entry.CreatedAt, entry.UpdatedAt = now, now

	_, err := repo.Create(ctx, entry)
	require.NoError(t, err)

	dup := attendance.NewPending(empID, now.Add(time.Hour))
	dup.ID = uuid.NewString()
	dup.CreatedAt, dup.UpdatedAt = now, now
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, attendance.ErrDuplicateEntry)

	open, err := repo.GetOpenEntry(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, open.ID)

	stale := open
	require.NoError(t, open.Close(now.Add(9*time.Hour+30*time.Minute)))
	open.UpdatedAt = now.Add(10 * time.Hour)
	require.NoError(t, repo.ClosePending(ctx, open))

	require.NoError(t, stale.Close(now.Add(4*time.Hour)))
	assert.ErrorIs(t, repo.ClosePending(ctx, stale), attendance.ErrNoOpenEntry)

	_, err = repo.GetOpenEntry(ctx, empID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenEntry)

	stored, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCompleted, stored.Status)
	assert.InDelta(t, 9.5, stored.TotalHours, 0.001)

	found, err := repo.FindByEmployeeAndDateRange(ctx, empID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), attendance.ErrTimeEntryNotFound)
}

func TestAbsenceRepository_DecideIsCompareAndSwap(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewAbsenceRepository(testDB.DB)
	empID := createTestEmployee(t, ctx, "E-020", true)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a := absence.Absence{
		ID:          uuid.NewString(),
		EmployeeID:  empID,
		AbsenceType: absence.TypeVacation,
		StartDate:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Days:        5,
		Status:      approval.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)

	overlapping, err := repo.FindOverlapping(ctx, &empID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	d, err := approval.NewDecision(approval.StatusApproved, "manager-1", now.Add(time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Decide(ctx, a.ID, d))

	assert.ErrorIs(t, repo.Decide(ctx, a.ID, d), approval.ErrAlreadyDecided)
	assert.ErrorIs(t, repo.Decide(ctx, uuid.NewString(), d), absence.ErrAbsenceNotFound)

	a.Days = 4
	assert.ErrorIs(t, repo.UpdatePending(ctx, a), approval.ErrImmutableState)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "manager-1", *stored.ApprovedBy)
}
