package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const timeEntryColumns = `
	id, employee_id, date, clock_in, clock_out, total_hours, hours_overridden,
	status, is_validated, validated_at, validated_by, notes, created_at, updated_at`

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) attendance.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

func scanTimeEntry(row pgx.Row) (attendance.TimeEntry, error) {
	var e attendance.TimeEntry
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.Date,
		&e.ClockIn,
		&e.ClockOut,
		&e.TotalHours,
		&e.HoursOverridden,
		&e.Status,
		&e.IsValidated,
		&e.ValidatedAt,
		&e.ValidatedBy,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func collectTimeEntries(rows pgx.Rows) ([]attendance.TimeEntry, error) {
	defer rows.Close()
	entries := []attendance.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry attendance.TimeEntry) (attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (` + timeEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.EmployeeID, entry.Date, entry.ClockIn, entry.ClockOut, entry.TotalHours, entry.HoursOverridden,
		entry.Status, entry.IsValidated, entry.ValidatedAt, entry.ValidatedBy, entry.Notes, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.TimeEntry{}, attendance.ErrDuplicateEntry
		}
		return attendance.TimeEntry{}, fmt.Errorf("failed to insert time entry: %w", err)
	}
	return entry, nil
}

const updateTimeEntryQuery = `
	UPDATE time_entries
	SET clock_in = $2, clock_out = $3, total_hours = $4, hours_overridden = $5, status = $6,
		is_validated = $7, validated_at = $8, validated_by = $9, notes = $10, updated_at = $11
	WHERE id = $1`

func (r *timeEntryRepositoryImpl) exec(ctx context.Context, query string, entry attendance.TimeEntry, extra ...any) (int64, error) {
	q := GetQuerier(ctx, r.db)

	args := append([]any{
		entry.ID, entry.ClockIn, entry.ClockOut, entry.TotalHours, entry.HoursOverridden, entry.Status,
		entry.IsValidated, entry.ValidatedAt, entry.ValidatedBy, entry.Notes, entry.UpdatedAt,
	}, extra...)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, attendance.ErrDuplicateEntry
		}
		return 0, fmt.Errorf("failed to update time entry: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Update implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Update(ctx context.Context, entry attendance.TimeEntry) error {
	n, err := r.exec(ctx, updateTimeEntryQuery, entry)
	if err != nil {
		return err
	}
	if n == 0 {
		return attendance.ErrTimeEntryNotFound
	}
	return nil
}

// ClosePending implements attendance.TimeEntryRepository. A row that is no longer
// PENDING is left untouched.
func (r *timeEntryRepositoryImpl) ClosePending(ctx context.Context, entry attendance.TimeEntry) error {
	n, err := r.exec(ctx, updateTimeEntryQuery+` AND status = $12`, entry, attendance.StatusPending)
	if err != nil {
		return err
	}
	if n == 0 {
		return attendance.ErrNoOpenEntry
	}
	return nil
}

// Delete implements attendance.TimeEntryRepository. The stored validation report goes
// with the entry.
func (r *timeEntryRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return attendance.ErrTimeEntryNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrTimeEntryNotFound
	}
	return nil
}

// GetByID implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.TimeEntry, error) {
	if !isUUID(id) {
		return attendance.TimeEntry{}, attendance.ErrTimeEntryNotFound
	}
	q := GetQuerier(ctx, r.db)

	e, err := scanTimeEntry(q.QueryRow(ctx, `SELECT `+timeEntryColumns+` FROM time_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.TimeEntry{}, attendance.ErrTimeEntryNotFound
		}
		return attendance.TimeEntry{}, err
	}
	return e, nil
}

// GetOpenEntry implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetOpenEntry(ctx context.Context, employeeID string) (attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE employee_id = $1 AND status = $2
		ORDER BY clock_in DESC
		LIMIT 1
		FOR UPDATE
	`
	e, err := scanTimeEntry(q.QueryRow(ctx, query, employeeID, attendance.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.TimeEntry{}, attendance.ErrNoOpenEntry
		}
		return attendance.TimeEntry{}, err
	}
	return e, nil
}

// FindByEmployeeAndDateRange implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) FindByEmployeeAndDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, clock_in NULLS FIRST
	`
	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	return collectTimeEntries(rows)
}

// FindByDateRange implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) FindByDateRange(ctx context.Context, start, end time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, employee_id, clock_in NULLS FIRST
	`
	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	return collectTimeEntries(rows)
}

// FindStalePending implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) FindStalePending(ctx context.Context, clockInBefore time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE status = $1 AND clock_in < $2
		ORDER BY clock_in
	`
	rows, err := q.Query(ctx, query, attendance.StatusPending, clockInBefore)
	if err != nil {
		return nil, err
	}
	return collectTimeEntries(rows)
}

// List implements attendance.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) List(ctx context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		if !isUUID(*filter.EmployeeID) {
			return nil, 0, nil
		}
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM time_entries "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM time_entries
		%s
		ORDER BY date %s, created_at %s
		LIMIT $%d OFFSET $%d
	`, timeEntryColumns, baseWhere, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	entries, err := collectTimeEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
