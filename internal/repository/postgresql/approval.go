package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// decide applies d to a PENDING row of table as a compare-and-swap. A row that exists
// but is no longer PENDING yields approval.ErrAlreadyDecided.
func decide(ctx context.Context, q database.Querier, table, id string, d approval.Decision, notFound error) error {
	if !isUUID(id) {
		return notFound
	}
	var reason *string
	if d.Status == approval.StatusRejected {
		reason = d.Reason
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, updated_at = $4
		WHERE id = $1 AND status = $6
	`, table)
	tag, err := q.Exec(ctx, query, id, d.Status, d.DecidedBy, d.DecidedAt, reason, approval.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return notFound
	}
	return approval.ErrAlreadyDecided
}

// ========== ABSENCES ==========

const absenceColumns = `
	id, employee_id, absence_type, start_date, end_date, days, reason, status,
	approved_by, approved_at, rejection_reason, created_at, updated_at`

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var a absence.Absence
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.AbsenceType,
		&a.StartDate,
		&a.EndDate,
		&a.Days,
		&a.Reason,
		&a.Status,
		&a.ApprovedBy,
		&a.ApprovedAt,
		&a.RejectionReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func collectAbsences(rows pgx.Rows) ([]absence.Absence, error) {
	defer rows.Close()
	absences := []absence.Absence{}
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absences (` + absenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := q.Exec(ctx, query,
		a.ID, a.EmployeeID, a.AbsenceType, a.StartDate, a.EndDate, a.Days, a.Reason, a.Status,
		a.ApprovedBy, a.ApprovedAt, a.RejectionReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to insert absence: %w", err)
	}
	return a, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	if !isUUID(id) {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	q := GetQuerier(ctx, r.db)

	a, err := scanAbsence(q.QueryRow(ctx, `SELECT `+absenceColumns+` FROM absences WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, err
	}
	return a, nil
}

// UpdatePending implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) UpdatePending(ctx context.Context, a absence.Absence) error {
	if !isUUID(a.ID) {
		return absence.ErrAbsenceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET absence_type = $2, start_date = $3, end_date = $4, days = $5, reason = $6, updated_at = $7
		WHERE id = $1 AND status = $8
	`
	tag, err := q.Exec(ctx, query, a.ID, a.AbsenceType, a.StartDate, a.EndDate, a.Days, a.Reason, a.UpdatedAt, approval.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update absence: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, a.ID); err != nil {
		return err
	}
	return approval.ErrImmutableState
}

// Decide implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Decide(ctx context.Context, id string, d approval.Decision) error {
	return decide(ctx, GetQuerier(ctx, r.db), "absences", id, d, absence.ErrAbsenceNotFound)
}

// FindOverlapping implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) FindOverlapping(ctx context.Context, employeeID *string, start, end time.Time) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE end_date >= $1 AND start_date <= $2 AND ($3::uuid IS NULL OR employee_id = $3)
		ORDER BY start_date
	`
	rows, err := q.Query(ctx, query, start, end, employeeID)
	if err != nil {
		return nil, err
	}
	return collectAbsences(rows)
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, int64, error) {
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
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND end_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND start_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM absences "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absences: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM absences %s
		ORDER BY start_date DESC
		LIMIT $%d OFFSET $%d
	`, absenceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	absences, err := collectAbsences(rows)
	if err != nil {
		return nil, 0, err
	}
	return absences, total, nil
}

// ========== EXTRA HOURS ==========

const extraHoursColumns = `
	id, kind, employee_id, date, hours, rate_category, hour_type, multiplier, multiplier_overridden,
	reason, status, approved_by, approved_at, rejection_reason, created_at, updated_at`

type extraHoursRepositoryImpl struct {
	db *database.DB
}

func NewExtraHoursRepository(db *database.DB) extrahours.RecordRepository {
	return &extraHoursRepositoryImpl{db: db}
}

func scanRecord(row pgx.Row) (extrahours.Record, error) {
	var rec extrahours.Record
	err := row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.EmployeeID,
		&rec.Date,
		&rec.Hours,
		&rec.RateCategory,
		&rec.HourType,
		&rec.Multiplier,
		&rec.MultiplierOverridden,
		&rec.Reason,
		&rec.Status,
		&rec.ApprovedBy,
		&rec.ApprovedAt,
		&rec.RejectionReason,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]extrahours.Record, error) {
	defer rows.Close()
	records := []extrahours.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) Create(ctx context.Context, rec extrahours.Record) (extrahours.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO extra_hours (` + extraHoursColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := q.Exec(ctx, query,
		rec.ID, rec.Kind, rec.EmployeeID, rec.Date, rec.Hours, rec.RateCategory, rec.HourType, rec.Multiplier,
		rec.MultiplierOverridden, rec.Reason, rec.Status, rec.ApprovedBy, rec.ApprovedAt, rec.RejectionReason,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return extrahours.Record{}, fmt.Errorf("failed to insert extra-hours record: %w", err)
	}
	return rec, nil
}

// GetByID implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) GetByID(ctx context.Context, id string) (extrahours.Record, error) {
	if !isUUID(id) {
		return extrahours.Record{}, extrahours.ErrRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+extraHoursColumns+` FROM extra_hours WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return extrahours.Record{}, extrahours.ErrRecordNotFound
		}
		return extrahours.Record{}, err
	}
	return rec, nil
}

// UpdatePending implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) UpdatePending(ctx context.Context, rec extrahours.Record) error {
	if !isUUID(rec.ID) {
		return extrahours.ErrRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE extra_hours
		SET date = $2, hours = $3, rate_category = $4, hour_type = $5, multiplier = $6,
			multiplier_overridden = $7, reason = $8, updated_at = $9
		WHERE id = $1 AND status = $10
	`
	tag, err := q.Exec(ctx, query,
		rec.ID, rec.Date, rec.Hours, rec.RateCategory, rec.HourType, rec.Multiplier,
		rec.MultiplierOverridden, rec.Reason, rec.UpdatedAt, approval.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update extra-hours record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, rec.ID); err != nil {
		return err
	}
	return approval.ErrImmutableState
}

// Decide implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) Decide(ctx context.Context, id string, d approval.Decision) error {
	return decide(ctx, GetQuerier(ctx, r.db), "extra_hours", id, d, extrahours.ErrRecordNotFound)
}

// FindByDateRange implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) FindByDateRange(ctx context.Context, employeeID *string, start, end time.Time) ([]extrahours.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + extraHoursColumns + `
		FROM extra_hours
		WHERE date BETWEEN $1 AND $2 AND ($3::uuid IS NULL OR employee_id = $3)
		ORDER BY date, created_at
	`
	rows, err := q.Query(ctx, query, start, end, employeeID)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// List implements extrahours.RecordRepository.
func (r *extraHoursRepositoryImpl) List(ctx context.Context, filter extrahours.RecordFilter) ([]extrahours.Record, int64, error) {
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
	if filter.Kind != nil {
		baseWhere += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
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

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM extra_hours "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count extra-hours records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM extra_hours %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, extraHoursColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
