package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type validationReportRepositoryImpl struct {
	db *database.DB
}

func NewValidationReportRepository(db *database.DB) validation.ReportRepository {
	return &validationReportRepositoryImpl{db: db}
}

// Save implements validation.ReportRepository.
func (r *validationReportRepositoryImpl) Save(ctx context.Context, rep validation.Report) error {
	q := GetQuerier(ctx, r.db)

	results, err := json.Marshal(rep.Results)
	if err != nil {
		return fmt.Errorf("failed to encode rule results: %w", err)
	}
	corrections := rep.CorrectionsApplied
	if corrections == nil {
		corrections = []string{}
	}
	applied, err := json.Marshal(corrections)
	if err != nil {
		return fmt.Errorf("failed to encode corrections: %w", err)
	}

	query := `
		INSERT INTO validation_reports (
			entry_id, id, employee_id, date, is_valid, status, results,
			can_auto_correct, corrections_applied, validated, checked_by, checked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (entry_id) DO UPDATE SET
			id = EXCLUDED.id,
			is_valid = EXCLUDED.is_valid,
			status = EXCLUDED.status,
			results = EXCLUDED.results,
			can_auto_correct = EXCLUDED.can_auto_correct,
			corrections_applied = EXCLUDED.corrections_applied,
			validated = EXCLUDED.validated,
			checked_by = EXCLUDED.checked_by,
			checked_at = EXCLUDED.checked_at
	`
	_, err = q.Exec(ctx, query,
		rep.EntryID, rep.ID, rep.EmployeeID, rep.Date, rep.IsValid, rep.Status, results,
		rep.CanAutoCorrect, applied, rep.Validated, rep.CheckedBy, rep.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save validation report: %w", err)
	}
	return nil
}

// GetLatest implements validation.ReportRepository.
func (r *validationReportRepositoryImpl) GetLatest(ctx context.Context, entryID string) (validation.Report, error) {
	if !isUUID(entryID) {
		return validation.Report{}, validation.ErrReportNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT entry_id, id, employee_id, date, is_valid, status, results,
			can_auto_correct, corrections_applied, validated, checked_by, checked_at
		FROM validation_reports
		WHERE entry_id = $1
	`
	var (
		rep              validation.Report
		results, applied []byte
	)
	err := q.QueryRow(ctx, query, entryID).Scan(
		&rep.EntryID,
		&rep.ID,
		&rep.EmployeeID,
		&rep.Date,
		&rep.IsValid,
		&rep.Status,
		&results,
		&rep.CanAutoCorrect,
		&applied,
		&rep.Validated,
		&rep.CheckedBy,
		&rep.CheckedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return validation.Report{}, validation.ErrReportNotFound
		}
		return validation.Report{}, err
	}

	if err := json.Unmarshal(results, &rep.Results); err != nil {
		return validation.Report{}, fmt.Errorf("failed to decode rule results: %w", err)
	}
	if err := json.Unmarshal(applied, &rep.CorrectionsApplied); err != nil {
		return validation.Report{}, fmt.Errorf("failed to decode corrections: %w", err)
	}
	if len(rep.CorrectionsApplied) == 0 {
		rep.CorrectionsApplied = nil
	}
	return rep, nil
}
