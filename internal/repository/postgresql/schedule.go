package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Periods and their ranges are owned by the schedule and stored with it as JSONB.
type periodRow struct {
	Name       string     `json:"name"`
	Start      int        `json:"start_minute"`
	End        int        `json:"end_minute"`
	PeriodType string     `json:"period_type"`
	Ranges     []rangeRow `json:"ranges"`
}

type rangeRow struct {
	Name                 string          `json:"name"`
	Start                int             `json:"start_minute"`
	End                  int             `json:"end_minute"`
	RangeType            string          `json:"range_type"`
	Multiplier           decimal.Decimal `json:"multiplier"`
	MultiplierOverridden bool            `json:"multiplier_overridden"`
}

func encodePeriods(periods []schedule.Period) ([]byte, error) {
	rows := make([]periodRow, 0, len(periods))
	for _, p := range periods {
		pr := periodRow{
			Name:       p.Name,
			Start:      int(p.Start),
			End:        int(p.End),
			PeriodType: string(p.PeriodType),
			Ranges:     make([]rangeRow, 0, len(p.Ranges)),
		}
		for _, tr := range p.Ranges {
			pr.Ranges = append(pr.Ranges, rangeRow{
				Name:                 tr.Name,
				Start:                int(tr.Start),
				End:                  int(tr.End),
				RangeType:            string(tr.RangeType),
				Multiplier:           tr.Multiplier,
				MultiplierOverridden: tr.MultiplierOverridden,
			})
		}
		rows = append(rows, pr)
	}
	return json.Marshal(rows)
}

func decodePeriods(raw []byte) ([]schedule.Period, error) {
	var rows []periodRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	periods := make([]schedule.Period, 0, len(rows))
	for _, pr := range rows {
		p := schedule.Period{
			Name:       pr.Name,
			Start:      schedule.TimeOfDay(pr.Start),
			End:        schedule.TimeOfDay(pr.End),
			PeriodType: schedule.PeriodType(pr.PeriodType),
		}
		for _, rr := range pr.Ranges {
			p.Ranges = append(p.Ranges, schedule.TimeRange{
				Name:                 rr.Name,
				Start:                schedule.TimeOfDay(rr.Start),
				End:                  schedule.TimeOfDay(rr.End),
				RangeType:            schedule.RangeType(rr.RangeType),
				Multiplier:           rr.Multiplier,
				MultiplierOverridden: rr.MultiplierOverridden,
			})
		}
		periods = append(periods, p)
	}
	return periods, nil
}

const scheduleColumns = `
	id, label, abbreviation, schedule_type, start_minute, end_minute, break_minutes,
	theoretical_day_hours, periods, created_at, updated_at`

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var (
		s          schedule.Schedule
		start, end int
		periods    []byte
	)
	err := row.Scan(
		&s.ID,
		&s.Label,
		&s.Abbreviation,
		&s.ScheduleType,
		&start,
		&end,
		&s.BreakMinutes,
		&s.TheoreticalDayHours,
		&periods,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, err
	}
	s.Start, s.End = schedule.TimeOfDay(start), schedule.TimeOfDay(end)
	if s.Periods, err = decodePeriods(periods); err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to decode periods of schedule %s: %w", s.ID, err)
	}
	return s, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	periods, err := encodePeriods(s.Periods)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to encode periods: %w", err)
	}
	query := `
		INSERT INTO schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = q.Exec(ctx, query,
		s.ID, s.Label, s.Abbreviation, s.ScheduleType, int(s.Start), int(s.End), s.BreakMinutes,
		s.TheoreticalDayHours, periods, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to insert schedule: %w", err)
	}
	return s, nil
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Update(ctx context.Context, s schedule.Schedule) error {
	q := GetQuerier(ctx, r.db)

	periods, err := encodePeriods(s.Periods)
	if err != nil {
		return fmt.Errorf("failed to encode periods: %w", err)
	}
	query := `
		UPDATE schedules
		SET label = $2, abbreviation = $3, schedule_type = $4, start_minute = $5, end_minute = $6,
			break_minutes = $7, theoretical_day_hours = $8, periods = $9, updated_at = $10
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, s.Label, s.Abbreviation, s.ScheduleType, int(s.Start), int(s.End),
		s.BreakMinutes, s.TheoreticalDayHours, periods, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	if !isUUID(id) {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	q := GetQuerier(ctx, r.db)

	s, err := scanSchedule(q.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, err
	}
	return s, nil
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) List(ctx context.Context) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []schedule.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

const workCycleColumns = `
	id, name, cycle_type, cycle_days, weekly_hours, overtime_threshold, schedule_id, created_at, updated_at`

type workCycleRepositoryImpl struct {
	db *database.DB
}

func NewWorkCycleRepository(db *database.DB) schedule.WorkCycleRepository {
	return &workCycleRepositoryImpl{db: db}
}

func scanWorkCycle(row pgx.Row) (schedule.WorkCycle, error) {
	var w schedule.WorkCycle
	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.CycleType,
		&w.CycleDays,
		&w.WeeklyHours,
		&w.OvertimeThreshold,
		&w.ScheduleID,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	return w, err
}

// Create implements schedule.WorkCycleRepository.
func (r *workCycleRepositoryImpl) Create(ctx context.Context, w schedule.WorkCycle) (schedule.WorkCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_cycles (` + workCycleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		w.ID, w.Name, w.CycleType, w.CycleDays, w.WeeklyHours, w.OvertimeThreshold, w.ScheduleID, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return schedule.WorkCycle{}, fmt.Errorf("failed to insert work cycle: %w", err)
	}
	return w, nil
}

// GetByID implements schedule.WorkCycleRepository.
func (r *workCycleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.WorkCycle, error) {
	if !isUUID(id) {
		return schedule.WorkCycle{}, schedule.ErrWorkCycleNotFound
	}
	q := GetQuerier(ctx, r.db)

	w, err := scanWorkCycle(q.QueryRow(ctx, `SELECT `+workCycleColumns+` FROM work_cycles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkCycle{}, schedule.ErrWorkCycleNotFound
		}
		return schedule.WorkCycle{}, err
	}
	return w, nil
}

// List implements schedule.WorkCycleRepository.
func (r *workCycleRepositoryImpl) List(ctx context.Context) ([]schedule.WorkCycle, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+workCycleColumns+` FROM work_cycles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cycles := []schedule.WorkCycle{}
	for rows.Next() {
		w, err := scanWorkCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, w)
	}
	return cycles, rows.Err()
}
