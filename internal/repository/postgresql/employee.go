package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_code, full_name, category, work_cycle_id, active, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.EmployeeCode,
		&e.FullName,
		&e.Category,
		&e.WorkCycleID,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !isUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.ActiveOnly {
		baseWhere += " AND active"
	}
	if filter.WorkCycleID != nil {
		baseWhere += fmt.Sprintf(" AND work_cycle_id = $%d", argIdx)
		args = append(args, *filter.WorkCycleID)
	}

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees `+baseWhere+` ORDER BY employee_code`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateWorkCycle implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateWorkCycle(ctx context.Context, employeeID string, workCycleID *string) error {
	if !isUUID(employeeID) {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET work_cycle_id = $2, updated_at = NOW() WHERE id = $1`, employeeID, workCycleID)
	if err != nil {
		return fmt.Errorf("failed to assign work cycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
