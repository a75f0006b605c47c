package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type employeeRepository struct{ s *Store }

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.s.rlock(ctx)()
	e, ok := r.s.t.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	defer r.s.rlock(ctx)()

	var out []employee.Employee
	for _, e := range r.s.t.employees {
		if filter.ActiveOnly && !e.Active {
			continue
		}
		if filter.WorkCycleID != nil && (e.WorkCycleID == nil || *e.WorkCycleID != *filter.WorkCycleID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *employeeRepository) UpdateWorkCycle(ctx context.Context, employeeID string, workCycleID *string) error {
	defer r.s.lock(ctx)()
	e, ok := r.s.t.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.WorkCycleID = workCycleID
	r.s.t.employees[employeeID] = e
	return nil
}
