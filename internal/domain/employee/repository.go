package employee

import "context"

type EmployeeFilter struct {
	ActiveOnly  bool
	WorkCycleID *string
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	UpdateWorkCycle(ctx context.Context, employeeID string, workCycleID *string) error
}
