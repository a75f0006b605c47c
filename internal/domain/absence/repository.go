package absence

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
)

type AbsenceRepository interface {
	Create(ctx context.Context, a Absence) (Absence, error)

	GetByID(ctx context.Context, id string) (Absence, error)

	// UpdatePending writes requester edits only while the stored status is still PENDING,
	// otherwise approval.ErrImmutableState
	UpdatePending(ctx context.Context, a Absence) error

	// Decide moves a PENDING record to the decision's status as a compare-and-swap,
	// otherwise approval.ErrAlreadyDecided
	Decide(ctx context.Context, id string, d approval.Decision) error

	// FindOverlapping returns absences sharing a day with [start, end], optionally for one employee
	FindOverlapping(ctx context.Context, employeeID *string, start, end time.Time) ([]Absence, error)

	List(ctx context.Context, filter AbsenceFilter) ([]Absence, int64, error)
}
