package extrahours

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
)

type RecordRepository interface {
	Create(ctx context.Context, r Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	// UpdatePending writes requester edits only while the stored status is still PENDING,
	// otherwise approval.ErrImmutableState
	UpdatePending(ctx context.Context, r Record) error

	// Decide moves a PENDING record to the decision's status as a compare-and-swap,
	// otherwise approval.ErrAlreadyDecided
	Decide(ctx context.Context, id string, d approval.Decision) error

	// FindByDateRange returns records dated within [start, end], optionally for one employee
	FindByDateRange(ctx context.Context, employeeID *string, start, end time.Time) ([]Record, error)

	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)
}
