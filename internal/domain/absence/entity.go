package absence

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

type Type string

const (
	TypeVacation Type = "VACATION"
	TypeSick     Type = "SICK"
	TypePersonal Type = "PERSONAL"
	TypeUnpaid   Type = "UNPAID"
	TypeTraining Type = "TRAINING"
	TypeOther    Type = "OTHER"
)

var typeVocab = vocab.NewTable("absence type", map[string][]string{
	"VACATION": {"CONGES", "CONGE", "CONGES_PAYES", "VACANCES"},
	"SICK":     {"MALADIE", "ARRET_MALADIE"},
	"PERSONAL": {"PERSONNEL", "PERSONNELLE"},
	"UNPAID":   {"SANS_SOLDE", "NON_PAYE"},
	"TRAINING": {"FORMATION"},
	"OTHER":    {"AUTRE"},
})

func ParseType(raw string) (Type, error) {
	s, err := typeVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return Type(s), nil
}

// Absence is a date-ranged leave request. Days is derived from the range.
type Absence struct {
	ID              string
	EmployeeID      string
	AbsenceType     Type
	StartDate       time.Time
	EndDate         time.Time
	Days            int
	Reason          *string
	Status          approval.Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts calendar days from start to end, both included, after normalizing
// each date to UTC midnight. An end before start is invalid.
func InclusiveDays(start, end time.Time) (int, error) {
	diff := utcMidnight(end).Sub(utcMidnight(start))
	if diff < 0 {
		return 0, ErrInvalidDateRange
	}
	return int(diff/(24*time.Hour)) + 1, nil
}

// SetRange updates the dates and recomputes Days.
func (a *Absence) SetRange(start, end time.Time) error {
	days, err := InclusiveDays(start, end)
	if err != nil {
		return err
	}
	a.StartDate = utcMidnight(start)
	a.EndDate = utcMidnight(end)
	a.Days = days
	return nil
}

// Overlaps reports whether the absence shares at least one day with [start, end].
func (a Absence) Overlaps(start, end time.Time) bool {
	return !a.EndDate.Before(utcMidnight(start)) && !a.StartDate.After(utcMidnight(end))
}

// Apply records an approver decision on a pending absence. ApprovedBy and ApprovedAt
// hold the decider for rejections too.
func (a *Absence) Apply(d approval.Decision) error {
	if err := approval.CheckTransition(a.Status); err != nil {
		return err
	}
	a.Status = d.Status
	a.ApprovedBy = &d.DecidedBy
	a.ApprovedAt = &d.DecidedAt
	if d.Status == approval.StatusRejected {
		a.RejectionReason = d.Reason
	}
	return nil
}
