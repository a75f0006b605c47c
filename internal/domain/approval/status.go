// Package approval holds the request/decision state machine shared by absences and
// extra-hours records.
package approval

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var StatusValues = []Status{StatusPending, StatusApproved, StatusRejected}

var statusVocab = vocab.NewTable("approval status", map[string][]string{
	"PENDING":  {"EN_ATTENTE", "WAITING_APPROVAL"},
	"APPROVED": {"APPROUVE", "APPROUVEE", "ACCEPTE"},
	"REJECTED": {"REJETE", "REJETEE", "REFUSE"},
})

// ParseStatus normalizes either vocabulary to the canonical status.
func ParseStatus(raw string) (Status, error) {
	s, err := statusVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var (
	ErrAlreadyDecided  = errors.New("record has already been approved or rejected")
	ErrImmutableState  = errors.New("record can only be modified while pending")
	ErrInvalidDecision = errors.New("decision must be APPROVED or REJECTED")
)

// Decision is the terminal transition applied by an approver.
type Decision struct {
	Status    Status
	DecidedBy string
	DecidedAt time.Time
	Reason    *string
}

// NewDecision validates that the target status is terminal.
func NewDecision(status Status, decidedBy string, at time.Time, reason *string) (Decision, error) {
	if !status.IsTerminal() {
		return Decision{}, ErrInvalidDecision
	}
	return Decision{Status: status, DecidedBy: decidedBy, DecidedAt: at.UTC(), Reason: reason}, nil
}

// CheckTransition reports whether a record currently in from may receive a decision.
func CheckTransition(from Status) error {
	if from.IsTerminal() {
		return ErrAlreadyDecided
	}
	return nil
}

// CheckEditable reports whether a record currently in s may still be edited by its requester.
func CheckEditable(s Status) error {
	if s != StatusPending {
		return ErrImmutableState
	}
	return nil
}
