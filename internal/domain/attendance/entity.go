package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusCompleted  Status = "COMPLETED"
	StatusIncomplete Status = "INCOMPLETE"
	StatusAbsent     Status = "ABSENT"
)

var StatusValues = []Status{StatusPending, StatusCompleted, StatusIncomplete, StatusAbsent}

var statusVocab = vocab.NewTable("time entry status", map[string][]string{
	"PENDING":    {"EN_ATTENTE", "EN_COURS", "OPEN"},
	"COMPLETED":  {"TERMINE", "COMPLET", "COMPLETE"},
	"INCOMPLETE": {"INCOMPLET"},
	"ABSENT":     {"ABSENTE", "ABSENCE"},
})

func ParseStatus(raw string) (Status, error) {
	s, err := statusVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// IsTerminal reports whether the entry no longer accepts a clock-out.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// TimeEntry is one employee's recorded presence for one day. TotalHours is derived from
// the clock times unless HoursOverridden marks a corrected, authoritative value.
type TimeEntry struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	ClockIn         *time.Time
	ClockOut        *time.Time
	TotalHours      float64
	HoursOverridden bool
	Status          Status
	IsValidated     bool
	ValidatedAt     *time.Time
	ValidatedBy     *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DayOf returns the calendar date of t, in t's own location, as UTC midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewPending opens a day's entry at clockIn.
func NewPending(employeeID string, clockIn time.Time) TimeEntry {
	in := clockIn.UTC()
	return TimeEntry{
		EmployeeID: employeeID,
		Date:       DayOf(clockIn),
		ClockIn:    &in,
		Status:     StatusPending,
	}
}

// NewAbsent is an explicit absence marker with no clock events.
func NewAbsent(employeeID string, date time.Time) TimeEntry {
	return TimeEntry{
		EmployeeID: employeeID,
		Date:       DayOf(date),
		Status:     StatusAbsent,
	}
}

// DerivedHours computes rounded hours from the clock times.
func (e TimeEntry) DerivedHours() (float64, bool) {
	if e.ClockIn == nil || e.ClockOut == nil {
		return 0, false
	}
	return hours.Round2(hours.Between(*e.ClockIn, *e.ClockOut)), true
}

func statusForHours(h float64) Status {
	if h > 0 {
		return StatusCompleted
	}
	return StatusIncomplete
}

// Close records the clock-out of an open entry.
func (e *TimeEntry) Close(clockOut time.Time) error {
	if e.Status != StatusPending || e.ClockIn == nil {
		return ErrNoOpenEntry
	}
	out := clockOut.UTC()
	e.ClockOut = &out
	e.TotalHours, _ = e.DerivedHours()
	e.HoursOverridden = false
	e.Status = statusForHours(e.TotalHours)
	return nil
}

// Abandon closes an open entry that never received a clock-out.
func (e *TimeEntry) Abandon() error {
	if e.Status != StatusPending {
		return ErrNoOpenEntry
	}
	e.Status = StatusIncomplete
	e.TotalHours = 0
	e.HoursOverridden = false
	return nil
}

// IsStale reports an open entry whose clock-in is older than the grace window.
func (e TimeEntry) IsStale(now time.Time, grace time.Duration) bool {
	return e.Status == StatusPending && e.ClockIn != nil && now.Sub(*e.ClockIn) > grace
}

// Correction is a privileged manual edit. Nil fields are left unchanged.
type Correction struct {
	ClockIn    *time.Time
	ClockOut   *time.Time
	TotalHours *float64
	Status     *Status
	Notes      *string
}

// ApplyCorrection edits the entry in place or leaves it untouched on error.
// Supplied hours are authoritative; supplied clock times without hours re-derive them.
// Any correction clears the validation flag.
func (e *TimeEntry) ApplyCorrection(c Correction) error {
	next := *e
	clockChanged := c.ClockIn != nil || c.ClockOut != nil

	if c.ClockIn != nil {
		in := c.ClockIn.UTC()
		next.ClockIn = &in
	}
	if c.ClockOut != nil {
		out := c.ClockOut.UTC()
		next.ClockOut = &out
	}
	if clockChanged && next.ClockIn != nil && next.ClockOut != nil && !next.ClockOut.After(*next.ClockIn) {
		return ErrInvalidRange
	}

	derivedStatus := false
	switch {
	case c.TotalHours != nil:
		if *c.TotalHours < 0 {
			return ErrNegativeHours
		}
		next.TotalHours = hours.Round2(*c.TotalHours)
		next.HoursOverridden = true
		derivedStatus = true
	case clockChanged:
		if h, ok := next.DerivedHours(); ok {
			next.TotalHours = h
			next.HoursOverridden = false
			derivedStatus = true
		}
	}

	switch {
	case c.Status != nil:
		next.Status = *c.Status
	case derivedStatus:
		next.Status = statusForHours(next.TotalHours)
	}

	if c.Notes != nil {
		next.Notes = c.Notes
	}

	next.IsValidated = false
	next.ValidatedAt = nil
	next.ValidatedBy = nil
	*e = next
	return nil
}

// RecomputeHours re-derives TotalHours from the clock times and drops an override.
// A closed entry's status follows the new hours.
func (e *TimeEntry) RecomputeHours() bool {
	h, ok := e.DerivedHours()
	if !ok {
		return false
	}
	e.TotalHours = h
	e.HoursOverridden = false
	if e.Status == StatusCompleted || e.Status == StatusIncomplete {
		e.Status = statusForHours(h)
	}
	return true
}

// ClampTo moves the clock times inside [earliest, latest]. It refuses a clamp that
// would leave clock-out at or before clock-in.
func (e *TimeEntry) ClampTo(earliest, latest time.Time) bool {
	if e.ClockIn == nil || e.ClockOut == nil {
		return false
	}
	in, out := *e.ClockIn, *e.ClockOut
	if in.Before(earliest) {
		in = earliest.UTC()
	}
	if out.After(latest) {
		out = latest.UTC()
	}
	if !out.After(in) {
		return false
	}
	e.ClockIn, e.ClockOut = &in, &out
	if !e.HoursOverridden {
		e.RecomputeHours()
	}
	return true
}

// MarkValidated is called by the validation engine only.
func (e *TimeEntry) MarkValidated(by string, at time.Time) {
	at = at.UTC()
	e.IsValidated = true
	e.ValidatedAt = &at
	e.ValidatedBy = &by
}
