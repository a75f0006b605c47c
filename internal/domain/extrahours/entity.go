package extrahours

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindOvertime     Kind = "OVERTIME"
	KindSpecialHours Kind = "SPECIAL_HOURS"
)

type HourType string

const (
	HourTypeHoliday    HourType = "HOLIDAY"
	HourTypeNightShift HourType = "NIGHT_SHIFT"
	HourTypeWeekend    HourType = "WEEKEND"
	HourTypeOnCall     HourType = "ON_CALL"
)

var HourTypeValues = []HourType{HourTypeHoliday, HourTypeNightShift, HourTypeWeekend, HourTypeOnCall}

var hourTypeVocab = vocab.NewTable("special hour type", map[string][]string{
	"HOLIDAY":     {"FERIE", "JOUR_FERIE"},
	"NIGHT_SHIFT": {"NUIT", "TRAVAIL_DE_NUIT"},
	"WEEKEND":     {"FIN_DE_SEMAINE", "WEEK_END"},
	"ON_CALL":     {"ASTREINTE"},
})

func ParseHourType(raw string) (HourType, error) {
	s, err := hourTypeVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return HourType(s), nil
}

// RateCategory maps a special hour type onto the rate table category that sets its
// default multiplier.
func (h HourType) RateCategory() schedule.RangeType {
	switch h {
	case HourTypeHoliday:
		return schedule.RangeTypeHoliday
	case HourTypeNightShift:
		return schedule.RangeTypeNightShift
	case HourTypeWeekend:
		return schedule.RangeTypeSunday
	default:
		return schedule.RangeTypeSpecial
	}
}

// Record is a declared block of overtime or special hours on a date.
type Record struct {
	ID                   string
	Kind                 Kind
	EmployeeID           string
	Date                 time.Time
	Hours                float64
	RateCategory         schedule.RangeType
	HourType             *HourType
	Multiplier           decimal.Decimal
	MultiplierOverridden bool
	Reason               *string
	Status               approval.Status
	ApprovedBy           *string
	ApprovedAt           *time.Time
	RejectionReason      *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewOvertime declares overtime. A nil override uses the category default.
func NewOvertime(employeeID string, date time.Time, h float64, category schedule.RangeType, override *decimal.Decimal) (Record, error) {
	if category == "" {
		category = schedule.RangeTypeOvertime
	}
	r := Record{
		Kind:         KindOvertime,
		EmployeeID:   employeeID,
		Date:         dayOf(date),
		Hours:        h,
		RateCategory: category,
		Status:       approval.StatusPending,
	}
	return r, r.setRate(override)
}

// NewSpecialHours declares hours bucketed by hourType.
func NewSpecialHours(employeeID string, date time.Time, h float64, hourType HourType, override *decimal.Decimal) (Record, error) {
	ht := hourType
	r := Record{
		Kind:         KindSpecialHours,
		EmployeeID:   employeeID,
		Date:         dayOf(date),
		Hours:        h,
		RateCategory: hourType.RateCategory(),
		HourType:     &ht,
		Status:       approval.StatusPending,
	}
	return r, r.setRate(override)
}

func (r *Record) setRate(override *decimal.Decimal) error {
	if r.Hours <= 0 {
		return ErrNonPositiveHours
	}
	if override != nil {
		if !override.IsPositive() {
			return ErrNonPositiveMultiplier
		}
		r.Multiplier = *override
		r.MultiplierOverridden = true
		return nil
	}
	r.Multiplier = r.RateCategory.DefaultMultiplier()
	r.MultiplierOverridden = false
	return nil
}

// Revision is a requester edit of a pending record. Nil fields are left unchanged.
type Revision struct {
	Date         *time.Time
	Hours        *float64
	RateCategory *schedule.RangeType
	HourType     *HourType
	Multiplier   *decimal.Decimal
	Reason       *string
}

// Revise applies rev to a PENDING record and recomputes the rate. An overridden
// multiplier survives unless rev names a new one.
func (r *Record) Revise(rev Revision) error {
	if err := approval.CheckEditable(r.Status); err != nil {
		return err
	}
	if rev.RateCategory != nil && r.Kind != KindOvertime {
		return ErrFieldNotApplicable
	}
	if rev.HourType != nil && r.Kind != KindSpecialHours {
		return ErrFieldNotApplicable
	}

	next := *r
	if rev.Date != nil {
		next.Date = dayOf(*rev.Date)
	}
	if rev.Hours != nil {
		next.Hours = *rev.Hours
	}
	if rev.RateCategory != nil {
		next.RateCategory = *rev.RateCategory
	}
	if rev.HourType != nil {
		ht := *rev.HourType
		next.HourType = &ht
		next.RateCategory = ht.RateCategory()
	}
	if rev.Reason != nil {
		next.Reason = rev.Reason
	}

	override := rev.Multiplier
	if override == nil && r.MultiplierOverridden {
		m := r.Multiplier
		override = &m
	}
	if err := next.setRate(override); err != nil {
		return err
	}
	*r = next
	return nil
}

// WeightedHours is hours × multiplier, unrounded.
func (r Record) WeightedHours() float64 {
	return hours.Weighted(r.Hours, r.Multiplier)
}

// Apply records an approver decision on a pending record.
func (r *Record) Apply(d approval.Decision) error {
	if err := approval.CheckTransition(r.Status); err != nil {
		return err
	}
	r.Status = d.Status
	r.ApprovedBy = &d.DecidedBy
	r.ApprovedAt = &d.DecidedAt
	if d.Status == approval.StatusRejected {
		r.RejectionReason = d.Reason
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
