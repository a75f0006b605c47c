package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayOf returns the wall-clock time of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On returns the instant at this wall-clock time in loc on the calendar date of day.
// A nil loc means UTC.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, loc)
}

type RangeType string

const (
	RangeTypeNormal     RangeType = "NORMAL"
	RangeTypeOvertime   RangeType = "OVERTIME"
	RangeTypeNightShift RangeType = "NIGHT_SHIFT"
	RangeTypeSunday     RangeType = "SUNDAY"
	RangeTypeHoliday    RangeType = "HOLIDAY"
	RangeTypeSpecial    RangeType = "SPECIAL"
)

var RangeTypeValues = []string{
	string(RangeTypeNormal),
	string(RangeTypeOvertime),
	string(RangeTypeNightShift),
	string(RangeTypeSunday),
	string(RangeTypeHoliday),
	string(RangeTypeSpecial),
}

var rangeTypeVocab = vocab.NewTable("range type", map[string][]string{
	"NORMAL":      {"NORMALE", "REGULAR"},
	"OVERTIME":    {"HEURES_SUPPLEMENTAIRES", "HEURE_SUPPLEMENTAIRE", "HS"},
	"NIGHT_SHIFT": {"NUIT", "TRAVAIL_DE_NUIT", "NIGHT"},
	"SUNDAY":      {"DIMANCHE"},
	"HOLIDAY":     {"FERIE", "JOUR_FERIE"},
	"SPECIAL":     {"SPECIALE"},
})

func ParseRangeType(raw string) (RangeType, error) {
	s, err := rangeTypeVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return RangeType(s), nil
}

var defaultMultipliers = map[RangeType]decimal.Decimal{
	RangeTypeNormal:     decimal.NewFromInt(1),
	RangeTypeOvertime:   decimal.RequireFromString("1.25"),
	RangeTypeNightShift: decimal.RequireFromString("1.5"),
	RangeTypeSunday:     decimal.NewFromInt(2),
	RangeTypeHoliday:    decimal.NewFromInt(2),
	RangeTypeSpecial:    decimal.NewFromInt(1),
}

// DefaultMultiplier returns the pay multiplier of the rate category.
func (r RangeType) DefaultMultiplier() decimal.Decimal {
	if m, ok := defaultMultipliers[r]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

type PeriodType string

const (
	PeriodTypeRegular  PeriodType = "REGULAR"
	PeriodTypeBreak    PeriodType = "BREAK"
	PeriodTypeOvertime PeriodType = "OVERTIME"
	PeriodTypeSpecial  PeriodType = "SPECIAL"
)

var periodTypeVocab = vocab.NewTable("period type", map[string][]string{
	"REGULAR":  {"REGULIERE", "REGULIER", "NORMAL"},
	"BREAK":    {"PAUSE"},
	"OVERTIME": {"HEURES_SUPPLEMENTAIRES", "SUPPLEMENTAIRE"},
	"SPECIAL":  {"SPECIALE"},
})

func ParsePeriodType(raw string) (PeriodType, error) {
	s, err := periodTypeVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return PeriodType(s), nil
}

// DefaultMultiplier applies to instants inside the period that no range covers.
// Break time is unpaid.
func (p PeriodType) DefaultMultiplier() decimal.Decimal {
	switch p {
	case PeriodTypeBreak:
		return decimal.Zero
	case PeriodTypeOvertime:
		return RangeTypeOvertime.DefaultMultiplier()
	case PeriodTypeSpecial:
		return RangeTypeSpecial.DefaultMultiplier()
	default:
		return RangeTypeNormal.DefaultMultiplier()
	}
}

type CycleType string

const (
	CycleTypeWeekly   CycleType = "WEEKLY"
	CycleTypeBiweekly CycleType = "BIWEEKLY"
	CycleTypeMonthly  CycleType = "MONTHLY"
	CycleTypeCustom   CycleType = "CUSTOM"
)

var cycleTypeVocab = vocab.NewTable("cycle type", map[string][]string{
	"WEEKLY":   {"HEBDOMADAIRE", "SEMAINE"},
	"BIWEEKLY": {"BIHEBDOMADAIRE", "QUINZAINE"},
	"MONTHLY":  {"MENSUEL", "MENSUELLE", "MOIS"},
	"CUSTOM":   {"PERSONNALISE", "PERSONNALISEE"},
})

func ParseCycleType(raw string) (CycleType, error) {
	s, err := cycleTypeVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return CycleType(s), nil
}

var defaultCycleDays = map[CycleType]int{
	CycleTypeWeekly:   7,
	CycleTypeBiweekly: 14,
	CycleTypeMonthly:  30,
}

// TimeRange is the smallest rate unit: a sub-interval of the day with a pay multiplier.
type TimeRange struct {
	Name                 string
	Start                TimeOfDay
	End                  TimeOfDay
	RangeType            RangeType
	Multiplier           decimal.Decimal
	MultiplierOverridden bool
}

type Period struct {
	Name       string
	Start      TimeOfDay
	End        TimeOfDay
	PeriodType PeriodType
	Ranges     []TimeRange
}

// Schedule is a nominal workday template. A zero TheoreticalDayHours is derived by Build.
type Schedule struct {
	ID                  string
	Label               string
	Abbreviation        *string
	ScheduleType        string
	Start               TimeOfDay
	End                 TimeOfDay
	BreakMinutes        *int
	TheoreticalDayHours float64
	Periods             []Period
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WorkCycle wraps a schedule with a recurrence and hour targets. It references the
// schedule by ID only.
type WorkCycle struct {
	ID                string
	Name              string
	CycleType         CycleType
	CycleDays         int
	WeeklyHours       float64
	OvertimeThreshold *float64
	ScheduleID        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
