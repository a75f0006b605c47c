package validation

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

const (
	RuleClockOutAfterClockIn = "clock_out_after_clock_in"
	RuleTotalHoursConsistent = "total_hours_consistent"
	RuleMaxDailyHours        = "max_daily_hours"
	RuleNoOverlappingEntries = "no_overlapping_entries"
	RuleScheduleWindow       = "schedule_window"
	RuleClockOutPresent      = "clock_out_present"
)

const (
	DefaultMaxDailyHours     = 16.0
	DefaultScheduleTolerance = 15 * time.Minute

	hoursEpsilon = 0.01
)

// Limits are the tunable thresholds of the rule set. Location is the zone schedule
// times are read in.
type Limits struct {
	MaxDailyHours     float64
	ScheduleTolerance time.Duration
	Location          *time.Location
}

// Input is everything a rule may look at for one entry. SameDay holds the employee's
// other entries on the entry's date. Schedule is nil when no work cycle is assigned.
type Input struct {
	Entry    attendance.TimeEntry
	SameDay  []attendance.TimeEntry
	Schedule *schedule.Schedule
}

type outcome struct {
	passed     bool
	message    string
	suggestion string
}

func pass(msg string) outcome { return outcome{passed: true, message: msg} }

func fail(msg, suggestion string) outcome {
	return outcome{message: msg, suggestion: suggestion}
}

// Rule checks one concern. Fix is nil for rules that need manual review.
type Rule struct {
	Name     string
	Severity Severity
	Check    func(in Input, l Limits) outcome
	Fix      func(e *attendance.TimeEntry, in Input, l Limits) bool
}

func (r Rule) Fixable() bool { return r.Fix != nil }

// DefaultRules is the rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleClockOutAfterClockIn, Severity: SeverityCritical, Check: checkClockOrder},
		{Name: RuleTotalHoursConsistent, Severity: SeverityMedium, Check: checkHoursConsistent, Fix: fixHours},
		{Name: RuleMaxDailyHours, Severity: SeverityHigh, Check: checkMaxDaily},
		{Name: RuleNoOverlappingEntries, Severity: SeverityHigh, Check: checkOverlap},
		{Name: RuleScheduleWindow, Severity: SeverityLow, Check: checkScheduleWindow, Fix: fixScheduleWindow},
		{Name: RuleClockOutPresent, Severity: SeverityMedium, Check: checkClockOutPresent},
	}
}

func checkClockOrder(in Input, _ Limits) outcome {
	e := in.Entry
	if e.ClockIn == nil || e.ClockOut == nil {
		return pass("clock order not applicable")
	}
	if !e.ClockOut.After(*e.ClockIn) {
		return fail(
			fmt.Sprintf("clock-out %s is not after clock-in %s", e.ClockOut.Format(time.RFC3339), e.ClockIn.Format(time.RFC3339)),
			"correct the clock times manually",
		)
	}
	return pass("clock-out is after clock-in")
}

func checkHoursConsistent(in Input, _ Limits) outcome {
	e := in.Entry
	if e.HoursOverridden {
		return pass("total hours set by correction")
	}
	derived, ok := e.DerivedHours()
	if !ok {
		return pass("total hours not derivable")
	}
	if derived <= 0 {
		return pass("total hours not derivable from an inverted range")
	}
	if diff := e.TotalHours - derived; diff > hoursEpsilon || diff < -hoursEpsilon {
		return fail(
			fmt.Sprintf("total hours %.2f do not match clock times (%.2f)", e.TotalHours, derived),
			fmt.Sprintf("recompute total hours to %.2f", derived),
		)
	}
	return pass("total hours match clock times")
}

func fixHours(e *attendance.TimeEntry, _ Input, _ Limits) bool {
	return e.RecomputeHours()
}

func checkMaxDaily(in Input, l Limits) outcome {
	total := in.Entry.TotalHours
	for _, other := range in.SameDay {
		if other.ID != in.Entry.ID {
			total += other.TotalHours
		}
	}
	if total > l.MaxDailyHours {
		return fail(
			fmt.Sprintf("%.2f hours recorded on %s exceeds the daily maximum of %.2f", total, in.Entry.Date.Format("2006-01-02"), l.MaxDailyHours),
			"split the hours or record them as overtime",
		)
	}
	return pass("daily hours within maximum")
}

func checkOverlap(in Input, _ Limits) outcome {
	e := in.Entry
	if e.ClockIn == nil || e.ClockOut == nil {
		return pass("overlap not applicable")
	}
	for _, other := range in.SameDay {
		if other.ID == e.ID || other.ClockIn == nil || other.ClockOut == nil {
			continue
		}
		if e.ClockIn.Before(*other.ClockOut) && other.ClockIn.Before(*e.ClockOut) {
			return fail(
				fmt.Sprintf("entry overlaps entry %s", other.ID),
				"remove or correct one of the overlapping entries",
			)
		}
	}
	return pass("no overlapping entries")
}

func scheduleBounds(in Input, l Limits) (time.Time, time.Time) {
	start, end := in.Schedule.Window(in.Entry.Date, l.Location)
	return start.Add(-l.ScheduleTolerance), end.Add(l.ScheduleTolerance)
}

func checkScheduleWindow(in Input, l Limits) outcome {
	e := in.Entry
	if in.Schedule == nil {
		return pass("no schedule assigned")
	}
	if e.ClockIn == nil || e.ClockOut == nil {
		return pass("schedule window not applicable")
	}
	earliest, latest := scheduleBounds(in, l)
	if e.ClockIn.Before(earliest) || e.ClockOut.After(latest) {
		return fail(
			fmt.Sprintf("clock times fall outside the schedule window %s-%s", in.Schedule.Start, in.Schedule.End),
			fmt.Sprintf("clamp clock times to %s-%s", earliest.Format(time.RFC3339), latest.Format(time.RFC3339)),
		)
	}
	return pass("clock times within schedule window")
}

func fixScheduleWindow(e *attendance.TimeEntry, in Input, l Limits) bool {
	if in.Schedule == nil {
		return false
	}
	earliest, latest := scheduleBounds(in, l)
	return e.ClampTo(earliest, latest)
}

func checkClockOutPresent(in Input, _ Limits) outcome {
	e := in.Entry
	if e.ClockIn != nil && e.ClockOut == nil {
		return fail("entry has no clock-out", "clock out or correct the entry")
	}
	return pass("clock-out recorded")
}

// Engine evaluates and optionally corrects time entries. It holds no state between calls.
type Engine struct {
	rules  []Rule
	limits Limits
}

func NewEngine(limits Limits) *Engine {
	if limits.MaxDailyHours <= 0 {
		limits.MaxDailyHours = DefaultMaxDailyHours
	}
	if limits.ScheduleTolerance < 0 {
		limits.ScheduleTolerance = DefaultScheduleTolerance
	}
	if limits.Location == nil {
		limits.Location = time.UTC
	}
	return &Engine{rules: DefaultRules(), limits: limits}
}

func (e *Engine) Limits() Limits { return e.limits }

// Evaluate runs every rule against in.Entry.
func (e *Engine) Evaluate(in Input) []RuleResult {
	results := make([]RuleResult, 0, len(e.rules))
	for _, rule := range e.rules {
		o := rule.Check(in, e.limits)
		res := RuleResult{
			Rule:     rule.Name,
			Passed:   o.passed,
			Severity: rule.Severity,
			Message:  o.message,
			Fixable:  rule.Fixable(),
		}
		if o.suggestion != "" {
			s := o.suggestion
			res.Suggestion = &s
		}
		results = append(results, res)
	}
	return results
}

// Run evaluates the entry and, with autoCorrect, applies fixable rules and re-checks.
// It returns the report and the possibly corrected entry; the caller persists both.
// The entry is marked validated only when every rule passes on the final check.
func (e *Engine) Run(in Input, autoCorrect bool, actor string, now time.Time) (Report, attendance.TimeEntry) {
	entry := in.Entry
	results := e.Evaluate(in)

	canAutoCorrect := false
	for _, r := range results {
		if !r.Passed && r.Fixable {
			canAutoCorrect = true
			break
		}
	}

	var applied []string
	if autoCorrect && canAutoCorrect {
		for _, rule := range e.rules {
			if !rule.Fixable() {
				continue
			}
			current := Input{Entry: entry, SameDay: in.SameDay, Schedule: in.Schedule}
			if rule.Check(current, e.limits).passed {
				continue
			}
			if rule.Fix(&entry, current, e.limits) {
				applied = append(applied, rule.Name)
			}
		}
		if len(applied) > 0 {
			results = e.Evaluate(Input{Entry: entry, SameDay: in.SameDay, Schedule: in.Schedule})
		}
	}

	status := StatusOf(results)
	report := Report{
		EntryID:            entry.ID,
		EmployeeID:         entry.EmployeeID,
		Date:               entry.Date,
		IsValid:            status != StatusInvalid,
		Status:             status,
		Results:            results,
		CanAutoCorrect:     canAutoCorrect,
		CorrectionsApplied: applied,
		CheckedBy:          actor,
		CheckedAt:          now.UTC(),
	}
	if status == StatusValid {
		entry.MarkValidated(actor, now)
		report.Validated = true
	}
	return report, entry
}
