package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// span is a half-open interval [start, end) on the 24h circle. end < start crosses midnight.
type span struct {
	start TimeOfDay
	end   TimeOfDay
}

func (s span) minutes() int {
	d := int(s.end - s.start)
	if d <= 0 {
		d += minutesPerDay
	}
	return d
}

func (s span) segments() [][2]int {
	if s.end < s.start {
		return [][2]int{{int(s.start), minutesPerDay}, {0, int(s.end)}}
	}
	return [][2]int{{int(s.start), int(s.end)}}
}

func (s span) overlaps(o span) bool {
	for _, a := range s.segments() {
		for _, b := range o.segments() {
			if a[0] < b[1] && b[0] < a[1] {
				return true
			}
		}
	}
	return false
}

func (s span) contains(t TimeOfDay) bool {
	for _, seg := range s.segments() {
		if int(t) >= seg[0] && int(t) < seg[1] {
			return true
		}
	}
	return false
}

func (r TimeRange) CrossesMidnight() bool { return r.End < r.Start }

func (r TimeRange) Duration() time.Duration {
	return time.Duration(span{r.Start, r.End}.minutes()) * time.Minute
}

// EffectiveMultiplier falls back to the category default when no multiplier was set.
func (r TimeRange) EffectiveMultiplier() decimal.Decimal {
	if r.Multiplier.IsZero() {
		return r.RangeType.DefaultMultiplier()
	}
	return r.Multiplier
}

func (p Period) CrossesMidnight() bool { return p.End < p.Start }

func (p Period) Duration() time.Duration {
	return time.Duration(span{p.Start, p.End}.minutes()) * time.Minute
}

func (s *Schedule) CrossesMidnight() bool { return s.End < s.Start }

// Window returns the schedule's start and end instants for the workday beginning on
// day, reading the schedule's times as wall-clock times in loc.
func (s *Schedule) Window(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := s.Start.On(day, loc)
	end := s.End.On(day, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Build validates the schedule and fills in default multipliers and the theoretical
// day hours. It never corrects an overlapping configuration.
func (s *Schedule) Build() error {
	if s.Start == s.End {
		return configErr("end_time", "schedule window must not be empty")
	}
	if s.BreakMinutes != nil && *s.BreakMinutes < 0 {
		return configErr("break_minutes", "must not be negative")
	}
	if s.TheoreticalDayHours < 0 {
		return configErr("theoretical_day_hours", "must not be negative")
	}

	for i := range s.Periods {
		p := &s.Periods[i]
		field := fmt.Sprintf("periods[%d]", i)
		if p.Start == p.End {
			return configErr(field, "period %q has an empty window", p.Name)
		}
		for k := 0; k < i; k++ {
			if (span{p.Start, p.End}).overlaps(span{s.Periods[k].Start, s.Periods[k].End}) {
				return configErr(field, "period %q overlaps period %q", p.Name, s.Periods[k].Name)
			}
		}
		if err := p.buildRanges(field); err != nil {
			return err
		}
	}

	if s.TheoreticalDayHours == 0 {
		s.TheoreticalDayHours = s.derivedDayHours()
	}
	return nil
}

func (p *Period) buildRanges(field string) error {
	for j := range p.Ranges {
		r := &p.Ranges[j]
		rangeField := fmt.Sprintf("%s.ranges[%d]", field, j)
		if r.Start == r.End {
			return configErr(rangeField, "time range %q has an empty window", r.Name)
		}

		def := r.RangeType.DefaultMultiplier()
		switch {
		case r.Multiplier.IsZero():
			r.Multiplier = def
			r.MultiplierOverridden = false
		case r.Multiplier.IsNegative():
			return configErr(rangeField, "multiplier must be positive")
		default:
			r.MultiplierOverridden = !r.Multiplier.Equal(def)
		}

		for k := 0; k < j; k++ {
			if (span{r.Start, r.End}).overlaps(span{p.Ranges[k].Start, p.Ranges[k].End}) {
				return configErr(rangeField, "time range %q overlaps %q in period %q", r.Name, p.Ranges[k].Name, p.Name)
			}
		}
	}
	return nil
}

func (s *Schedule) derivedDayHours() float64 {
	if len(s.Periods) > 0 {
		var total time.Duration
		for _, p := range s.Periods {
			if p.PeriodType == PeriodTypeBreak {
				continue
			}
			total += p.Duration()
		}
		return total.Hours()
	}

	window := time.Duration(span{s.Start, s.End}.minutes()) * time.Minute
	if s.BreakMinutes != nil {
		window -= time.Duration(*s.BreakMinutes) * time.Minute
	}
	if window < 0 {
		return 0
	}
	return window.Hours()
}

// Resolution is the rate in effect at an instant.
type Resolution struct {
	Period     Period
	Range      *TimeRange
	Multiplier decimal.Decimal
}

// Resolve finds the period and time range covering the wall-clock time of at.
func (s *Schedule) Resolve(at time.Time) (Resolution, error) {
	tod := TimeOfDayOf(at)
	for _, p := range s.Periods {
		if !(span{p.Start, p.End}).contains(tod) {
			continue
		}
		res := Resolution{Period: p, Multiplier: p.PeriodType.DefaultMultiplier()}
		for i := range p.Ranges {
			if (span{p.Ranges[i].Start, p.Ranges[i].End}).contains(tod) {
				r := p.Ranges[i]
				res.Range = &r
				res.Multiplier = r.EffectiveMultiplier()
				break
			}
		}
		return res, nil
	}
	return Resolution{}, ErrNoApplicablePeriod
}

// Build validates the cycle and fills the default cycle length.
func (w *WorkCycle) Build() error {
	if w.ScheduleID == "" {
		return configErr("schedule_id", "work cycle must reference a schedule")
	}
	if w.CycleDays == 0 {
		w.CycleDays = defaultCycleDays[w.CycleType]
	}
	if w.CycleDays <= 0 {
		return configErr("cycle_days", "must be positive for %s cycles", w.CycleType)
	}
	if w.WeeklyHours < 0 {
		return configErr("weekly_hours", "must not be negative")
	}
	if w.OvertimeThreshold != nil && *w.OvertimeThreshold <= 0 {
		return configErr("overtime_threshold", "must be positive")
	}
	return nil
}
