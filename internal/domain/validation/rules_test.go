package validation

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func closedEntry(id string, in, out time.Time) attendance.TimeEntry {
	e := attendance.NewPending("emp-1", in)
	e.ID = id
	_ = e.Close(out)
	return e
}

func officeHours(t *testing.T) *schedule.Schedule {
	t.Helper()
	start, err := schedule.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	end, err := schedule.ParseTimeOfDay("17:00")
	require.NoError(t, err)
	s := &schedule.Schedule{Label: "Office", Start: start, End: end}
	require.NoError(t, s.Build())
	return s
}

func resultFor(t *testing.T, results []RuleResult, rule string) RuleResult {
	t.Helper()
	for _, r := range results {
		if r.Rule == rule {
			return r
		}
	}
	t.Fatalf("no result for rule %s", rule)
	return RuleResult{}
}

func newEngine() *Engine {
	return NewEngine(Limits{MaxDailyHours: DefaultMaxDailyHours, ScheduleTolerance: DefaultScheduleTolerance})
}

func TestEngine_Run_CleanEntryIsValidated(t *testing.T) {
	entry := closedEntry("te-1", at(8, 0), at(17, 0))

	report, out := newEngine().Run(Input{Entry: entry, Schedule: officeHours(t)}, false, "mgr-1", now)

	assert.Equal(t, StatusValid, report.Status)
	assert.True(t, report.IsValid)
	assert.True(t, report.Validated)
	assert.False(t, report.CanAutoCorrect)
	assert.True(t, out.IsValidated)
	require.NotNil(t, out.ValidatedBy)
	assert.Equal(t, "mgr-1", *out.ValidatedBy)
}

func TestEngine_Run_InvertedClockIsInvalid(t *testing.T) {
	in, out := at(17, 0), at(8, 0)
	entry := attendance.TimeEntry{ID: "te-1", EmployeeID: "emp-1", Date: monday, ClockIn: &in, ClockOut: &out, Status: attendance.StatusIncomplete}

	report, got := newEngine().Run(Input{Entry: entry}, true, "mgr-1", now)

	assert.Equal(t, StatusInvalid, report.Status)
	assert.False(t, report.IsValid)
	assert.False(t, report.Validated)
	assert.False(t, got.IsValidated)
	assert.False(t, resultFor(t, report.Results, RuleClockOutAfterClockIn).Passed)
}

func TestEngine_Run_InconsistentHoursWarnsWithoutAutoCorrect(t *testing.T) {
	entry := closedEntry("te-1", at(8, 0), at(17, 0))
	entry.TotalHours = 7

	report, got := newEngine().Run(Input{Entry: entry}, false, "mgr-1", now)

	assert.Equal(t, StatusWarning, report.Status)
	assert.True(t, report.IsValid)
	assert.True(t, report.CanAutoCorrect)
	assert.Empty(t, report.CorrectionsApplied)
	assert.False(t, report.Validated)
	assert.Equal(t, 7.0, got.TotalHours)
	res := resultFor(t, report.Results, RuleTotalHoursConsistent)
	require.NotNil(t, res.Suggestion)
	assert.True(t, res.Fixable)
}

func TestEngine_Run_AutoCorrectRecomputesHours(t *testing.T) {
	entry := closedEntry("te-1", at(8, 0), at(17, 0))
	entry.TotalHours = 7

	report, got := newEngine().Run(Input{Entry: entry}, true, "mgr-1", now)

	assert.Equal(t, StatusValid, report.Status)
	assert.Equal(t, []string{RuleTotalHoursConsistent}, report.CorrectionsApplied)
	assert.True(t, report.Validated)
	assert.Equal(t, 9.0, got.TotalHours)
	assert.True(t, got.IsValidated)
}

func TestEngine_Run_OverriddenHoursAreTrusted(t *testing.T) {
	entry := closedEntry("te-1", at(8, 0), at(17, 0))
	entry.TotalHours = 7
	entry.HoursOverridden = true

	report, _ := newEngine().Run(Input{Entry: entry}, false, "mgr-1", now)

	assert.True(t, resultFor(t, report.Results, RuleTotalHoursConsistent).Passed)
	assert.Equal(t, StatusValid, report.Status)
}

func TestEngine_Run_ClampsToScheduleWindow(t *testing.T) {
	entry := closedEntry("te-1", at(6, 0), at(17, 0))

	report, got := newEngine().Run(Input{Entry: entry, Schedule: officeHours(t)}, true, "mgr-1", now)

	assert.Equal(t, []string{RuleScheduleWindow}, report.CorrectionsApplied)
	assert.Equal(t, StatusValid, report.Status)
	assert.Equal(t, at(7, 45), *got.ClockIn)
	assert.Equal(t, 9.25, got.TotalHours)
}

func TestEngine_Run_ScheduleWindowInLocalZone(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)
	in := time.Date(2024, 6, 10, 8, 0, 0, 0, cest)
	out := time.Date(2024, 6, 10, 17, 0, 0, 0, cest)
	entry := closedEntry("te-1", in, out)
	engine := NewEngine(Limits{ScheduleTolerance: DefaultScheduleTolerance, Location: cest})

	report, got := engine.Run(Input{Entry: entry, Schedule: officeHours(t)}, true, "mgr-1", now)

	assert.True(t, resultFor(t, report.Results, RuleScheduleWindow).Passed)
	assert.Empty(t, report.CorrectionsApplied)
	assert.Equal(t, StatusValid, report.Status)
	assert.True(t, in.Equal(*got.ClockIn))
	assert.True(t, out.Equal(*got.ClockOut))
	assert.Equal(t, 9.0, got.TotalHours)
}

func TestEngine_Run_WithinToleranceIsValid(t *testing.T) {
	entry := closedEntry("te-1", at(7, 50), at(17, 10))

	report, _ := newEngine().Run(Input{Entry: entry, Schedule: officeHours(t)}, false, "mgr-1", now)

	assert.True(t, resultFor(t, report.Results, RuleScheduleWindow).Passed)
}

func TestEngine_Run_OverlapIsInvalid(t *testing.T) {
	entry := closedEntry("te-1", at(8, 0), at(12, 0))
	other := closedEntry("te-2", at(11, 0), at(14, 0))

	report, _ := newEngine().Run(Input{Entry: entry, SameDay: []attendance.TimeEntry{other}}, true, "mgr-1", now)

	assert.Equal(t, StatusInvalid, report.Status)
	assert.False(t, resultFor(t, report.Results, RuleNoOverlappingEntries).Passed)
	assert.False(t, report.Validated)
}

func TestEngine_Run_MaxDailyHours(t *testing.T) {
	engine := NewEngine(Limits{MaxDailyHours: 10})
	entry := closedEntry("te-1", at(8, 0), at(14, 0))
	other := closedEntry("te-2", at(15, 0), at(20, 0))

	report, _ := engine.Run(Input{Entry: entry, SameDay: []attendance.TimeEntry{other}}, false, "mgr-1", now)

	assert.False(t, resultFor(t, report.Results, RuleMaxDailyHours).Passed)
	assert.Equal(t, StatusInvalid, report.Status)
}

func TestEngine_Run_OpenEntryWarns(t *testing.T) {
	entry := attendance.NewPending("emp-1", at(8, 0))
	entry.ID = "te-1"

	report, got := newEngine().Run(Input{Entry: entry}, true, "system", now)

	assert.Equal(t, StatusWarning, report.Status)
	assert.False(t, resultFor(t, report.Results, RuleClockOutPresent).Passed)
	assert.False(t, got.IsValidated)
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name    string
		results []RuleResult
		want    Status
	}{
		{"all passed", []RuleResult{{Passed: true, Severity: SeverityCritical}}, StatusValid},
		{"low failure", []RuleResult{{Passed: false, Severity: SeverityLow}}, StatusWarning},
		{"medium failure", []RuleResult{{Passed: false, Severity: SeverityMedium}}, StatusWarning},
		{"high failure", []RuleResult{{Passed: false, Severity: SeverityLow}, {Passed: false, Severity: SeverityHigh}}, StatusInvalid},
		{"critical failure", []RuleResult{{Passed: false, Severity: SeverityCritical}}, StatusInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, StatusOf(c.results))
		})
	}
}

func TestSummarize_RanksViolations(t *testing.T) {
	failed := func(rule string) RuleResult { return RuleResult{Rule: rule, Passed: false, Severity: SeverityLow} }
	reports := []Report{
		{Status: StatusValid, Validated: true},
		{Status: StatusWarning, Results: []RuleResult{failed(RuleScheduleWindow), failed(RuleClockOutPresent)}},
		{Status: StatusWarning, Results: []RuleResult{failed(RuleClockOutPresent)}, CorrectionsApplied: []string{RuleTotalHoursConsistent}},
		{Status: StatusInvalid, Results: []RuleResult{failed(RuleMaxDailyHours)}},
	}

	stats := Summarize(reports)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Valid)
	assert.Equal(t, 2, stats.Warning)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, 1, stats.Corrected)
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, []ViolationCount{
		{Rule: RuleClockOutPresent, Count: 2},
		{Rule: RuleMaxDailyHours, Count: 1},
		{Rule: RuleScheduleWindow, Count: 1},
	}, stats.TopViolations)
}

func TestParseSeverity_Bilingual(t *testing.T) {
	s, err := ParseSeverity("élevée")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, s)
}
