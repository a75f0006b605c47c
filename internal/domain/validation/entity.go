package validation

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityVocab = vocab.NewTable("severity", map[string][]string{
	"LOW":      {"FAIBLE", "BASSE"},
	"MEDIUM":   {"MOYENNE", "MOYEN"},
	"HIGH":     {"ELEVEE", "HAUTE"},
	"CRITICAL": {"CRITIQUE"},
})

func ParseSeverity(raw string) (Severity, error) {
	s, err := severityVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return Severity(s), nil
}

// Blocking severities make an entry INVALID when their rule fails.
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type Status string

const (
	StatusValid   Status = "VALID"
	StatusWarning Status = "WARNING"
	StatusInvalid Status = "INVALID"
)

// RuleResult is the outcome of one rule against one entry.
type RuleResult struct {
	Rule       string   `json:"rule"`
	Passed     bool     `json:"passed"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion *string  `json:"suggestion,omitempty"`
	Fixable    bool     `json:"fixable"`
}

// StatusOf derives the overall status from rule results.
func StatusOf(results []RuleResult) Status {
	status := StatusValid
	for _, r := range results {
		if r.Passed {
			continue
		}
		if r.Severity.Blocking() {
			return StatusInvalid
		}
		status = StatusWarning
	}
	return status
}

// Report is what validating one time entry returns. A report with failures is still a
// successful validation run.
type Report struct {
	ID                 string
	EntryID            string
	EmployeeID         string
	Date               time.Time
	IsValid            bool
	Status             Status
	Results            []RuleResult
	CanAutoCorrect     bool
	CorrectionsApplied []string
	Validated          bool
	CheckedBy          string
	CheckedAt          time.Time
}

// Failures returns the failed results only.
func (r Report) Failures() []RuleResult {
	var out []RuleResult
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

type ViolationCount struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

type Statistics struct {
	Total         int              `json:"total"`
	Valid         int              `json:"valid"`
	Warning       int              `json:"warning"`
	Invalid       int              `json:"invalid"`
	Corrected     int              `json:"corrected"`
	Validated     int              `json:"validated"`
	TopViolations []ViolationCount `json:"top_violations"`
}

// Summarize counts reports per status and ranks failed rules by frequency, then name.
func Summarize(reports []Report) Statistics {
	stats := Statistics{Total: len(reports), TopViolations: []ViolationCount{}}
	counts := make(map[string]int)

	for _, r := range reports {
		switch r.Status {
		case StatusValid:
			stats.Valid++
		case StatusWarning:
			stats.Warning++
		case StatusInvalid:
			stats.Invalid++
		}
		if len(r.CorrectionsApplied) > 0 {
			stats.Corrected++
		}
		if r.Validated {
			stats.Validated++
		}
		for _, f := range r.Failures() {
			counts[f.Rule]++
		}
	}

	for rule, n := range counts {
		stats.TopViolations = append(stats.TopViolations, ViolationCount{Rule: rule, Count: n})
	}
	sort.Slice(stats.TopViolations, func(i, j int) bool {
		a, b := stats.TopViolations[i], stats.TopViolations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Rule < b.Rule
	})
	return stats
}
