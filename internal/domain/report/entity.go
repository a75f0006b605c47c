package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// EmployeeTotals are the per-employee figures behind a PeriodSummary.
type EmployeeTotals struct {
	EmployeeID       string
	TotalTimeEntries int
	TotalHours       float64
	TotalAbsences    int
	TotalAbsenceDays int
}

// PeriodSummary aggregates time entries and absences over an inclusive date range.
// Hours are kept unrounded.
type PeriodSummary struct {
	Start            time.Time
	End              time.Time
	EmployeeID       *string
	TotalTimeEntries int
	TotalHours       float64
	TotalAbsences    int
	TotalAbsenceDays int
	Employees        []EmployeeTotals
}

// Summarize computes the summary of entries and absences read for [start, end].
// Hours count COMPLETED entries only. Absences count when not REJECTED and overlapping
// the range, each contributing its full day count.
func Summarize(start, end time.Time, entries []attendance.TimeEntry, absences []absence.Absence) PeriodSummary {
	s := PeriodSummary{Start: start, End: end}
	rows := make(map[string]*EmployeeTotals)
	row := func(id string) *EmployeeTotals {
		r, ok := rows[id]
		if !ok {
			r = &EmployeeTotals{EmployeeID: id}
			rows[id] = r
		}
		return r
	}

	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		r := row(e.EmployeeID)
		s.TotalTimeEntries++
		r.TotalTimeEntries++
		if e.Status == attendance.StatusCompleted {
			s.TotalHours += e.TotalHours
			r.TotalHours += e.TotalHours
		}
	}

	for _, a := range absences {
		if a.Status == approval.StatusRejected || !a.Overlaps(start, end) {
			continue
		}
		r := row(a.EmployeeID)
		s.TotalAbsences++
		s.TotalAbsenceDays += a.Days
		r.TotalAbsences++
		r.TotalAbsenceDays += a.Days
	}

	s.Employees = make([]EmployeeTotals, 0, len(rows))
	for _, r := range rows {
		s.Employees = append(s.Employees, *r)
	}
	sort.Slice(s.Employees, func(i, j int) bool {
		return s.Employees[i].EmployeeID < s.Employees[j].EmployeeID
	})
	return s
}
