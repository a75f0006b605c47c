package dashboard

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
)

const (
	TrendMonths = 6
	DefaultTopN = 5
)

// Staff is an active employee with the theoretical day hours of their assigned schedule.
// Employees without a schedule carry zero.
type Staff struct {
	Employee            employee.Employee
	TheoreticalDayHours float64
}

type EmployeeStat struct {
	EmployeeID    string
	FullName      string
	WorkedHours   float64
	ExpectedHours float64
	Efficiency    float64
}

type TrendPoint struct {
	Year    int
	Month   time.Month
	Summary report.PeriodSummary
	// Failed marks a month whose summary could not be read; its totals are zero.
	Failed bool
}

// Statistics are the figures of one calendar month.
type Statistics struct {
	Year             int
	Month            time.Month
	WorkingDays      int
	EmployeeCount    int
	ByCategory       map[employee.Category]int
	WorkedHours      float64
	TheoreticalHours float64
	Efficiency       float64
	TopEmployees     []EmployeeStat
	Trend            []TrendPoint
}

// MonthRange returns the first and last day of the month at UTC midnight.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// TrendWindow lists the reference month and the five before it, oldest first.
func TrendWindow(year int, month time.Month) []TrendPoint {
	points := make([]TrendPoint, TrendMonths)
	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		m := ref.AddDate(0, i-(TrendMonths-1), 0)
		points[i] = TrendPoint{Year: m.Year(), Month: m.Month()}
	}
	return points
}

// Compute derives the monthly statistics from the active staff and the month's entries.
// Worked hours count COMPLETED entries. Theoretical hours are day hours times the
// Monday to Friday days of the month. TopEmployees is ranked by worked hours, then name.
func Compute(year int, month time.Month, staff []Staff, entries []attendance.TimeEntry, topN int) Statistics {
	if topN <= 0 {
		topN = DefaultTopN
	}
	days := hours.WorkingDays(year, month)
	stats := Statistics{
		Year:          year,
		Month:         month,
		WorkingDays:   days,
		EmployeeCount: len(staff),
		ByCategory:    make(map[employee.Category]int),
		TopEmployees:  []EmployeeStat{},
	}

	worked := make(map[string]float64, len(staff))
	for _, e := range entries {
		if e.Status == attendance.StatusCompleted {
			worked[e.EmployeeID] += e.TotalHours
		}
	}

	all := make([]EmployeeStat, 0, len(staff))
	for _, s := range staff {
		stats.ByCategory[s.Employee.Category]++
		expected := s.TheoreticalDayHours * float64(days)
		w := worked[s.Employee.ID]
		stats.WorkedHours += w
		stats.TheoreticalHours += expected
		all = append(all, EmployeeStat{
			EmployeeID:    s.Employee.ID,
			FullName:      s.Employee.FullName,
			WorkedHours:   w,
			ExpectedHours: expected,
			Efficiency:    hours.Efficiency(w, expected),
		})
	}
	stats.Efficiency = hours.Efficiency(stats.WorkedHours, stats.TheoreticalHours)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].WorkedHours != all[j].WorkedHours {
			return all[i].WorkedHours > all[j].WorkedHours
		}
		return all[i].FullName < all[j].FullName
	})
	if len(all) > topN {
		all = all[:topN]
	}
	stats.TopEmployees = all
	return stats
}
