package payroll

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
)

// Summary totals a payslip. Hours are unrounded; weighted hours apply each record's
// multiplier. Extra hours and absences count unless REJECTED.
type Summary struct {
	TotalHours            float64
	TotalOvertimeHours    float64
	WeightedOvertimeHours float64
	TotalSpecialHours     float64
	WeightedSpecialHours  float64
	SpecialHoursByType    map[extrahours.HourType]float64
	TotalAbsenceDays      int
	WorkDays              int
}

// Payslip is the read-only view of one employee over an inclusive date range.
type Payslip struct {
	Employee     employee.Employee
	Start        time.Time
	End          time.Time
	TimeEntries  []attendance.TimeEntry
	Overtime     []extrahours.Record
	SpecialHours []extrahours.Record
	Absences     []absence.Absence
	Summary      Summary
}

// BuildPayslip splits extra-hours records by kind and computes the summary.
// Inputs are expected to already be limited to the employee and range.
func BuildPayslip(
	emp employee.Employee,
	start, end time.Time,
	entries []attendance.TimeEntry,
	records []extrahours.Record,
	absences []absence.Absence,
) Payslip {
	p := Payslip{
		Employee:     emp,
		Start:        start,
		End:          end,
		TimeEntries:  entries,
		Overtime:     []extrahours.Record{},
		SpecialHours: []extrahours.Record{},
		Absences:     absences,
		Summary:      Summary{SpecialHoursByType: map[extrahours.HourType]float64{}},
	}
	if p.TimeEntries == nil {
		p.TimeEntries = []attendance.TimeEntry{}
	}
	if p.Absences == nil {
		p.Absences = []absence.Absence{}
	}

	for _, e := range entries {
		if e.Status != attendance.StatusCompleted {
			continue
		}
		p.Summary.TotalHours += e.TotalHours
		p.Summary.WorkDays++
	}

	for _, r := range records {
		if r.Kind == extrahours.KindOvertime {
			p.Overtime = append(p.Overtime, r)
		} else {
			p.SpecialHours = append(p.SpecialHours, r)
		}
		if r.Status == approval.StatusRejected {
			continue
		}
		if r.Kind == extrahours.KindOvertime {
			p.Summary.TotalOvertimeHours += r.Hours
			p.Summary.WeightedOvertimeHours += hours.Weighted(r.Hours, r.Multiplier)
			continue
		}
		p.Summary.TotalSpecialHours += r.Hours
		p.Summary.WeightedSpecialHours += hours.Weighted(r.Hours, r.Multiplier)
		if r.HourType != nil {
			p.Summary.SpecialHoursByType[*r.HourType] += r.Hours
		}
	}

	for _, a := range absences {
		if a.Status != approval.StatusRejected {
			p.Summary.TotalAbsenceDays += a.Days
		}
	}
	return p
}
