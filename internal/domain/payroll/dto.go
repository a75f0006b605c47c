package payroll

import (
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type PayslipRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, _, ok := validator.IsValidDateRange(r.StartDate, r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "start_date and end_date must be YYYY-MM-DD with end_date on or after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeInfo struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	Category string `json:"category"`
}

type HourTypeTotal struct {
	HourType string  `json:"hour_type"`
	Hours    float64 `json:"hours"`
}

type SummaryResponse struct {
	TotalHours            float64         `json:"total_hours"`
	TotalOvertimeHours    float64         `json:"total_overtime_hours"`
	WeightedOvertimeHours float64         `json:"weighted_overtime_hours"`
	TotalSpecialHours     float64         `json:"total_special_hours"`
	WeightedSpecialHours  float64         `json:"weighted_special_hours"`
	SpecialHoursByType    []HourTypeTotal `json:"special_hours_by_type"`
	TotalAbsenceDays      int             `json:"total_absence_days"`
	WorkDays              int             `json:"work_days"`
}

type PayslipResponse struct {
	Employee     EmployeeInfo                   `json:"employee"`
	StartDate    string                         `json:"start_date"`
	EndDate      string                         `json:"end_date"`
	TimeEntries  []attendance.TimeEntryResponse `json:"time_entries"`
	Overtime     []extrahours.RecordResponse    `json:"overtime"`
	SpecialHours []extrahours.RecordResponse    `json:"special_hours"`
	Absences     []absence.AbsenceResponse      `json:"absences"`
	Summary      SummaryResponse                `json:"summary"`
}

// NewPayslipResponse rounds hour totals to 2 decimals. Special hours by type follow
// the declared hour type order.
func NewPayslipResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		Employee: EmployeeInfo{
			ID:       p.Employee.ID,
			Code:     p.Employee.EmployeeCode,
			FullName: p.Employee.FullName,
			Category: string(p.Employee.Category),
		},
		StartDate:    p.Start.Format(validator.DateLayout),
		EndDate:      p.End.Format(validator.DateLayout),
		TimeEntries:  make([]attendance.TimeEntryResponse, 0, len(p.TimeEntries)),
		Overtime:     make([]extrahours.RecordResponse, 0, len(p.Overtime)),
		SpecialHours: make([]extrahours.RecordResponse, 0, len(p.SpecialHours)),
		Absences:     make([]absence.AbsenceResponse, 0, len(p.Absences)),
		Summary: SummaryResponse{
			TotalHours:            hours.Round2(p.Summary.TotalHours),
			TotalOvertimeHours:    hours.Round2(p.Summary.TotalOvertimeHours),
			WeightedOvertimeHours: hours.Round2(p.Summary.WeightedOvertimeHours),
			TotalSpecialHours:     hours.Round2(p.Summary.TotalSpecialHours),
			WeightedSpecialHours:  hours.Round2(p.Summary.WeightedSpecialHours),
			SpecialHoursByType:    []HourTypeTotal{},
			TotalAbsenceDays:      p.Summary.TotalAbsenceDays,
			WorkDays:              p.Summary.WorkDays,
		},
	}

	for _, e := range p.TimeEntries {
		resp.TimeEntries = append(resp.TimeEntries, attendance.NewTimeEntryResponse(e))
	}
	for _, r := range p.Overtime {
		resp.Overtime = append(resp.Overtime, extrahours.NewRecordResponse(r))
	}
	for _, r := range p.SpecialHours {
		resp.SpecialHours = append(resp.SpecialHours, extrahours.NewRecordResponse(r))
	}
	for _, a := range p.Absences {
		resp.Absences = append(resp.Absences, absence.NewAbsenceResponse(a))
	}

	for t, h := range p.Summary.SpecialHoursByType {
		resp.Summary.SpecialHoursByType = append(resp.Summary.SpecialHoursByType, HourTypeTotal{HourType: string(t), Hours: hours.Round2(h)})
	}
	order := make(map[string]int, len(extrahours.HourTypeValues))
	for i, t := range extrahours.HourTypeValues {
		order[string(t)] = i
	}
	sort.Slice(resp.Summary.SpecialHoursByType, func(i, j int) bool {
		return order[resp.Summary.SpecialHoursByType[i].HourType] < order[resp.Summary.SpecialHoursByType[j].HourType]
	})
	return resp
}
