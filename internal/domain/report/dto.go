package report

import (
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type SummaryRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, _, ok := validator.IsValidDateRange(r.StartDate, r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "start_date and end_date must be YYYY-MM-DD with end_date on or after start_date",
		})
	}
	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		r.EmployeeID = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeSummaryRow struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeCode     string  `json:"employee_code"`
	EmployeeName     string  `json:"employee_name"`
	TotalTimeEntries int     `json:"total_time_entries"`
	TotalHours       float64 `json:"total_hours"`
	TotalAbsences    int     `json:"total_absences"`
	TotalAbsenceDays int     `json:"total_absence_days"`
}

type SummaryResponse struct {
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	EmployeeID       *string              `json:"employee_id,omitempty"`
	TotalTimeEntries int                  `json:"total_time_entries"`
	TotalHours       float64              `json:"total_hours"`
	TotalAbsences    int                  `json:"total_absences"`
	TotalAbsenceDays int                  `json:"total_absence_days"`
	Employees        []EmployeeSummaryRow `json:"employees"`
}

// EmployeeIdentity supplies display fields for summary rows.
type EmployeeIdentity struct {
	Code string
	Name string
}

// NewSummaryResponse rounds hours for presentation. Employees missing from names keep
// blank identity fields.
func NewSummaryResponse(s PeriodSummary, names map[string]EmployeeIdentity) SummaryResponse {
	resp := SummaryResponse{
		StartDate:        s.Start.Format(validator.DateLayout),
		EndDate:          s.End.Format(validator.DateLayout),
		EmployeeID:       s.EmployeeID,
		TotalTimeEntries: s.TotalTimeEntries,
		TotalHours:       hours.Round2(s.TotalHours),
		TotalAbsences:    s.TotalAbsences,
		TotalAbsenceDays: s.TotalAbsenceDays,
		Employees:        make([]EmployeeSummaryRow, 0, len(s.Employees)),
	}
	for _, e := range s.Employees {
		id := names[e.EmployeeID]
		resp.Employees = append(resp.Employees, EmployeeSummaryRow{
			EmployeeID:       e.EmployeeID,
			EmployeeCode:     id.Code,
			EmployeeName:     id.Name,
			TotalTimeEntries: e.TotalTimeEntries,
			TotalHours:       hours.Round2(e.TotalHours),
			TotalAbsences:    e.TotalAbsences,
			TotalAbsenceDays: e.TotalAbsenceDays,
		})
	}
	return resp
}
