package dashboard

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/hours"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

const maxTopN = 50

type StatisticsRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Top   int `json:"top"`
}

func (r *StatisticsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}
	if r.Top < 0 || r.Top > maxTopN {
		errs = append(errs, validator.ValidationError{
			Field:   "top",
			Message: fmt.Sprintf("top must be between 0 and %d", maxTopN),
		})
	}
	if r.Top == 0 {
		r.Top = DefaultTopN
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeStatResponse struct {
	EmployeeID     string  `json:"employee_id"`
	FullName       string  `json:"full_name"`
	WorkedHours    float64 `json:"worked_hours"`
	ExpectedHours  float64 `json:"expected_hours"`
	EfficiencyRate float64 `json:"efficiency_rate"`
}

type TrendPointResponse struct {
	Month            string  `json:"month"` // Format: "YYYY-MM"
	TotalTimeEntries int     `json:"total_time_entries"`
	TotalHours       float64 `json:"total_hours"`
	TotalAbsences    int     `json:"total_absences"`
	TotalAbsenceDays int     `json:"total_absence_days"`
	Failed           bool    `json:"failed,omitempty"`
}

type StatisticsResponse struct {
	Month              string                 `json:"month"` // Format: "YYYY-MM"
	WorkingDays        int                    `json:"working_days"`
	EmployeeCount      int                    `json:"employee_count"`
	EmployeeByCategory map[string]int         `json:"employee_by_category"`
	WorkedHours        float64                `json:"worked_hours"`
	TheoreticalHours   float64                `json:"theoretical_hours"`
	EfficiencyRate     float64                `json:"efficiency_rate"`
	TopEmployees       []EmployeeStatResponse `json:"top_employees"`
	Trend              []TrendPointResponse   `json:"trend"`
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// NewStatisticsResponse rounds hours and rates to 2 decimals. Every category is listed,
// with zero when no employee has it.
func NewStatisticsResponse(s Statistics) StatisticsResponse {
	resp := StatisticsResponse{
		Month:              monthKey(s.Year, int(s.Month)),
		WorkingDays:        s.WorkingDays,
		EmployeeCount:      s.EmployeeCount,
		EmployeeByCategory: make(map[string]int, len(employee.CategoryValues)),
		WorkedHours:        hours.Round2(s.WorkedHours),
		TheoreticalHours:   hours.Round2(s.TheoreticalHours),
		EfficiencyRate:     hours.Round2(s.Efficiency),
		TopEmployees:       make([]EmployeeStatResponse, 0, len(s.TopEmployees)),
		Trend:              make([]TrendPointResponse, 0, len(s.Trend)),
	}
	for _, c := range employee.CategoryValues {
		resp.EmployeeByCategory[string(c)] = 0
	}
	for c, n := range s.ByCategory {
		if c == "" {
			continue
		}
		resp.EmployeeByCategory[string(c)] = n
	}

	for _, e := range s.TopEmployees {
		resp.TopEmployees = append(resp.TopEmployees, EmployeeStatResponse{
			EmployeeID:     e.EmployeeID,
			FullName:       e.FullName,
			WorkedHours:    hours.Round2(e.WorkedHours),
			ExpectedHours:  hours.Round2(e.ExpectedHours),
			EfficiencyRate: hours.Round2(e.Efficiency),
		})
	}
	for _, p := range s.Trend {
		resp.Trend = append(resp.Trend, TrendPointResponse{
			Month:            monthKey(p.Year, int(p.Month)),
			TotalTimeEntries: p.Summary.TotalTimeEntries,
			TotalHours:       hours.Round2(p.Summary.TotalHours),
			TotalAbsences:    p.Summary.TotalAbsences,
			TotalAbsenceDays: p.Summary.TotalAbsenceDays,
			Failed:           p.Failed,
		})
	}
	return resp
}
