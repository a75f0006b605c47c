package validation

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type ValidateEntryRequest struct {
	EntryID     string `json:"-"`
	AutoCorrect bool   `json:"auto_correct"`
}

type ValidatePeriodRequest struct {
	EmployeeID  string `json:"employee_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	AutoCorrect bool   `json:"auto_correct"`
}

func (r *ValidatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
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

type ReportResponse struct {
	EntryID            string       `json:"entry_id"`
	EmployeeID         string       `json:"employee_id"`
	Date               string       `json:"date"`
	IsValid            bool         `json:"is_valid"`
	Status             string       `json:"status"`
	Results            []RuleResult `json:"results"`
	CanAutoCorrect     bool         `json:"can_auto_correct"`
	CorrectionsApplied int          `json:"corrections_applied"`
	Corrections        []string     `json:"corrections"`
	Validated          bool         `json:"validated"`
	CheckedAt          string       `json:"checked_at"`
}

type PeriodReportResponse struct {
	EmployeeID string           `json:"employee_id"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Reports    []ReportResponse `json:"reports"`
	Statistics Statistics       `json:"statistics"`
}

func NewReportResponse(r Report) ReportResponse {
	corrections := r.CorrectionsApplied
	if corrections == nil {
		corrections = []string{}
	}
	return ReportResponse{
		EntryID:            r.EntryID,
		EmployeeID:         r.EmployeeID,
		Date:               r.Date.Format(validator.DateLayout),
		IsValid:            r.IsValid,
		Status:             string(r.Status),
		Results:            r.Results,
		CanAutoCorrect:     r.CanAutoCorrect,
		CorrectionsApplied: len(r.CorrectionsApplied),
		Corrections:        corrections,
		Validated:          r.Validated,
		CheckedAt:          r.CheckedAt.UTC().Format(time.RFC3339),
	}
}
