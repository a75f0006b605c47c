package absence

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type CreateAbsenceRequest struct {
	EmployeeID  string  `json:"employee_id"`
	AbsenceType string  `json:"absence_type"`
	StartDate   string  `json:"start_date"` // YYYY-MM-DD
	EndDate     string  `json:"end_date"`   // YYYY-MM-DD
	Reason      *string `json:"reason,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, err := ParseType(r.AbsenceType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: err.Error(),
		})
	}
	errs = validateRange(errs, r.StartDate, r.EndDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateAbsenceRequest edits a pending absence. Nil fields are left unchanged.
type UpdateAbsenceRequest struct {
	ID          string  `json:"-"`
	AbsenceType *string `json:"absence_type,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *UpdateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AbsenceType != nil {
		if _, err := ParseType(*r.AbsenceType); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "absence_type",
				Message: err.Error(),
			})
		}
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRange(errs validator.ValidationErrors, start, end string) validator.ValidationErrors {
	s, okStart := validator.IsValidDate(start)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	e, okEnd := validator.IsValidDate(end)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd {
		if _, err := InclusiveDays(s, e); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}
	return errs
}

type DecisionRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type AbsenceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AbsenceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Status != nil {
		status, err := approval.ParseStatus(*f.Status)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, APPROVED, REJECTED",
			})
		} else {
			canonical := string(status)
			f.Status = &canonical
		}
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AbsenceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	AbsenceType     string  `json:"absence_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            int     `json:"days"`
	Reason          *string `json:"reason,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListAbsenceResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Absences   []AbsenceResponse `json:"absences"`
}

// NewAbsenceResponse maps an absence for the API.
func NewAbsenceResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		AbsenceType:     string(a.AbsenceType),
		StartDate:       a.StartDate.Format(validator.DateLayout),
		EndDate:         a.EndDate.Format(validator.DateLayout),
		Days:            a.Days,
		Reason:          a.Reason,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.ApprovedAt != nil {
		approvedAt := a.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}
