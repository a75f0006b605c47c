package extrahours

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DeclareOvertimeRequest struct {
	EmployeeID   string           `json:"employee_id"`
	Date         string           `json:"date"` // YYYY-MM-DD
	Hours        float64          `json:"hours"`
	RateCategory *string          `json:"rate_category,omitempty"`
	Multiplier   *decimal.Decimal `json:"multiplier,omitempty"`
	Reason       *string          `json:"reason,omitempty"`
}

func (r *DeclareOvertimeRequest) Validate() error {
	errs := validateDeclaration(r.EmployeeID, r.Date, r.Hours, r.Multiplier)
	if r.RateCategory != nil {
		if _, err := schedule.ParseRangeType(*r.RateCategory); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "rate_category",
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeclareSpecialHoursRequest struct {
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Hours      float64          `json:"hours"`
	HourType   string           `json:"hour_type"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"`
	Reason     *string          `json:"reason,omitempty"`
}

func (r *DeclareSpecialHoursRequest) Validate() error {
	errs := validateDeclaration(r.EmployeeID, r.Date, r.Hours, r.Multiplier)
	if _, err := ParseHourType(r.HourType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "hour_type",
			Message: "hour_type must be one of: HOLIDAY, NIGHT_SHIFT, WEEKEND, ON_CALL",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDeclaration(employeeID, date string, hours float64, multiplier *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if hours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be greater than zero",
		})
	}
	if multiplier != nil && !multiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "multiplier",
			Message: "multiplier must be greater than zero",
		})
	}
	return errs
}

// UpdateRecordRequest edits a pending record. Nil fields are left unchanged.
type UpdateRecordRequest struct {
	ID           string           `json:"-"`
	Date         *string          `json:"date,omitempty"` // YYYY-MM-DD
	Hours        *float64         `json:"hours,omitempty"`
	RateCategory *string          `json:"rate_category,omitempty"`
	HourType     *string          `json:"hour_type,omitempty"`
	Multiplier   *decimal.Decimal `json:"multiplier,omitempty"`
	Reason       *string          `json:"reason,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Hours != nil && *r.Hours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be greater than zero",
		})
	}
	if r.RateCategory != nil {
		if _, err := schedule.ParseRangeType(*r.RateCategory); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "rate_category",
				Message: err.Error(),
			})
		}
	}
	if r.HourType != nil {
		if _, err := ParseHourType(*r.HourType); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "hour_type",
				Message: "hour_type must be one of: HOLIDAY, NIGHT_SHIFT, WEEKEND, ON_CALL",
			})
		}
	}
	if r.Multiplier != nil && !r.Multiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "multiplier",
			Message: "multiplier must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToRevision converts the validated request.
func (r *UpdateRecordRequest) ToRevision() Revision {
	rev := Revision{Hours: r.Hours, Multiplier: r.Multiplier, Reason: r.Reason}
	if r.Date != nil {
		d, _ := validator.IsValidDate(*r.Date)
		rev.Date = &d
	}
	if r.RateCategory != nil {
		c, _ := schedule.ParseRangeType(*r.RateCategory)
		rev.RateCategory = &c
	}
	if r.HourType != nil {
		ht, _ := ParseHourType(*r.HourType)
		rev.HourType = &ht
	}
	return rev
}

type DecisionRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type RecordFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Kind       *string `json:"kind,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RecordFilter) Validate() error {
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
	if f.Kind != nil && *f.Kind != string(KindOvertime) && *f.Kind != string(KindSpecialHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: OVERTIME, SPECIAL_HOURS",
		})
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
	for field, value := range map[string]*string{"start_date": f.StartDate, "end_date": f.EndDate} {
		if value == nil {
			continue
		}
		if _, ok := validator.IsValidDate(*value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID                   string  `json:"id"`
	Kind                 string  `json:"kind"`
	EmployeeID           string  `json:"employee_id"`
	Date                 string  `json:"date"`
	Hours                float64 `json:"hours"`
	RateCategory         string  `json:"rate_category"`
	HourType             *string `json:"hour_type,omitempty"`
	Multiplier           string  `json:"multiplier"`
	MultiplierOverridden bool    `json:"multiplier_overridden"`
	WeightedHours        float64 `json:"weighted_hours"`
	Reason               *string `json:"reason,omitempty"`
	Status               string  `json:"status"`
	ApprovedBy           *string `json:"approved_by,omitempty"`
	ApprovedAt           *string `json:"approved_at,omitempty"`
	RejectionReason      *string `json:"rejection_reason,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// NewRecordResponse maps a record for the API.
func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                   r.ID,
		Kind:                 string(r.Kind),
		EmployeeID:           r.EmployeeID,
		Date:                 r.Date.Format(validator.DateLayout),
		Hours:                r.Hours,
		RateCategory:         string(r.RateCategory),
		Multiplier:           r.Multiplier.String(),
		MultiplierOverridden: r.MultiplierOverridden,
		WeightedHours:        r.WeightedHours(),
		Reason:               r.Reason,
		Status:               string(r.Status),
		ApprovedBy:           r.ApprovedBy,
		RejectionReason:      r.RejectionReason,
		CreatedAt:            r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.HourType != nil {
		ht := string(*r.HourType)
		resp.HourType = &ht
	}
	if r.ApprovedAt != nil {
		approvedAt := r.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}
