package attendance

import (
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// ClockInRequest records a clock event. A missing timestamp means now.
type ClockInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Timestamp  *string `json:"timestamp,omitempty"` // RFC3339
	Notes      *string `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	return validateClockEvent(r.EmployeeID, r.Timestamp)
}

type ClockOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Timestamp  *string `json:"timestamp,omitempty"` // RFC3339
}

func (r *ClockOutRequest) Validate() error {
	return validateClockEvent(r.EmployeeID, r.Timestamp)
}

func validateClockEvent(employeeID string, timestamp *string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if timestamp != nil {
		if _, ok := validator.IsValidDateTime(*timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseTimestamp returns the parsed timestamp or fallback when absent.
func ParseTimestamp(timestamp *string, fallback time.Time) time.Time {
	if timestamp == nil {
		return fallback
	}
	t, _ := validator.IsValidDateTime(*timestamp)
	return t
}

// CorrectionRequest for managers fixing wrong data: forgotten clock-out, wrong times, etc.
type CorrectionRequest struct {
	ID         string   `json:"-"`
	ClockIn    *string  `json:"clock_in,omitempty"`  // RFC3339
	ClockOut   *string  `json:"clock_out,omitempty"` // RFC3339
	TotalHours *float64 `json:"total_hours,omitempty"`
	Status     *string  `json:"status,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClockIn == nil && r.ClockOut == nil && r.TotalHours == nil && r.Status == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "correction",
			Message: "at least one field must be provided",
		})
	}
	if r.ClockIn != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an RFC3339 timestamp",
			})
		}
	}
	if r.ClockOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an RFC3339 timestamp",
			})
		}
	}
	if r.TotalHours != nil && (*r.TotalHours < 0 || math.IsNaN(*r.TotalHours) || *r.TotalHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "total_hours",
			Message: "total_hours must be between 0 and 24",
		})
	}
	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, COMPLETED, INCOMPLETE, ABSENT",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToCorrection converts a validated request.
func (r *CorrectionRequest) ToCorrection() Correction {
	c := Correction{TotalHours: r.TotalHours, Notes: r.Notes}
	if r.ClockIn != nil {
		t, _ := validator.IsValidDateTime(*r.ClockIn)
		c.ClockIn = &t
	}
	if r.ClockOut != nil {
		t, _ := validator.IsValidDateTime(*r.ClockOut)
		c.ClockOut = &t
	}
	if r.Status != nil {
		s, _ := ParseStatus(*r.Status)
		c.Status = &s
	}
	return c
}

type MarkAbsentRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Notes      *string `json:"notes,omitempty"`
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeEntryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *TimeEntryFilter) Validate() error {
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
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		status, err := ParseStatus(*f.Status)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, COMPLETED, INCOMPLETE, ABSENT",
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

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeEntryResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	ClockIn         *string `json:"clock_in,omitempty"`
	ClockOut        *string `json:"clock_out,omitempty"`
	TotalHours      float64 `json:"total_hours"`
	HoursOverridden bool    `json:"hours_overridden"`
	Status          string  `json:"status"`
	IsValidated     bool    `json:"is_validated"`
	ValidatedAt     *string `json:"validated_at,omitempty"`
	ValidatedBy     *string `json:"validated_by,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListTimeEntryResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Entries    []TimeEntryResponse `json:"entries"`
}

type CloseStaleResponse struct {
	Closed int `json:"closed"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// NewTimeEntryResponse maps an entry for the API.
func NewTimeEntryResponse(e TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		Date:            e.Date.Format(validator.DateLayout),
		ClockIn:         formatOptional(e.ClockIn),
		ClockOut:        formatOptional(e.ClockOut),
		TotalHours:      e.TotalHours,
		HoursOverridden: e.HoursOverridden,
		Status:          string(e.Status),
		IsValidated:     e.IsValidated,
		ValidatedAt:     formatOptional(e.ValidatedAt),
		ValidatedBy:     e.ValidatedBy,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
