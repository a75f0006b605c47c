package schedule

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type TimeRangeRequest struct {
	Name       string           `json:"name"`
	StartTime  string           `json:"start_time"`
	EndTime    string           `json:"end_time"`
	RangeType  string           `json:"range_type"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"`
}

type PeriodRequest struct {
	Name       string             `json:"name"`
	StartTime  string             `json:"start_time"`
	EndTime    string             `json:"end_time"`
	PeriodType string             `json:"period_type"`
	Ranges     []TimeRangeRequest `json:"ranges"`
}

type CreateScheduleRequest struct {
	Label               string          `json:"label"`
	Abbreviation        *string         `json:"abbreviation,omitempty"`
	ScheduleType        string          `json:"schedule_type"`
	StartTime           string          `json:"start_time"`
	EndTime             string          `json:"end_time"`
	BreakMinutes        *int            `json:"break_minutes,omitempty"`
	TheoreticalDayHours *float64        `json:"theoretical_day_hours,omitempty"`
	Periods             []PeriodRequest `json:"periods"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{
			Field:   "label",
			Message: "label is required",
		})
	}
	errs = appendTimeError(errs, "start_time", r.StartTime)
	errs = appendTimeError(errs, "end_time", r.EndTime)

	if r.TheoreticalDayHours != nil && *r.TheoreticalDayHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "theoretical_day_hours",
			Message: "theoretical_day_hours must be positive",
		})
	}

	for i, p := range r.Periods {
		field := fmt.Sprintf("periods[%d]", i)
		errs = appendTimeError(errs, field+".start_time", p.StartTime)
		errs = appendTimeError(errs, field+".end_time", p.EndTime)
		if _, err := ParsePeriodType(p.PeriodType); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".period_type",
				Message: err.Error(),
			})
		}
		for j, tr := range p.Ranges {
			rangeField := fmt.Sprintf("%s.ranges[%d]", field, j)
			errs = appendTimeError(errs, rangeField+".start_time", tr.StartTime)
			errs = appendTimeError(errs, rangeField+".end_time", tr.EndTime)
			if _, err := ParseRangeType(tr.RangeType); err != nil {
				errs = append(errs, validator.ValidationError{
					Field:   rangeField + ".range_type",
					Message: err.Error(),
				})
			}
			if tr.Multiplier != nil && !tr.Multiplier.IsPositive() {
				errs = append(errs, validator.ValidationError{
					Field:   rangeField + ".multiplier",
					Message: "multiplier must be positive",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToSchedule converts a validated request. Call Validate first.
func (r *CreateScheduleRequest) ToSchedule() Schedule {
	s := Schedule{
		Label:        r.Label,
		Abbreviation: r.Abbreviation,
		ScheduleType: r.ScheduleType,
		Start:        mustTime(r.StartTime),
		End:          mustTime(r.EndTime),
		BreakMinutes: r.BreakMinutes,
	}
	if r.TheoreticalDayHours != nil {
		s.TheoreticalDayHours = *r.TheoreticalDayHours
	}
	for _, p := range r.Periods {
		periodType, _ := ParsePeriodType(p.PeriodType)
		period := Period{
			Name:       p.Name,
			Start:      mustTime(p.StartTime),
			End:        mustTime(p.EndTime),
			PeriodType: periodType,
		}
		for _, tr := range p.Ranges {
			rangeType, _ := ParseRangeType(tr.RangeType)
			timeRange := TimeRange{
				Name:      tr.Name,
				Start:     mustTime(tr.StartTime),
				End:       mustTime(tr.EndTime),
				RangeType: rangeType,
			}
			if tr.Multiplier != nil {
				timeRange.Multiplier = *tr.Multiplier
			}
			period.Ranges = append(period.Ranges, timeRange)
		}
		s.Periods = append(s.Periods, period)
	}
	return s
}

type UpdateScheduleRequest struct {
	ID string `json:"-"`
	CreateScheduleRequest
}

func appendTimeError(errs validator.ValidationErrors, field, value string) validator.ValidationErrors {
	if _, err := ParseTimeOfDay(value); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be in HH:MM format",
		})
	}
	return errs
}

func mustTime(s string) TimeOfDay {
	t, _ := ParseTimeOfDay(s)
	return t
}

type ResolveRateRequest struct {
	ScheduleID string `json:"schedule_id"`
	At         string `json:"at"`
}

func (r *ResolveRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule_id",
			Message: "schedule_id is required",
		})
	}
	if _, ok := validator.IsValidDateTime(r.At); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "at",
			Message: "at must be an RFC3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateWorkCycleRequest struct {
	Name              string   `json:"name"`
	CycleType         string   `json:"cycle_type"`
	CycleDays         *int     `json:"cycle_days,omitempty"`
	WeeklyHours       float64  `json:"weekly_hours"`
	OvertimeThreshold *float64 `json:"overtime_threshold,omitempty"`
	ScheduleID        string   `json:"schedule_id"`
}

func (r *CreateWorkCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	cycleType, err := ParseCycleType(r.CycleType)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "cycle_type",
			Message: err.Error(),
		})
	}
	if cycleType == CycleTypeCustom && r.CycleDays == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "cycle_days",
			Message: "cycle_days is required for CUSTOM cycles",
		})
	}
	if validator.IsEmpty(r.ScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule_id",
			Message: "schedule_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignWorkCycleRequest struct {
	EmployeeID  string  `json:"-"`
	WorkCycleID *string `json:"work_cycle_id"`
}

type TimeRangeResponse struct {
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	RangeType            string `json:"range_type"`
	Multiplier           string `json:"multiplier"`
	MultiplierOverridden bool   `json:"multiplier_overridden"`
	CrossesMidnight      bool   `json:"crosses_midnight"`
}

type PeriodResponse struct {
	Name            string              `json:"name"`
	StartTime       string              `json:"start_time"`
	EndTime         string              `json:"end_time"`
	PeriodType      string              `json:"period_type"`
	DurationHours   float64             `json:"duration_hours"`
	CrossesMidnight bool                `json:"crosses_midnight"`
	Ranges          []TimeRangeResponse `json:"ranges"`
}

type ScheduleResponse struct {
	ID                  string           `json:"id"`
	Label               string           `json:"label"`
	Abbreviation        *string          `json:"abbreviation,omitempty"`
	ScheduleType        string           `json:"schedule_type"`
	StartTime           string           `json:"start_time"`
	EndTime             string           `json:"end_time"`
	BreakMinutes        *int             `json:"break_minutes,omitempty"`
	TheoreticalDayHours float64          `json:"theoretical_day_hours"`
	Periods             []PeriodResponse `json:"periods"`
	CreatedAt           string           `json:"created_at"`
	UpdatedAt           string           `json:"updated_at"`
}

type RateResolutionResponse struct {
	ScheduleID string  `json:"schedule_id"`
	At         string  `json:"at"`
	PeriodName string  `json:"period_name"`
	PeriodType string  `json:"period_type"`
	RangeName  *string `json:"range_name,omitempty"`
	RangeType  *string `json:"range_type,omitempty"`
	Multiplier string  `json:"multiplier"`
}

type WorkCycleResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	CycleType         string   `json:"cycle_type"`
	CycleDays         int      `json:"cycle_days"`
	WeeklyHours       float64  `json:"weekly_hours"`
	OvertimeThreshold *float64 `json:"overtime_threshold,omitempty"`
	ScheduleID        string   `json:"schedule_id"`
	CreatedAt         string   `json:"created_at"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToResponse maps a built schedule for the API.
func (s Schedule) ToResponse() ScheduleResponse {
	resp := ScheduleResponse{
		ID:                  s.ID,
		Label:               s.Label,
		Abbreviation:        s.Abbreviation,
		ScheduleType:        s.ScheduleType,
		StartTime:           s.Start.String(),
		EndTime:             s.End.String(),
		BreakMinutes:        s.BreakMinutes,
		TheoreticalDayHours: s.TheoreticalDayHours,
		Periods:             make([]PeriodResponse, 0, len(s.Periods)),
		CreatedAt:           formatTimestamp(s.CreatedAt),
		UpdatedAt:           formatTimestamp(s.UpdatedAt),
	}
	for _, p := range s.Periods {
		pr := PeriodResponse{
			Name:            p.Name,
			StartTime:       p.Start.String(),
			EndTime:         p.End.String(),
			PeriodType:      string(p.PeriodType),
			DurationHours:   p.Duration().Hours(),
			CrossesMidnight: p.CrossesMidnight(),
			Ranges:          make([]TimeRangeResponse, 0, len(p.Ranges)),
		}
		for _, r := range p.Ranges {
			pr.Ranges = append(pr.Ranges, TimeRangeResponse{
				Name:                 r.Name,
				StartTime:            r.Start.String(),
				EndTime:              r.End.String(),
				RangeType:            string(r.RangeType),
				Multiplier:           r.EffectiveMultiplier().String(),
				MultiplierOverridden: r.MultiplierOverridden,
				CrossesMidnight:      r.CrossesMidnight(),
			})
		}
		resp.Periods = append(resp.Periods, pr)
	}
	return resp
}

func (w WorkCycle) ToResponse() WorkCycleResponse {
	return WorkCycleResponse{
		ID:                w.ID,
		Name:              w.Name,
		CycleType:         string(w.CycleType),
		CycleDays:         w.CycleDays,
		WeeklyHours:       w.WeeklyHours,
		OvertimeThreshold: w.OvertimeThreshold,
		ScheduleID:        w.ScheduleID,
		CreatedAt:         formatTimestamp(w.CreatedAt),
	}
}

// ToWorkCycle converts a validated request. Call Validate first.
func (r *CreateWorkCycleRequest) ToWorkCycle() WorkCycle {
	cycleType, _ := ParseCycleType(r.CycleType)
	w := WorkCycle{
		Name:              r.Name,
		CycleType:         cycleType,
		WeeklyHours:       r.WeeklyHours,
		OvertimeThreshold: r.OvertimeThreshold,
		ScheduleID:        r.ScheduleID,
	}
	if r.CycleDays != nil {
		w.CycleDays = *r.CycleDays
	}
	return w
}

// NewRateResolutionResponse maps a resolution for the API.
func NewRateResolutionResponse(scheduleID string, at time.Time, res Resolution) RateResolutionResponse {
	resp := RateResolutionResponse{
		ScheduleID: scheduleID,
		At:         formatTimestamp(at),
		PeriodName: res.Period.Name,
		PeriodType: string(res.Period.PeriodType),
		Multiplier: res.Multiplier.String(),
	}
	if res.Range != nil {
		name, rangeType := res.Range.Name, string(res.Range.RangeType)
		resp.RangeName = &name
		resp.RangeType = &rangeType
	}
	return resp
}
