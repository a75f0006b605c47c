package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	ValidatePeriod(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	validationService validation.ValidationService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, validationService validation.ValidationService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		validationService: validationService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// MarkAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAbsentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.MarkAbsent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee marked absent", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.TimeEntryFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
		Status:     queryPtr(r, "status"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.attendanceService.ListEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Entries, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Correct implements AttendanceHandler.
func (h *attendanceHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	var req attendance.CorrectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.CorrectEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry corrected successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry deleted successfully", nil)
}

// Validate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidateEntryRequest{
		EntryID:     chi.URLParam(r, "id"),
		AutoCorrect: queryBool(r, "auto_correct"),
	}

	result, err := h.validationService.ValidateEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ValidatePeriod implements AttendanceHandler.
func (h *attendanceHandlerImpl) ValidatePeriod(w http.ResponseWriter, r *http.Request) {
	var req validation.ValidatePeriodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.validationService.ValidatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
