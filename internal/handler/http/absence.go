package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &absenceHandlerImpl{
		absenceService: absenceService,
	}
}

// Request implements AbsenceHandler.
func (h *absenceHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req absence.CreateAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.absenceService.RequestAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence requested successfully", result)
}

// Update implements AbsenceHandler.
func (h *absenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req absence.UpdateAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.absenceService.UpdateAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence updated successfully", result)
}

// Get implements AbsenceHandler.
func (h *absenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.absenceService.GetAbsence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AbsenceHandler.
func (h *absenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := absence.AbsenceFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Status:     queryPtr(r, "status"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.absenceService.ListAbsences(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Absences, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	})
}

// Approve implements AbsenceHandler.
func (h *absenceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := absence.DecisionRequest{ID: chi.URLParam(r, "id")}

	result, err := h.absenceService.ApproveAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence approved successfully", result)
}

// Reject implements AbsenceHandler.
func (h *absenceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req absence.DecisionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.absenceService.RejectAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected successfully", result)
}
