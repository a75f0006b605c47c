package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExtraHoursHandler interface {
	DeclareOvertime(w http.ResponseWriter, r *http.Request)
	DeclareSpecialHours(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type extraHoursHandlerImpl struct {
	extraHoursService extrahours.ExtraHoursService
}

func NewExtraHoursHandler(extraHoursService extrahours.ExtraHoursService) ExtraHoursHandler {
	return &extraHoursHandlerImpl{
		extraHoursService: extraHoursService,
	}
}

// DeclareOvertime implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) DeclareOvertime(w http.ResponseWriter, r *http.Request) {
	var req extrahours.DeclareOvertimeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.extraHoursService.DeclareOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime declared successfully", result)
}

// DeclareSpecialHours implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) DeclareSpecialHours(w http.ResponseWriter, r *http.Request) {
	var req extrahours.DeclareSpecialHoursRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.extraHoursService.DeclareSpecialHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Special hours declared successfully", result)
}

// Get implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.extraHoursService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := extrahours.RecordFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Kind:       queryPtr(r, "kind"),
		Status:     queryPtr(r, "status"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.extraHoursService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Records, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	})
}

// Update implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req extrahours.UpdateRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.extraHoursService.UpdateRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record updated successfully", result)
}

// Approve implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := extrahours.DecisionRequest{ID: chi.URLParam(r, "id")}

	result, err := h.extraHoursService.ApproveRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record approved successfully", result)
}

// Reject implements ExtraHoursHandler.
func (h *extraHoursHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req extrahours.DecisionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.extraHoursService.RejectRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record rejected successfully", result)
}
