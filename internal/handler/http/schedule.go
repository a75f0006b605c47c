package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ResolveRate(w http.ResponseWriter, r *http.Request)
	CreateWorkCycle(w http.ResponseWriter, r *http.Request)
	GetWorkCycle(w http.ResponseWriter, r *http.Request)
	ListWorkCycles(w http.ResponseWriter, r *http.Request)
	AssignWorkCycle(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// Create implements ScheduleHandler.
func (h *scheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.scheduleService.CreateSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule created successfully", result)
}

// Update implements ScheduleHandler.
func (h *scheduleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req schedule.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.scheduleService.UpdateSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule updated successfully", result)
}

// Get implements ScheduleHandler.
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ScheduleHandler.
func (h *scheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.scheduleService.ListSchedules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ResolveRate implements ScheduleHandler.
func (h *scheduleHandlerImpl) ResolveRate(w http.ResponseWriter, r *http.Request) {
	req := schedule.ResolveRateRequest{
		ScheduleID: chi.URLParam(r, "id"),
		At:         r.URL.Query().Get("at"),
	}

	result, err := h.scheduleService.ResolveRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateWorkCycle implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateWorkCycle(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateWorkCycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.scheduleService.CreateWorkCycle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work cycle created successfully", result)
}

// GetWorkCycle implements ScheduleHandler.
func (h *scheduleHandlerImpl) GetWorkCycle(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetWorkCycle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWorkCycles implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListWorkCycles(w http.ResponseWriter, r *http.Request) {
	results, err := h.scheduleService.ListWorkCycles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// AssignWorkCycle implements ScheduleHandler.
func (h *scheduleHandlerImpl) AssignWorkCycle(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignWorkCycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	if err := h.scheduleService.AssignWorkCycle(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work cycle assigned successfully", nil)
}
