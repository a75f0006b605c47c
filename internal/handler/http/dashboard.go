package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns the statistics of one month, the current one by default
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService, now: time.Now}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()
	req := dashboard.StatisticsRequest{
		Year:  queryInt(r, "year", now.Year()),
		Month: queryInt(r, "month", int(now.Month())),
		Top:   queryInt(r, "top", 0),
	}

	result, err := h.dashboardService.GetStatistics(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
