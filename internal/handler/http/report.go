package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// GetSummary returns the period summary
	GetSummary(w http.ResponseWriter, r *http.Request)
	// ExportSummary streams the period summary as an XLSX workbook
	ExportSummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func summaryRequest(r *http.Request) report.SummaryRequest {
	return report.SummaryRequest{
		StartDate:  r.URL.Query().Get("start"),
		EndDate:    r.URL.Query().Get("end"),
		EmployeeID: queryPtr(r, "employee_id"),
	}
}

// GetSummary handles GET /reports/summary
func (h *reportHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PeriodSummary(r.Context(), summaryRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportSummary handles GET /reports/summary/export
func (h *reportHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	req := summaryRequest(r)

	data, err := h.reportService.ExportPeriodSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, contentTypeXLSX, fmt.Sprintf("summary_%s_%s.xlsx", req.StartDate, req.EndDate), data)
}
