package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type PayrollHandler interface {
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ExportPayslipPDF(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func payslipRequest(r *http.Request) payroll.PayslipRequest {
	return payroll.PayslipRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  r.URL.Query().Get("start"),
		EndDate:    r.URL.Query().Get("end"),
	}
}

// GetPayslip handles GET /payroll/payslip
func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayslip(r.Context(), payslipRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPayslipPDF handles GET /payroll/payslip/pdf
func (h *payrollHandlerImpl) ExportPayslipPDF(w http.ResponseWriter, r *http.Request) {
	req := payslipRequest(r)

	data, err := h.payrollService.ExportPayslipPDF(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "application/pdf", fmt.Sprintf("payslip_%s_%s.pdf", req.EmployeeID, req.StartDate), data)
}
