package payroll

import "context"

type PayrollService interface {
	// GetPayslip returns the employee's records and totals for the date range
	GetPayslip(ctx context.Context, req PayslipRequest) (PayslipResponse, error)

	// ExportPayslipPDF renders GetPayslip as a PDF document
	ExportPayslipPDF(ctx context.Context, req PayslipRequest) ([]byte, error)
}
