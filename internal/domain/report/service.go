package report

import (
	"context"
	"time"
)

type ReportService interface {
	// PeriodSummary totals entries and absences of one employee, or of everyone when no
	// employee is given
	PeriodSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// ExportPeriodSummary renders PeriodSummary as an XLSX workbook
	ExportPeriodSummary(ctx context.Context, req SummaryRequest) ([]byte, error)

	// Summarize is the unauthorized read behind PeriodSummary, reused by the dashboard trend
	Summarize(ctx context.Context, start, end time.Time, employeeID *string) (PeriodSummary, error)
}
