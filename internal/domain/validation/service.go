package validation

import "context"

type ValidationService interface {
	// ValidateEntry checks one entry. An entry that is already validated returns its last report.
	ValidateEntry(ctx context.Context, req ValidateEntryRequest) (ReportResponse, error)

	// ValidatePeriod checks every entry of the employee in the date range and aggregates statistics
	ValidatePeriod(ctx context.Context, req ValidatePeriodRequest) (PeriodReportResponse, error)
}
