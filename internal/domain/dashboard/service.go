package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStatistics returns the month's statistics with a six-month trend computed in parallel
	GetStatistics(ctx context.Context, req StatisticsRequest) (StatisticsResponse, error)
}
