package service

import (
	"context"

	"searchconsole-go/pkg/analytics"
)

// SearchAnalytics is the surface the HTTP layer consumes. *gsc.Client
// satisfies it; handlers depend on the interface so tests can stub the
// whole analytics pipeline.
type SearchAnalytics interface {
	GetTopQueries(ctx context.Context, site, startDate, endDate string, limit int) ([]analytics.DataPoint, error)
	GetTopPages(ctx context.Context, site, startDate, endDate string, limit int) ([]analytics.DataPoint, error)
	GetAggregatedMetrics(ctx context.Context, site, startDate, endDate string) (analytics.AggregatedMetrics, error)
	GetTrendData(ctx context.Context, site, startDate, endDate string) (analytics.TrendData, error)
	GetRankingDistribution(ctx context.Context, site, startDate, endDate string) (analytics.RankingDistribution, error)
	GetAvailableCountries(ctx context.Context, site, startDate, endDate string) ([]analytics.CountryOption, error)
	SyncData(ctx context.Context, startDate, endDate string, sites ...string) error
	ClearCache(ctx context.Context, prefix string) error
}
