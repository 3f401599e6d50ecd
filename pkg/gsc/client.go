package gsc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"searchconsole-go/pkg/analytics"
	"searchconsole-go/pkg/cache"
	"searchconsole-go/pkg/keyword"
	"searchconsole-go/pkg/logger"
	"searchconsole-go/pkg/queue"
	"searchconsole-go/pkg/validator"
)

const (
	defaultRowLimit = 1000
	// maxRowLimit is the upstream per-request row ceiling.
	maxRowLimit = 25000
	// DefaultCacheTTL is the concrete expiry applied to cached result
	// sets. One hour keeps dashboards responsive without serving
	// day-old numbers.
	DefaultCacheTTL = time.Hour
)

// ProgressFunc receives monotonically increasing percentage milestones
// with a human-readable stage label. Purely observational; it never
// affects control flow or results.
type ProgressFunc func(percent int, stage string)

// FetchOption customizes a single fetch call.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	progress ProgressFunc
}

// WithProgress attaches a progress callback to one fetch.
func WithProgress(fn ProgressFunc) FetchOption {
	return func(o *fetchOptions) {
		o.progress = fn
	}
}

// SyncRecorder persists the timestamp of the last bulk warm-up.
type SyncRecorder interface {
	SetLastSync(t time.Time) error
}

// Config carries the client's construction parameters.
type Config struct {
	// Endpoint overrides the production API base URL, mainly for tests.
	Endpoint string
	// RateLimit is the sustained upstream requests-per-second ceiling.
	RateLimit int
	// CacheTTL is the expiry for cached result sets.
	CacheTTL time.Duration
}

// Client orchestrates cache, queue, validation and classification to
// expose search-analytics aggregations. Construct one per composition
// root and inject it; there is no package-level shared instance.
type Client struct {
	tokens     TokenProvider
	store      cache.Store
	queue      *queue.Queue[*queryResponse]
	transport  transport
	classifier *keyword.Classifier
	recorder   SyncRecorder
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewClient wires a search-analytics client. recorder may be nil when
// no sync bookkeeping is wanted (e.g. ad-hoc CLI runs).
func NewClient(cfg Config, tokens TokenProvider, store cache.Store, rules keyword.RuleProvider, recorder SyncRecorder) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		tokens:     tokens,
		store:      store,
		queue:      queue.New[*queryResponse](cfg.RateLimit),
		transport:  newHTTPTransport(cfg.Endpoint),
		classifier: keyword.NewClassifier(rules),
		recorder:   recorder,
		cacheTTL:   ttl,
		log:        logger.GetLogger().WithField("component", "gsc_client"),
	}
}

// FetchSearchAnalyticsData is the foundational primitive every other
// operation composes from. The cache key excludes the keyword-type
// filter, so one upstream fetch serves all keyword-type views; the
// unfiltered transformed rows are what gets cached.
func (c *Client) FetchSearchAnalyticsData(ctx context.Context, req analytics.Request, opts ...FetchOption) ([]analytics.DataPoint, error) {
	var options fetchOptions
	for _, opt := range opts {
		opt(&options)
	}
	report := progressReporter(options.progress)

	req = normalizeRequest(req)
	key := cacheKey(req)

	report(10, "checking cache")
	if raw, ok := c.store.Get(ctx, key); ok {
		var points []analytics.DataPoint
		if err := json.Unmarshal(raw, &points); err == nil {
			c.log.WithField("cache_key", key).Debug("Serving search analytics from cache")
			report(100, "served from cache")
			return validator.ValidateRows(filterByKeywordType(points, req.KeywordType)), nil
		}
		c.log.WithField("cache_key", key).Warn("Discarding corrupt cache entry")
	}

	report(20, "authenticating")
	token, err := c.tokens.ValidateAndRefreshToken(ctx)
	if err != nil {
		return nil, &analytics.AuthenticationError{Reason: err.Error()}
	}
	if token == "" {
		return nil, &analytics.AuthenticationError{}
	}

	report(40, "requesting search analytics")
	body := buildQueryBody(req)
	resp, err := c.queue.Enqueue(ctx, func() (*queryResponse, error) {
		return c.transport.querySearchAnalytics(ctx, token, req.SiteURL, body)
	})
	if err != nil {
		return nil, err
	}

	report(70, "transforming rows")
	points := c.transformRows(req, resp.Rows)

	report(85, "caching results")
	if raw, err := json.Marshal(points); err == nil {
		if err := c.store.Set(ctx, key, raw, c.cacheTTL); err != nil {
			c.log.WithError(err).Warn("Failed to cache search analytics result")
		}
	}

	report(95, "validating")
	out := validator.ValidateRows(filterByKeywordType(points, req.KeywordType))
	report(100, "done")
	return out, nil
}

// GetTopQueries returns the top queries by clicks, descending. Equal
// click counts keep their upstream order.
func (c *Client) GetTopQueries(ctx context.Context, site, startDate, endDate string, limit int) ([]analytics.DataPoint, error) {
	return c.topByClicks(ctx, site, startDate, endDate, limit, analytics.DimensionQuery)
}

// GetTopPages returns the top pages by clicks, descending.
func (c *Client) GetTopPages(ctx context.Context, site, startDate, endDate string, limit int) ([]analytics.DataPoint, error) {
	return c.topByClicks(ctx, site, startDate, endDate, limit, analytics.DimensionPage)
}

func (c *Client) topByClicks(ctx context.Context, site, startDate, endDate string, limit int, dim analytics.Dimension) ([]analytics.DataPoint, error) {
	points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
		SiteURL:    site,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []analytics.Dimension{dim},
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Clicks > points[j].Clicks
	})
	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

// GetAggregatedMetrics totals clicks and impressions over the range.
// Average position is impression-weighted: rows carrying most of the
// traffic dominate the mean, which matters when traffic is concentrated
// in a few rows.
func (c *Client) GetAggregatedMetrics(ctx context.Context, site, startDate, endDate string) (analytics.AggregatedMetrics, error) {
	points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
		SiteURL:   site,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return analytics.AggregatedMetrics{}, err
	}

	var metrics analytics.AggregatedMetrics
	var weightedPosition float64
	for _, p := range points {
		metrics.TotalClicks += p.Clicks
		metrics.TotalImpressions += p.Impressions
		weightedPosition += p.Position * float64(p.Impressions)
	}
	if metrics.TotalImpressions > 0 {
		metrics.AvgCTR = float64(metrics.TotalClicks) / float64(metrics.TotalImpressions)
		metrics.AvgPosition = weightedPosition / float64(metrics.TotalImpressions)
	}

	if err := validator.ValidateMetrics(metrics); err != nil {
		return analytics.AggregatedMetrics{}, err
	}
	return metrics, nil
}

// GetTrendData returns per-day series aligned by index to Labels.
// Sorting is lexicographic on the date string, which is chronological
// for ISO dates.
func (c *Client) GetTrendData(ctx context.Context, site, startDate, endDate string) (analytics.TrendData, error) {
	points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
		SiteURL:    site,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []analytics.Dimension{analytics.DimensionDate},
	})
	if err != nil {
		return analytics.TrendData{}, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	trend := analytics.TrendData{
		Labels:      make([]string, 0, len(points)),
		Clicks:      make([]int, 0, len(points)),
		Impressions: make([]int, 0, len(points)),
		CTR:         make([]float64, 0, len(points)),
		Position:    make([]float64, 0, len(points)),
	}
	for _, p := range points {
		trend.Labels = append(trend.Labels, p.Date)
		trend.Clicks = append(trend.Clicks, p.Clicks)
		trend.Impressions = append(trend.Impressions, p.Impressions)
		trend.CTR = append(trend.CTR, p.CTR)
		trend.Position = append(trend.Position, p.Position)
	}
	return trend, nil
}

// GetRankingDistribution buckets queries by average position.
func (c *Client) GetRankingDistribution(ctx context.Context, site, startDate, endDate string) (analytics.RankingDistribution, error) {
	points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
		SiteURL:    site,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []analytics.Dimension{analytics.DimensionQuery},
		RowLimit:   maxRowLimit,
	})
	if err != nil {
		return analytics.RankingDistribution{}, err
	}

	var dist analytics.RankingDistribution
	for _, p := range points {
		switch {
		case p.Position <= 3:
			dist.Top3++
		case p.Position <= 10:
			dist.Top10++
		case p.Position <= 20:
			dist.Top20++
		case p.Position <= 50:
			dist.Top50++
		default:
			dist.Below50++
		}
	}
	return dist, nil
}

// GetAvailableCountries discovers which countries have traffic for the
// site. Discovery is best-effort: any upstream failure degrades to the
// sentinel-only list because country listing is a UI convenience, not a
// critical path.
func (c *Client) GetAvailableCountries(ctx context.Context, site, startDate, endDate string) ([]analytics.CountryOption, error) {
	options := []analytics.CountryOption{{Label: "All Countries", Value: "all"}}

	// First pass: country dimension alone, impressions above the noise
	// floor.
	points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
		SiteURL:    site,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []analytics.Dimension{analytics.DimensionCountry},
	})
	if err != nil {
		c.log.WithError(err).Debug("Country discovery failed, returning default list")
		return options, nil
	}

	seen := make(map[string]bool)
	for _, p := range points {
		if p.Impressions > 1 && isCountryCode(p.Country) && !seen[p.Country] {
			seen[p.Country] = true
			options = append(options, analytics.CountryOption{
				Label: countryLabel(p.Country),
				Value: p.Country,
			})
		}
	}

	// Fallback: broaden to country+query and accept any valid code.
	if len(options) == 1 {
		points, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
			SiteURL:    site,
			StartDate:  startDate,
			EndDate:    endDate,
			Dimensions: []analytics.Dimension{analytics.DimensionCountry, analytics.DimensionQuery},
			RowLimit:   maxRowLimit,
		})
		if err != nil {
			c.log.WithError(err).Debug("Broad country discovery failed, returning default list")
			return options, nil
		}
		for _, p := range points {
			if isCountryCode(p.Country) && !seen[p.Country] {
				seen[p.Country] = true
				options = append(options, analytics.CountryOption{
					Label: countryLabel(p.Country),
					Value: p.Country,
				})
			}
		}
	}

	return options, nil
}

// SyncData warms the cache across the dimensions the dashboard reads
// (query, page, device, country) plus trend data for each site, then
// records the sync timestamp. Individual fetch failures are collected
// rather than aborting the remaining work.
func (c *Client) SyncData(ctx context.Context, startDate, endDate string, sites ...string) error {
	dims := [][]analytics.Dimension{
		{analytics.DimensionQuery},
		{analytics.DimensionPage},
		{analytics.DimensionDevice},
		{analytics.DimensionCountry},
	}

	var errs []error
	for _, site := range sites {
		for _, d := range dims {
			_, err := c.FetchSearchAnalyticsData(ctx, analytics.Request{
				SiteURL:    site,
				StartDate:  startDate,
				EndDate:    endDate,
				Dimensions: d,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("site %s dims %v: %w", site, d, err))
			}
		}
		if _, err := c.GetTrendData(ctx, site, startDate, endDate); err != nil {
			errs = append(errs, fmt.Errorf("site %s trend: %w", site, err))
		}
	}

	if c.recorder != nil {
		if err := c.recorder.SetLastSync(time.Now()); err != nil {
			c.log.WithError(err).Warn("Failed to record sync timestamp")
		}
	}

	return errors.Join(errs...)
}

// ClearCache removes cached analytics entries. An empty prefix clears
// the whole analytics namespace.
func (c *Client) ClearCache(ctx context.Context, prefix string) error {
	if prefix == "" {
		prefix = cacheKeyPrefix
	}
	return c.store.Clear(ctx, prefix)
}

// normalizeRequest applies defaults before the cache key is computed so
// equivalent requests share one entry.
func normalizeRequest(req analytics.Request) analytics.Request {
	if len(req.Dimensions) == 0 {
		req.Dimensions = []analytics.Dimension{analytics.DimensionQuery}
	}
	if req.RowLimit <= 0 {
		req.RowLimit = defaultRowLimit
	}
	if req.RowLimit > maxRowLimit {
		req.RowLimit = maxRowLimit
	}
	if req.SearchType == "" {
		req.SearchType = analytics.SearchTypeWeb
	}
	if req.KeywordType == "" {
		req.KeywordType = analytics.KeywordAll
	}
	return req
}

func buildQueryBody(req analytics.Request) queryRequest {
	dims := make([]string, len(req.Dimensions))
	for i, d := range req.Dimensions {
		dims[i] = string(d)
	}
	return queryRequest{
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		Dimensions:            dims,
		RowLimit:              req.RowLimit,
		SearchType:            req.SearchType,
		DimensionFilterGroups: req.DimensionFilterGroups,
		StartRow:              req.StartRow,
	}
}

// transformRows maps raw rows to DataPoints. Row keys are positional:
// keys[i] belongs to the i-th requested dimension, so dimension order
// must be preserved end to end. Queries are classified branded or
// non-branded at transform time when the query dimension is present.
func (c *Client) transformRows(req analytics.Request, rows []apiRow) []analytics.DataPoint {
	hasQuery := false
	for _, d := range req.Dimensions {
		if d == analytics.DimensionQuery {
			hasQuery = true
			break
		}
	}

	points := make([]analytics.DataPoint, 0, len(rows))
	for _, row := range rows {
		p := analytics.DataPoint{
			Clicks:      int(row.Clicks),
			Impressions: int(row.Impressions),
			CTR:         row.CTR,
			Position:    row.Position,
		}
		for i, d := range req.Dimensions {
			if i >= len(row.Keys) {
				break
			}
			switch d {
			case analytics.DimensionQuery:
				p.Query = row.Keys[i]
			case analytics.DimensionPage:
				p.Page = row.Keys[i]
			case analytics.DimensionDevice:
				p.Device = row.Keys[i]
			case analytics.DimensionCountry:
				p.Country = row.Keys[i]
			case analytics.DimensionDate:
				p.Date = row.Keys[i]
			}
		}
		if hasQuery {
			p.KeywordType = c.classifier.Classify(p.Query)
		}
		points = append(points, p)
	}
	return points
}

func filterByKeywordType(points []analytics.DataPoint, kt analytics.KeywordType) []analytics.DataPoint {
	if kt == "" || kt == analytics.KeywordAll {
		return points
	}
	filtered := make([]analytics.DataPoint, 0, len(points))
	for _, p := range points {
		if p.KeywordType == kt {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// progressReporter wraps the optional callback and enforces monotonic
// milestones even if stages are revisited.
func progressReporter(fn ProgressFunc) func(int, string) {
	if fn == nil {
		return func(int, string) {}
	}
	last := -1
	return func(percent int, stage string) {
		if percent <= last {
			return
		}
		last = percent
		fn(percent, stage)
	}
}
