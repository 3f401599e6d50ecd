package analytics

import "encoding/json"

// Dimension is a grouping axis for search-analytics rows.
type Dimension string

const (
	DimensionQuery   Dimension = "query"
	DimensionPage    Dimension = "page"
	DimensionDevice  Dimension = "device"
	DimensionCountry Dimension = "country"
	DimensionDate    Dimension = "date"
)

// KeywordType classifies a query as referencing the site owner's brand.
type KeywordType string

const (
	KeywordAll        KeywordType = "all"
	KeywordBranded    KeywordType = "branded"
	KeywordNonBranded KeywordType = "non-branded"
)

// Search surfaces accepted by the upstream API.
const (
	SearchTypeWeb      = "web"
	SearchTypeImage    = "image"
	SearchTypeVideo    = "video"
	SearchTypeNews     = "news"
	SearchTypeDiscover = "discover"
)

// Request describes one search-analytics query. Dimension order is
// significant: it determines the positional mapping of returned row keys
// and must be preserved end to end.
//
// DimensionFilterGroups are opaque to this module - they are forwarded
// to the upstream API verbatim and hashed for cache-key purposes, never
// interpreted.
type Request struct {
	SiteURL               string            `json:"siteUrl"`
	StartDate             string            `json:"startDate"`
	EndDate               string            `json:"endDate"`
	Dimensions            []Dimension       `json:"dimensions,omitempty"`
	RowLimit              int               `json:"rowLimit,omitempty"`
	SearchType            string            `json:"searchType,omitempty"`
	DimensionFilterGroups []json.RawMessage `json:"dimensionFilterGroups,omitempty"`
	StartRow              int               `json:"startRow,omitempty"`
	KeywordType           KeywordType       `json:"keywordType,omitempty"`
}

// DataPoint is one aggregated search-analytics row. Key fields are
// populated only when the corresponding dimension was requested.
type DataPoint struct {
	Query       string      `json:"query"`
	Page        string      `json:"page,omitempty"`
	Device      string      `json:"device,omitempty"`
	Country     string      `json:"country,omitempty"`
	Date        string      `json:"date,omitempty"`
	Clicks      int         `json:"clicks"`
	Impressions int         `json:"impressions"`
	CTR         float64     `json:"ctr"`
	Position    float64     `json:"position"`
	KeywordType KeywordType `json:"keywordType,omitempty"`
}

// AggregatedMetrics summarizes a result set. AvgPosition is the
// impression-weighted mean of per-row positions, not a naive average.
type AggregatedMetrics struct {
	TotalClicks      int     `json:"totalClicks"`
	TotalImpressions int     `json:"totalImpressions"`
	AvgCTR           float64 `json:"avgCtr"`
	AvgPosition      float64 `json:"avgPosition"`
}

// TrendData holds parallel arrays aligned by index to Labels, which are
// ISO dates in ascending order.
type TrendData struct {
	Labels      []string  `json:"labels"`
	Clicks      []int     `json:"clicks"`
	Impressions []int     `json:"impressions"`
	CTR         []float64 `json:"ctr"`
	Position    []float64 `json:"position"`
}

// RankingDistribution buckets rows by average position. Buckets are
// half-open so every row falls into exactly one.
type RankingDistribution struct {
	Top3    int `json:"top3"`
	Top10   int `json:"top10"`
	Top20   int `json:"top20"`
	Top50   int `json:"top50"`
	Below50 int `json:"below50"`
}

// CountryOption is a selectable country for UI filtering.
type CountryOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
