package gsc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"searchconsole-go/pkg/analytics"
	"searchconsole-go/pkg/logger"
)

// DefaultEndpoint is the production Search Console API base URL.
const DefaultEndpoint = "https://www.googleapis.com/webmasters/v3"

const requestTimeout = 30 * time.Second

// queryRequest is the upstream searchAnalytics/query body.
type queryRequest struct {
	StartDate             string            `json:"startDate"`
	EndDate               string            `json:"endDate"`
	Dimensions            []string          `json:"dimensions"`
	RowLimit              int               `json:"rowLimit"`
	SearchType            string            `json:"searchType,omitempty"`
	DimensionFilterGroups []json.RawMessage `json:"dimensionFilterGroups,omitempty"`
	StartRow              int               `json:"startRow,omitempty"`
}

// apiRow is one raw row from the upstream response. Numeric fields
// arrive as JSON numbers and may be fractional or malformed; the
// validator deals with that after transformation.
type apiRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// queryResponse is the upstream response envelope. A missing rows array
// means zero results, not an error.
type queryResponse struct {
	Rows []apiRow `json:"rows"`
}

type upstreamError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// transport issues one searchAnalytics/query call. Separated from the
// client so tests can substitute a fake without touching the network.
type transport interface {
	querySearchAnalytics(ctx context.Context, token, siteURL string, body queryRequest) (*queryResponse, error)
}

type httpTransport struct {
	endpoint string
	client   *fasthttp.Client
	log      *logger.Logger
}

func newHTTPTransport(endpoint string) *httpTransport {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &httpTransport{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         requestTimeout,
			WriteTimeout:        requestTimeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		log: logger.GetLogger().WithField("component", "gsc_transport"),
	}
}

// sitePathSegment escapes a site identifier for use in the API path.
// Domain properties (sc-domain:example.com) are passed through
// unescaped; ordinary URL-prefix properties are percent-encoded.
func sitePathSegment(site string) string {
	if strings.HasPrefix(site, "sc-domain:") {
		return site
	}
	return url.QueryEscape(site)
}

func (t *httpTransport) querySearchAnalytics(ctx context.Context, token, siteURL string, body queryRequest) (*queryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query body: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	fullURL := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", t.endpoint, sitePathSegment(siteURL))
	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.SetBody(payload)

	start := time.Now()
	if err := t.client.DoTimeout(req, resp, requestTimeout); err != nil {
		return nil, fmt.Errorf("search analytics request failed: %w", err)
	}

	status := resp.StatusCode()
	t.log.WithFields(map[string]interface{}{
		"site":        siteURL,
		"status":      status,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Search analytics query completed")

	if status < 200 || status > 299 {
		message := fasthttp.StatusMessage(status)
		var upErr upstreamError
		if json.Unmarshal(resp.Body(), &upErr) == nil && upErr.Error.Message != "" {
			message = upErr.Error.Message
		}
		return nil, &analytics.UpstreamAPIError{StatusCode: status, Message: message}
	}

	var result queryResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &analytics.ValidationError{Reason: "malformed response body from search analytics API"}
	}

	return &result, nil
}
