package analytics

import "fmt"

// AuthenticationError means no valid credential could be obtained. Not
// retried locally; callers should prompt for re-authentication.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication failed: no valid access token"
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// UpstreamAPIError is a non-2xx response from the search-analytics
// endpoint. Message carries the provider's error text when present,
// else the HTTP status text.
type UpstreamAPIError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("search analytics API error (status %d): %s", e.StatusCode, e.Message)
}

// ValidationError is an aggregate-level sanity failure that could not be
// auto-corrected. It indicates a logic bug rather than noisy upstream
// data, so it fails loudly.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
