package gsc

import (
	"context"
	"sync"
	"time"
)

// TokenProvider supplies a valid bearer credential for the upstream
// search-analytics API. An empty token or an error is treated as
// unrecoverable for the current call; the client does not implement
// refresh logic itself.
type TokenProvider interface {
	ValidateAndRefreshToken(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token, typically sourced from an
// environment variable for CLI runs.
type StaticTokenProvider struct {
	Token string
}

func (p *StaticTokenProvider) ValidateAndRefreshToken(_ context.Context) (string, error) {
	return p.Token, nil
}

// RefreshFunc exchanges a stale credential for a fresh token and its
// expiry time.
type RefreshFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// RefreshingTokenProvider caches a token until shortly before expiry and
// calls refresh when it goes stale.
type RefreshingTokenProvider struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	refresh   RefreshFunc
	leeway    time.Duration
}

func NewRefreshingTokenProvider(refresh RefreshFunc) *RefreshingTokenProvider {
	return &RefreshingTokenProvider{
		refresh: refresh,
		leeway:  30 * time.Second,
	}
}

func (p *RefreshingTokenProvider) ValidateAndRefreshToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Add(p.leeway).Before(p.expiresAt) {
		return p.token, nil
	}

	token, expiresAt, err := p.refresh(ctx)
	if err != nil {
		return "", err
	}
	p.token = token
	p.expiresAt = expiresAt
	return token, nil
}
