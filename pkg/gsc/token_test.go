package gsc

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshingTokenProvider_CachesUntilStale(t *testing.T) {
	refreshes := 0
	provider := NewRefreshingTokenProvider(func(context.Context) (string, time.Time, error) {
		refreshes++
		return "tok", time.Now().Add(time.Hour), nil
	})

	for i := 0; i < 3; i++ {
		token, err := provider.ValidateAndRefreshToken(context.Background())
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if token != "tok" {
			t.Errorf("Expected tok, got %q", token)
		}
	}

	if refreshes != 1 {
		t.Errorf("Expected a single refresh for a fresh token, got %d", refreshes)
	}
}

func TestRefreshingTokenProvider_RefreshesExpired(t *testing.T) {
	refreshes := 0
	provider := NewRefreshingTokenProvider(func(context.Context) (string, time.Time, error) {
		refreshes++
		// Already inside the expiry leeway, so every call refreshes
		return "tok", time.Now(), nil
	})

	provider.ValidateAndRefreshToken(context.Background())
	provider.ValidateAndRefreshToken(context.Background())

	if refreshes != 2 {
		t.Errorf("Expected refresh on every call for a stale token, got %d", refreshes)
	}
}

func TestRefreshingTokenProvider_PropagatesError(t *testing.T) {
	refreshErr := errors.New("refresh grant revoked")
	provider := NewRefreshingTokenProvider(func(context.Context) (string, time.Time, error) {
		return "", time.Time{}, refreshErr
	})

	_, err := provider.ValidateAndRefreshToken(context.Background())
	if !errors.Is(err, refreshErr) {
		t.Errorf("Expected refresh error, got %v", err)
	}
}
