package cache

import (
	"context"
	"time"
)

// Store is the cache contract the search-analytics client depends on.
// Values are opaque byte slices so in-memory and networked backends can
// share one interface. Absence of a value is the only miss signal; the
// client never inspects staleness itself.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context, prefix string) error
}
