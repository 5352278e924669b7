// Package cache provides the bounded, time-expiring store for resolved model
// search results. Supports an in-memory backend (the default, process-scoped)
// and a Redis backend for multi-instance deployments.
package cache

import (
	"context"
	"fmt"
	"time"

	"sceneforge/internal/core"
)

const (
	// DefaultTTL is how long a cached result set stays fresh.
	DefaultTTL = 30 * time.Minute

	// DefaultCapacity bounds the number of live entries in the memory store.
	DefaultCapacity = 20
)

// Store is the interface the resolver reads and writes through. The store
// exclusively owns entry storage; callers never touch entries directly.
//
// Contract:
//   - Get returns (nil, false) on miss or expiry; an expired entry is evicted
//     as a side effect of the failed read (lazy expiry, no background sweep).
//   - Set at capacity evicts the oldest-inserted entry; overwriting an
//     existing key resets its freshness.
//   - Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]core.ModelRecord, bool)
	Set(ctx context.Context, key string, records []core.ModelRecord)
	Clear(ctx context.Context)
	Len() int
	Close() error
}

// Key canonicalizes a query's significant fields into a cache key. Two
// queries map to the same key exactly when they are semantically identical;
// the raw prompt never participates.
func Key(q core.SearchQuery) string {
	n := q.Normalized()
	return fmt.Sprintf("models:kw=%s|cat=%s|anim=%t|limit=%d", n.Keywords, n.Category, n.Animated, n.Limit)
}
