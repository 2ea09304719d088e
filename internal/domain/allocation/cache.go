package allocation

import (
	"context"
	"time"
)

// ResultCache caches allocation results per scholarship. Caching is an
// optimization only: a miss or a cache failure must fall back to a fresh
// run, never surface as an error to the caller.
type ResultCache interface {
	// Get returns the cached result for a scholarship, or an error on miss.
	Get(ctx context.Context, scholarshipID string) (*Result, error)

	// Set stores a result with the given TTL.
	Set(ctx context.Context, result *Result, ttl time.Duration) error

	// Invalidate drops the cached result for a scholarship. Called after
	// any state change that affects ranking: approval, rejection, new
	// submission, and scholarship edits, deletion or expiry.
	Invalidate(ctx context.Context, scholarshipID string) error
}
