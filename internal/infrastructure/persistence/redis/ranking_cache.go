package redis

import (
	"context"
	"errors"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING CACHE
// ══════════════════════════════════════════════════════════════════════════════

// keyAllocationResult is the key prefix for cached allocation passes.
const keyAllocationResult = "allocation:result:"

// RankingCache implements allocation.ResultCache over Redis. One key per
// scholarship holds the full serialized pass; submit/approve/reject
// invalidate it so a stale ranking never outlives the data it ranked.
type RankingCache struct {
	cache *Cache
}

// NewRankingCache creates a RankingCache on top of the general cache client.
func NewRankingCache(cache *Cache) *RankingCache {
	return &RankingCache{cache: cache}
}

// Get returns the cached pass for a scholarship.
// Returns shared.ErrNotFound on a miss so callers recompute.
func (c *RankingCache) Get(ctx context.Context, scholarshipID string) (*allocation.Result, error) {
	var result allocation.Result
	err := c.cache.Get(ctx, keyAllocationResult+scholarshipID, &result)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Set stores an allocation pass with the given TTL.
func (c *RankingCache) Set(ctx context.Context, result *allocation.Result, ttl time.Duration) error {
	return c.cache.Set(ctx, keyAllocationResult+result.ScholarshipID, result, ttl)
}

// Invalidate drops the cached pass for a scholarship.
func (c *RankingCache) Invalidate(ctx context.Context, scholarshipID string) error {
	return c.cache.Delete(ctx, keyAllocationResult+scholarshipID)
}
