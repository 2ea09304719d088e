package redis

import (
	"context"
	"errors"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// CIRCUIT-BROKEN RANKING CACHE
// ══════════════════════════════════════════════════════════════════════════════

// BreakerCache wraps a ResultCache with a circuit breaker. When Redis is
// unhealthy the circuit opens and every Get reports a miss, so allocation
// runs fall back to a fresh compute instead of waiting on a dead cache.
type BreakerCache struct {
	inner   allocation.ResultCache
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerCache wraps the given cache. A nil breaker gets the default
// cache profile.
func NewBreakerCache(inner allocation.ResultCache, breaker *circuitbreaker.CircuitBreaker) *BreakerCache {
	if breaker == nil {
		breaker = circuitbreaker.CacheBreaker(nil)
	}
	return &BreakerCache{inner: inner, breaker: breaker}
}

// Get returns the cached pass, or shared.ErrNotFound when the entry is
// missing or the circuit is open.
func (c *BreakerCache) Get(ctx context.Context, scholarshipID string) (*allocation.Result, error) {
	var result *allocation.Result

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = c.inner.Get(ctx, scholarshipID)
		if errors.Is(innerErr, shared.ErrNotFound) {
			// A miss is a normal outcome, not a cache failure.
			result = nil
			return nil
		}
		return innerErr
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if result == nil {
		return nil, shared.ErrNotFound
	}
	return result, nil
}

// Set stores an allocation pass. Writes are dropped while the circuit
// is open.
func (c *BreakerCache) Set(ctx context.Context, result *allocation.Result, ttl time.Duration) error {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.inner.Set(ctx, result, ttl)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return nil
	}
	return err
}

// Invalidate drops the cached pass. An open circuit swallows the call;
// the entry's TTL bounds how long a stale pass can survive the outage.
func (c *BreakerCache) Invalidate(ctx context.Context, scholarshipID string) error {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.inner.Invalidate(ctx, scholarshipID)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return nil
	}
	return err
}

// State exposes the breaker state for health reporting.
func (c *BreakerCache) State() circuitbreaker.State {
	return c.breaker.State()
}
