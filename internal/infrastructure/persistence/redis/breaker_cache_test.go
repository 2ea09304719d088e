package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/pkg/circuitbreaker"
)

// flakyCache fails every call until healed.
type flakyCache struct {
	healthy bool
	stored  map[string]*allocation.Result
}

func newFlakyCache() *flakyCache {
	return &flakyCache{stored: make(map[string]*allocation.Result)}
}

var errRedisDown = errors.New("connection refused")

func (f *flakyCache) Get(_ context.Context, scholarshipID string) (*allocation.Result, error) {
	if !f.healthy {
		return nil, errRedisDown
	}
	result, ok := f.stored[scholarshipID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return result, nil
}

func (f *flakyCache) Set(_ context.Context, result *allocation.Result, _ time.Duration) error {
	if !f.healthy {
		return errRedisDown
	}
	f.stored[result.ScholarshipID] = result
	return nil
}

func (f *flakyCache) Invalidate(_ context.Context, scholarshipID string) error {
	if !f.healthy {
		return errRedisDown
	}
	delete(f.stored, scholarshipID)
	return nil
}

func newTestBreakerCache(inner allocation.ResultCache) *BreakerCache {
	breaker := circuitbreaker.New("test-cache",
		circuitbreaker.WithFailureThreshold(2),
		circuitbreaker.WithSuccessThreshold(1),
		circuitbreaker.WithTimeout(time.Hour),
	)
	return NewBreakerCache(inner, breaker)
}

func TestBreakerCache_MissIsNotAFailure(t *testing.T) {
	inner := newFlakyCache()
	inner.healthy = true
	cache := newTestBreakerCache(inner)

	for i := 0; i < 5; i++ {
		_, err := cache.Get(context.Background(), "sch-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	}

	assert.Equal(t, circuitbreaker.StateClosed, cache.State())
}

func TestBreakerCache_OpensAfterRepeatedFailures(t *testing.T) {
	inner := newFlakyCache()
	cache := newTestBreakerCache(inner)

	_, err := cache.Get(context.Background(), "sch-1")
	assert.ErrorIs(t, err, errRedisDown)
	_, err = cache.Get(context.Background(), "sch-1")
	assert.ErrorIs(t, err, errRedisDown)

	require.Equal(t, circuitbreaker.StateOpen, cache.State())

	// Open circuit degrades to a miss rather than surfacing the outage.
	_, err = cache.Get(context.Background(), "sch-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Writes are dropped silently while open.
	assert.NoError(t, cache.Set(context.Background(), &allocation.Result{ScholarshipID: "sch-1"}, time.Minute))
	assert.NoError(t, cache.Invalidate(context.Background(), "sch-1"))
}

func TestBreakerCache_PassesThroughWhenHealthy(t *testing.T) {
	inner := newFlakyCache()
	inner.healthy = true
	cache := newTestBreakerCache(inner)

	result := &allocation.Result{ScholarshipID: "sch-1"}
	require.NoError(t, cache.Set(context.Background(), result, time.Minute))

	got, err := cache.Get(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, "sch-1", got.ScholarshipID)

	require.NoError(t, cache.Invalidate(context.Background(), "sch-1"))
	_, err = cache.Get(context.Background(), "sch-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
