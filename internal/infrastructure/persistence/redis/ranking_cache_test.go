package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	cache := NewCacheWithClient(client)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func rankedCandidate(t *testing.T, id string, score int, rank int) allocation.RankedCandidate {
	t.Helper()

	a, err := application.NewApplication(application.NewApplicationParams{
		ID:            id,
		ScholarshipID: "sch-1",
		CollegeID:     shared.CollegeID("2f1e9c1a-3b44-4c55-9d66-7e8899aabbcc"),
		StudentName:   "Priya Sharma",
		StudentRoll:   shared.RollNumber("CS2024001"),
		CGPA:          shared.CGPA(8.5),
		FamilyIncome:  shared.Money(300000),
		Department:    "Computer Science",
		YearOfStudy:   2,
		EssayRating:   7,
		AppliedAt:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, a.AssignScore(shared.Score(score), application.SplitScore(shared.Score(score))))

	return allocation.RankedCandidate{Application: a, Rank: shared.Rank(rank)}
}

func TestRankingCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	rankings := NewRankingCache(cache)
	ctx := context.Background()

	first := rankedCandidate(t, "app-a", 95, 1)
	second := rankedCandidate(t, "app-b", 80, 2)
	excluded := rankedCandidate(t, "app-c", 0, 0)
	result := &allocation.Result{
		ScholarshipID: "sch-1",
		Ranked:        []allocation.RankedCandidate{first, second},
		Excluded: []allocation.Exclusion{
			{Application: excluded.Application, Reason: "CGPA 5.0 below minimum 7.0"},
		},
		Proposal: allocation.Proposal{
			Admitted: []allocation.RankedCandidate{first},
			Rest:     []allocation.RankedCandidate{second},
		},
		RemainingSeats: 1,
		GeneratedAt:    time.Now().UTC(),
	}

	require.NoError(t, rankings.Set(ctx, result, time.Minute))

	got, err := rankings.Get(ctx, "sch-1")
	require.NoError(t, err)

	require.Len(t, got.Ranked, 2)
	assert.Equal(t, "app-a", got.Ranked[0].Application.ID)
	assert.Equal(t, shared.Rank(1), got.Ranked[0].Rank)
	assert.Equal(t, shared.Score(95), got.Ranked[0].Application.Score)
	assert.Equal(t, "app-b", got.Ranked[1].Application.ID)

	require.Len(t, got.Excluded, 1)
	assert.Contains(t, got.Excluded[0].Reason, "below minimum")

	require.Len(t, got.Proposal.Admitted, 1)
	assert.Equal(t, "app-a", got.Proposal.Admitted[0].Application.ID)
	assert.Equal(t, 1, got.RemainingSeats)
}

func TestRankingCache_MissReportsNotFound(t *testing.T) {
	cache, _ := newTestCache(t)
	rankings := NewRankingCache(cache)

	_, err := rankings.Get(context.Background(), "missing")
	assert.True(t, shared.IsNotFound(err))
}

func TestRankingCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	rankings := NewRankingCache(cache)
	ctx := context.Background()

	result := &allocation.Result{
		ScholarshipID: "sch-1",
		Ranked:        []allocation.RankedCandidate{rankedCandidate(t, "app-a", 95, 1)},
		GeneratedAt:   time.Now().UTC(),
	}
	require.NoError(t, rankings.Set(ctx, result, time.Minute))

	require.NoError(t, rankings.Invalidate(ctx, "sch-1"))

	_, err := rankings.Get(ctx, "sch-1")
	assert.True(t, shared.IsNotFound(err))

	// Invalidating an absent key is not an error.
	assert.NoError(t, rankings.Invalidate(ctx, "sch-1"))
}

func TestRankingCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	rankings := NewRankingCache(cache)
	ctx := context.Background()

	result := &allocation.Result{
		ScholarshipID: "sch-1",
		Ranked:        []allocation.RankedCandidate{rankedCandidate(t, "app-a", 95, 1)},
		GeneratedAt:   time.Now().UTC(),
	}
	require.NoError(t, rankings.Set(ctx, result, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := rankings.Get(ctx, "sch-1")
	assert.True(t, shared.IsNotFound(err))
}
