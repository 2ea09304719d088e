package allocation

import (
	"testing"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredApplication(t *testing.T, id string, score int, appliedAt time.Time) *application.Application {
	t.Helper()

	a := testApplication(t, id, 8.0, 300000, appliedAt)
	require.NoError(t, a.AssignScore(shared.Score(score), application.SplitScore(shared.Score(score))))
	return a
}

func TestRank_ByScoreDescending(t *testing.T) {
	now := time.Now()
	apps := []*application.Application{
		scoredApplication(t, "b", 80, now),
		scoredApplication(t, "a", 95, now.Add(time.Minute)),
		scoredApplication(t, "c", 90, now.Add(2*time.Minute)),
	}

	ranked := Rank(apps)

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Application.ID)
	assert.Equal(t, "c", ranked[1].Application.ID)
	assert.Equal(t, "b", ranked[2].Application.ID)
	assert.Equal(t, shared.Rank(1), ranked[0].Rank)
	assert.Equal(t, shared.Rank(2), ranked[1].Rank)
	assert.Equal(t, shared.Rank(3), ranked[2].Rank)
}

func TestRank_TieBrokenByEarlierAppliedAt(t *testing.T) {
	t1 := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	late := scoredApplication(t, "late", 90, t2)
	early := scoredApplication(t, "early", 90, t1)

	ranked := Rank([]*application.Application{late, early})

	require.Len(t, ranked, 2)
	assert.Equal(t, "early", ranked[0].Application.ID)
	assert.Equal(t, "late", ranked[1].Application.ID)
}

func TestRank_DeterministicAcrossRuns(t *testing.T) {
	now := time.Now()
	apps := []*application.Application{
		scoredApplication(t, "a1", 90, now),
		scoredApplication(t, "a2", 90, now), // full tie with a1: ID decides
		scoredApplication(t, "a3", 85, now),
	}

	first := Rank(apps)
	second := Rank(apps)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Application.ID, second[i].Application.ID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
	assert.Equal(t, "a1", first[0].Application.ID)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	apps := []*application.Application{
		scoredApplication(t, "low", 10, now),
		scoredApplication(t, "high", 99, now),
	}

	Rank(apps)

	assert.Equal(t, "low", apps[0].ID)
	assert.Equal(t, "high", apps[1].ID)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
