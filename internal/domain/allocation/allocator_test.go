package allocation

import (
	"testing"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropose_PrefixNeverExceedsSeats(t *testing.T) {
	now := time.Now()
	ranked := Rank([]*application.Application{
		scoredApplication(t, "a", 95, now),
		scoredApplication(t, "b", 90, now.Add(time.Minute)),
		scoredApplication(t, "c", 80, now.Add(2*time.Minute)),
	})

	p := Propose(ranked, 2)

	require.Len(t, p.Admitted, 2)
	assert.Equal(t, "a", p.Admitted[0].Application.ID)
	assert.Equal(t, "b", p.Admitted[1].Application.ID)
	require.Len(t, p.Rest, 1)
	assert.Equal(t, "c", p.Rest[0].Application.ID)
}

func TestPropose_MoreSeatsThanCandidates(t *testing.T) {
	ranked := Rank([]*application.Application{
		scoredApplication(t, "a", 95, time.Now()),
	})

	p := Propose(ranked, 10)

	assert.Len(t, p.Admitted, 1)
	assert.Empty(t, p.Rest)
}

func TestPropose_NoSeats(t *testing.T) {
	ranked := Rank([]*application.Application{
		scoredApplication(t, "a", 95, time.Now()),
		scoredApplication(t, "b", 90, time.Now()),
	})

	p := Propose(ranked, 0)
	assert.Empty(t, p.Admitted)
	assert.Len(t, p.Rest, 2)

	p = Propose(ranked, -3)
	assert.Empty(t, p.Admitted)
	assert.Len(t, p.Rest, 2)
}

func TestRun_FullPass(t *testing.T) {
	floor := shared.CGPA(6.0)
	s := testScholarship(t, 2, &floor, nil)

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	apps := []*application.Application{
		testApplication(t, "low-cgpa", 5.0, 200000, t0),
		testApplication(t, "a", 9.8, 100000, t0.Add(time.Minute)),
		testApplication(t, "b", 9.0, 150000, t0.Add(2*time.Minute)),
		testApplication(t, "c", 7.0, 400000, t0.Add(3*time.Minute)),
	}

	result := Run(s, apps, NewCompositeScorer())

	assert.Equal(t, s.ID, result.ScholarshipID)
	assert.Equal(t, 2, result.RemainingSeats)

	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "low-cgpa", result.Excluded[0].Application.ID)

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, "a", result.Ranked[0].Application.ID)
	assert.Equal(t, "b", result.Ranked[1].Application.ID)
	assert.Equal(t, "c", result.Ranked[2].Application.ID)

	require.Len(t, result.Proposal.Admitted, 2)
	assert.Equal(t, "a", result.Proposal.Admitted[0].Application.ID)
	assert.Equal(t, "b", result.Proposal.Admitted[1].Application.ID)
	require.Len(t, result.Proposal.Rest, 1)
	assert.Equal(t, "c", result.Proposal.Rest[0].Application.ID)
}

func TestRun_DoesNotMutateStoredApplications(t *testing.T) {
	s := testScholarship(t, 2, nil, nil)
	a := testApplication(t, "a", 9.0, 100000, time.Now())

	result := Run(s, []*application.Application{a}, NewCompositeScorer())

	// Scores land on clones; the input stays unscored and pending.
	assert.Equal(t, shared.Score(0), a.Score)
	assert.Equal(t, application.StatusPending, a.Status)
	assert.Greater(t, result.Ranked[0].Application.Score.Int(), 0)
}

func TestRun_Rerunnable(t *testing.T) {
	s := testScholarship(t, 1, nil, nil)
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	apps := []*application.Application{
		testApplication(t, "a", 8.5, 250000, t0),
		testApplication(t, "b", 8.5, 250000, t0), // full tie: ID decides
		testApplication(t, "c", 6.0, 700000, t0.Add(time.Minute)),
	}

	first := Run(s, apps, NewCompositeScorer())
	second := Run(s, apps, NewCompositeScorer())

	require.Equal(t, len(first.Ranked), len(second.Ranked))
	for i := range first.Ranked {
		assert.Equal(t, first.Ranked[i].Application.ID, second.Ranked[i].Application.ID)
		assert.Equal(t, first.Ranked[i].Application.Score, second.Ranked[i].Application.Score)
	}
	assert.Equal(t, "a", first.Ranked[0].Application.ID)
}
