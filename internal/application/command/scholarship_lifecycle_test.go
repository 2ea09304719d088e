package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// rankingCacheStub implements allocation.ResultCache in memory and records
// every invalidation so tests can assert which cached passes were dropped.
type rankingCacheStub struct {
	results     map[string]*allocation.Result
	invalidated []string
}

func newRankingCacheStub() *rankingCacheStub {
	return &rankingCacheStub{results: make(map[string]*allocation.Result)}
}

func (c *rankingCacheStub) Get(_ context.Context, scholarshipID string) (*allocation.Result, error) {
	r, ok := c.results[scholarshipID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (c *rankingCacheStub) Set(_ context.Context, result *allocation.Result, _ time.Duration) error {
	c.results[result.ScholarshipID] = result
	return nil
}

func (c *rankingCacheStub) Invalidate(_ context.Context, scholarshipID string) error {
	delete(c.results, scholarshipID)
	c.invalidated = append(c.invalidated, scholarshipID)
	return nil
}

func TestCreateScholarship(t *testing.T) {
	f := newFixture(t)
	h := NewCreateScholarshipHandler(f.scholarships, f.events)

	minCGPA := 7.5
	maxIncome := int64(500000)
	result, err := h.Handle(context.Background(), CreateScholarshipCommand{
		CollegeID:  testCollegeID.String(),
		Name:       "Need-Based Support Grant",
		Category:   "need",
		Amount:     75000,
		TotalSeats: 10,
		MinCGPA:    &minCGPA,
		MaxIncome:  &maxIncome,
		Activate:   true,
		ActorID:    "admin-1",
	})
	require.NoError(t, err)

	s := result.Scholarship
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, scholarship.StatusActive, s.Status)
	require.NotNil(t, s.MinCGPA)
	assert.Equal(t, shared.CGPA(7.5), *s.MinCGPA)
	require.NotNil(t, s.MaxIncome)
	assert.Equal(t, shared.Money(500000), *s.MaxIncome)

	stored, err := f.scholarships.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, stored.Name)
	assert.Len(t, f.events.ofType(shared.EventScholarshipCreated), 1)
}

func TestCreateScholarship_Validation(t *testing.T) {
	f := newFixture(t)
	h := NewCreateScholarshipHandler(f.scholarships, f.events)

	_, err := h.Handle(context.Background(), CreateScholarshipCommand{
		CollegeID: testCollegeID.String(),
		Name:      "Bad Category Award",
		Category:  "lottery",
		ActorID:   "admin-1",
	})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), CreateScholarshipCommand{
		Name:    "No College",
		ActorID: "admin-1",
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateScholarship(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	h := NewUpdateScholarshipHandler(f.scholarships, nil, f.events)

	name := "Renamed Award"
	seats := 5
	result, err := h.Handle(context.Background(), UpdateScholarshipCommand{
		ScholarshipID: s.ID,
		Name:          &name,
		TotalSeats:    &seats,
		ActorID:       "admin-1",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"name", "total_seats"}, result.Changed)

	stored, err := f.scholarships.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Award", stored.Name)
	assert.Equal(t, 5, stored.TotalSeats)
	assert.Len(t, f.events.ofType(shared.EventScholarshipUpdated), 1)
}

func TestUpdateScholarship_SeatsCannotDropBelowFilled(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	a := f.seedApplication(t, s.ID, "Priya Sharma", time.Now())

	_, err := f.approve.Handle(context.Background(), ApproveApplicationCommand{
		ApplicationID: a.ID,
		ReviewerID:    "admin-1",
	})
	require.NoError(t, err)

	zero := 0
	h := NewUpdateScholarshipHandler(f.scholarships, nil, f.events)
	_, err = h.Handle(context.Background(), UpdateScholarshipCommand{
		ScholarshipID: s.ID,
		TotalSeats:    &zero,
		ActorID:       "admin-1",
	})
	assert.ErrorIs(t, err, ErrSeatReduction)
}

func TestUpdateScholarship_NoChanges(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	h := NewUpdateScholarshipHandler(f.scholarships, nil, f.events)

	result, err := h.Handle(context.Background(), UpdateScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Changed)
	assert.Empty(t, f.events.ofType(shared.EventScholarshipUpdated))
}

func TestUpdateScholarship_DropsCachedRanking(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	a := f.seedApplication(t, s.ID, "Priya Sharma", time.Now())

	// A pass cached before the edit still ranks the 8.5-CGPA applicant.
	cache := newRankingCacheStub()
	require.NoError(t, cache.Set(context.Background(), &allocation.Result{
		ScholarshipID: s.ID,
		Ranked:        []allocation.RankedCandidate{{Application: a, Rank: 1}},
		GeneratedAt:   time.Now().UTC(),
	}, time.Minute))

	h := NewUpdateScholarshipHandler(f.scholarships, cache, f.events)
	minCGPA := 9.5
	_, err := h.Handle(context.Background(), UpdateScholarshipCommand{
		ScholarshipID: s.ID,
		MinCGPA:       &minCGPA,
		ActorID:       "admin-1",
	})
	require.NoError(t, err)

	// Raising the eligibility floor reshapes the ranking; the pre-edit
	// pass must not be served to the next allocation run.
	_, err = cache.Get(context.Background(), s.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, []string{s.ID}, cache.invalidated)
}

func TestUpdateScholarship_NoChangesKeepsCache(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)

	cache := newRankingCacheStub()
	require.NoError(t, cache.Set(context.Background(), &allocation.Result{
		ScholarshipID: s.ID,
		GeneratedAt:   time.Now().UTC(),
	}, time.Minute))

	h := NewUpdateScholarshipHandler(f.scholarships, cache, f.events)
	_, err := h.Handle(context.Background(), UpdateScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), s.ID)
	assert.NoError(t, err)
	assert.Empty(t, cache.invalidated)
}

func TestDeleteScholarship_CleanDelete(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	h := NewDeleteScholarshipHandler(f.scholarships, f.applications, nil, f.events)

	require.NoError(t, h.Handle(context.Background(), DeleteScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	}))

	_, err := f.scholarships.GetByID(context.Background(), s.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.Len(t, f.events.ofType(shared.EventScholarshipDeleted), 1)
}

func TestDeleteScholarship_DropsCachedRanking(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)

	cache := newRankingCacheStub()
	require.NoError(t, cache.Set(context.Background(), &allocation.Result{
		ScholarshipID: s.ID,
		GeneratedAt:   time.Now().UTC(),
	}, time.Minute))

	h := NewDeleteScholarshipHandler(f.scholarships, f.applications, cache, f.events)
	require.NoError(t, h.Handle(context.Background(), DeleteScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	}))

	// No cached pass may survive the record it describes.
	_, err := cache.Get(context.Background(), s.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, []string{s.ID}, cache.invalidated)
}

func TestDeleteScholarship_BlockedByApprovedApplications(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	a := f.seedApplication(t, s.ID, "Priya Sharma", time.Now())

	_, err := f.approve.Handle(context.Background(), ApproveApplicationCommand{
		ApplicationID: a.ID,
		ReviewerID:    "admin-1",
	})
	require.NoError(t, err)

	h := NewDeleteScholarshipHandler(f.scholarships, f.applications, nil, f.events)
	err = h.Handle(context.Background(), DeleteScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	})
	assert.ErrorIs(t, err, shared.ErrScholarshipHasAwards)

	_, err = f.scholarships.GetByID(context.Background(), s.ID)
	assert.NoError(t, err)
}

func TestDeleteScholarship_BlockedByPendingApplications(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	f.seedApplication(t, s.ID, "Priya Sharma", time.Now())

	h := NewDeleteScholarshipHandler(f.scholarships, f.applications, nil, f.events)
	err := h.Handle(context.Background(), DeleteScholarshipCommand{
		ScholarshipID: s.ID,
		ActorID:       "admin-1",
	})
	assert.ErrorIs(t, err, shared.ErrScholarshipHasPending)
}

func TestExpireScholarships(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-past",
		CollegeID:  testCollegeID,
		Name:       "Past Deadline Award",
		Category:   scholarship.CategoryMerit,
		Amount:     10000,
		TotalSeats: 1,
		Deadline:   &past,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, f.scholarships.Create(context.Background(), expired))

	open, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-future",
		CollegeID:  testCollegeID,
		Name:       "Open Award",
		Category:   scholarship.CategoryMerit,
		Amount:     10000,
		TotalSeats: 1,
		Deadline:   &future,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, f.scholarships.Create(context.Background(), open))

	cache := newRankingCacheStub()
	require.NoError(t, cache.Set(context.Background(), &allocation.Result{
		ScholarshipID: "sch-past",
		GeneratedAt:   now,
	}, time.Minute))
	require.NoError(t, cache.Set(context.Background(), &allocation.Result{
		ScholarshipID: "sch-future",
		GeneratedAt:   now,
	}, time.Minute))

	h := NewExpireScholarshipsHandler(f.scholarships, cache, f.events)
	result, err := h.Handle(context.Background(), ExpireScholarshipsCommand{Now: now})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExpiredCount)
	assert.Equal(t, []string{"sch-past"}, result.ExpiredIDs)

	// Only the expired scholarship loses its cached pass.
	_, err = cache.Get(context.Background(), "sch-past")
	assert.True(t, shared.IsNotFound(err))
	_, err = cache.Get(context.Background(), "sch-future")
	assert.NoError(t, err)
	assert.Equal(t, []string{"sch-past"}, cache.invalidated)

	stored, err := f.scholarships.GetByID(context.Background(), "sch-past")
	require.NoError(t, err)
	assert.Equal(t, scholarship.StatusExpired, stored.Status)

	stillOpen, err := f.scholarships.GetByID(context.Background(), "sch-future")
	require.NoError(t, err)
	assert.Equal(t, scholarship.StatusActive, stillOpen.Status)

	// Second sweep finds nothing: expiry is idempotent.
	again, err := h.Handle(context.Background(), ExpireScholarshipsCommand{Now: now})
	require.NoError(t, err)
	assert.Zero(t, again.ExpiredCount)
	assert.Len(t, f.events.ofType(shared.EventScholarshipExpired), 1)
}
