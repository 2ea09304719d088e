package query

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/memory"
)

const testCollegeID = shared.CollegeID("2f1e9c1a-3b44-4c55-9d66-7e8899aabbcc")

// fixedScorer returns a predetermined score per student name.
type fixedScorer struct {
	scores map[string]int
}

func (s fixedScorer) Score(_ *scholarship.Scholarship, a *application.Application) (shared.Score, application.ScoreBreakdown) {
	total := shared.Score(s.scores[a.StudentName])
	return total, application.SplitScore(total)
}

// mapCache is an in-memory allocation.ResultCache for tests.
type mapCache struct {
	mu      sync.Mutex
	results map[string]*allocation.Result
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{results: make(map[string]*allocation.Result)}
}

func (c *mapCache) Get(_ context.Context, scholarshipID string) (*allocation.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[scholarshipID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (c *mapCache) Set(_ context.Context, result *allocation.Result, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result.ScholarshipID] = result
	c.sets++
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, scholarshipID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, scholarshipID)
	return nil
}

func seedScholarship(t *testing.T, store *memory.ScholarshipStore, totalSeats int) *scholarship.Scholarship {
	t.Helper()

	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-1",
		CollegeID:  testCollegeID,
		Name:       "Merit Excellence Award",
		Category:   scholarship.CategoryMerit,
		Amount:     50000,
		TotalSeats: totalSeats,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), s))
	return s
}

func seedApplication(t *testing.T, store *memory.ApplicationStore, id, name string, cgpa float64, appliedAt time.Time) *application.Application {
	t.Helper()

	a, err := application.NewApplication(application.NewApplicationParams{
		ID:            id,
		ScholarshipID: "sch-1",
		CollegeID:     testCollegeID,
		StudentName:   name,
		StudentRoll:   shared.RollNumber("CS2024001"),
		CGPA:          shared.CGPA(cgpa),
		FamilyIncome:  shared.Money(300000),
		Department:    "Computer Science",
		YearOfStudy:   2,
		EssayRating:   7,
		AppliedAt:     appliedAt,
	})
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), a))
	return a
}

func TestRunAllocation_RanksAndProposes(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()
	seedScholarship(t, scholarships, 2)

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApplication(t, applications, "app-a", "A", 9.5, t0)
	seedApplication(t, applications, "app-b", "B", 9.0, t0.Add(time.Minute))
	seedApplication(t, applications, "app-c", "C", 8.0, t0.Add(2*time.Minute))

	scorer := fixedScorer{scores: map[string]int{"A": 95, "B": 90, "C": 80}}
	h := NewRunAllocationHandler(scholarships, applications, scorer, nil, nil)

	result, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, "A", result.Ranked[0].StudentName)
	assert.Equal(t, "B", result.Ranked[1].StudentName)
	assert.Equal(t, "C", result.Ranked[2].StudentName)
	assert.Equal(t, 1, result.Ranked[0].Rank)
	assert.Equal(t, 95, result.Ranked[0].Score)

	assert.True(t, result.Ranked[0].Proposed)
	assert.True(t, result.Ranked[1].Proposed)
	assert.False(t, result.Ranked[2].Proposed)
	assert.Equal(t, 2, result.ProposedCount)
	assert.Equal(t, 2, result.RemainingSeats)
	assert.False(t, result.FromCache)
}

func TestRunAllocation_TieBrokenByEarlierSubmission(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()
	seedScholarship(t, scholarships, 1)

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApplication(t, applications, "app-late", "Late", 9.0, t0.Add(time.Hour))
	seedApplication(t, applications, "app-early", "Early", 9.0, t0)

	scorer := fixedScorer{scores: map[string]int{"Late": 90, "Early": 90}}
	h := NewRunAllocationHandler(scholarships, applications, scorer, nil, nil)

	result, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "Early", result.Ranked[0].StudentName)
	assert.True(t, result.Ranked[0].Proposed)
	assert.False(t, result.Ranked[1].Proposed)
}

func TestRunAllocation_ReadOnly(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()
	seedScholarship(t, scholarships, 2)

	t0 := time.Now()
	seedApplication(t, applications, "app-a", "A", 9.5, t0)

	scorer := fixedScorer{scores: map[string]int{"A": 95}}
	h := NewRunAllocationHandler(scholarships, applications, scorer, nil, nil)

	_, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)

	// Stored state untouched: no seat consumed, no status or score written.
	s, err := scholarships.GetByID(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, 0, s.FilledSeats)

	a, err := applications.GetByID(context.Background(), "app-a")
	require.NoError(t, err)
	assert.True(t, a.IsPending())
	assert.Equal(t, shared.Score(0), a.Score)
}

func TestRunAllocation_ExcludedReported(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()

	floor := shared.CGPA(9.0)
	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-1",
		CollegeID:  testCollegeID,
		Name:       "High Achievers Award",
		Category:   scholarship.CategoryMerit,
		Amount:     50000,
		TotalSeats: 2,
		MinCGPA:    &floor,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, scholarships.Create(context.Background(), s))

	seedApplication(t, applications, "app-ok", "Qualifies", 9.5, time.Now())
	seedApplication(t, applications, "app-low", "TooLow", 7.0, time.Now())

	h := NewRunAllocationHandler(scholarships, applications, allocation.NewCompositeScorer(), nil, nil)
	result, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)

	assert.Len(t, result.Ranked, 1)
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "app-low", result.Excluded[0].ApplicationID)
	assert.Contains(t, result.Excluded[0].Reason, "below minimum")
}

func TestRunAllocation_CacheRoundTrip(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()
	seedScholarship(t, scholarships, 2)
	seedApplication(t, applications, "app-a", "A", 9.5, time.Now())

	cache := newMapCache()
	scorer := fixedScorer{scores: map[string]int{"A": 95}}
	h := NewRunAllocationHandler(scholarships, applications, scorer, cache, nil)

	first, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, cache.sets)

	second, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Ranked, second.Ranked)
	assert.Equal(t, 1, cache.sets, "cached run must not recompute")

	fresh, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "sch-1", SkipCache: true})
	require.NoError(t, err)
	assert.False(t, fresh.FromCache)
}

func TestRunAllocation_UnknownScholarship(t *testing.T) {
	h := NewRunAllocationHandler(memory.NewScholarshipStore(), memory.NewApplicationStore(), allocation.NewCompositeScorer(), nil, nil)

	_, err := h.Handle(context.Background(), RunAllocationQuery{ScholarshipID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}
