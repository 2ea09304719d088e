package allocation

import (
	"testing"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollegeID = shared.CollegeID("2f1e9c1a-3b44-4c55-9d66-7e8899aabbcc")

func testScholarship(t *testing.T, totalSeats int, minCGPA *shared.CGPA, maxIncome *shared.Money) *scholarship.Scholarship {
	t.Helper()

	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-1",
		CollegeID:  testCollegeID,
		Name:       "Merit Excellence Award",
		Category:   scholarship.CategoryMerit,
		Amount:     50000,
		TotalSeats: totalSeats,
		MinCGPA:    minCGPA,
		MaxIncome:  maxIncome,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	return s
}

func testApplication(t *testing.T, id string, cgpa float64, income int64, appliedAt time.Time) *application.Application {
	t.Helper()

	a, err := application.NewApplication(application.NewApplicationParams{
		ID:            id,
		ScholarshipID: "sch-1",
		CollegeID:     testCollegeID,
		StudentName:   "Student " + id,
		StudentRoll:   shared.RollNumber("CS2024001"),
		CGPA:          shared.CGPA(cgpa),
		FamilyIncome:  shared.Money(income),
		Department:    "Computer Science",
		YearOfStudy:   2,
		EssayRating:   7,
		AppliedAt:     appliedAt,
	})
	require.NoError(t, err)
	return a
}

func TestFilter_CGPAFloor(t *testing.T) {
	floor := shared.CGPA(7.5)
	s := testScholarship(t, 5, &floor, nil)

	now := time.Now()
	apps := []*application.Application{
		testApplication(t, "a1", 9.2, 300000, now),
		testApplication(t, "a2", 6.8, 200000, now),
		testApplication(t, "a3", 7.5, 400000, now),
	}

	eligible, excluded := Filter(s, apps)

	assert.Len(t, eligible, 2)
	require.Len(t, excluded, 1)
	assert.Equal(t, "a2", excluded[0].Application.ID)
	assert.Contains(t, excluded[0].Reason, "CGPA 6.8 below minimum 7.5")
}

func TestFilter_IncomeCeiling(t *testing.T) {
	ceiling := shared.Money(500000)
	s := testScholarship(t, 5, nil, &ceiling)

	now := time.Now()
	apps := []*application.Application{
		testApplication(t, "a1", 9.0, 600000, now),
		testApplication(t, "a2", 8.0, 500000, now), // exactly at ceiling: eligible
		testApplication(t, "a3", 7.0, 100000, now),
	}

	eligible, excluded := Filter(s, apps)

	assert.Len(t, eligible, 2)
	require.Len(t, excluded, 1)
	assert.Equal(t, "a1", excluded[0].Application.ID)
	assert.Contains(t, excluded[0].Reason, "exceeds ceiling")
}

func TestFilter_NoConstraints(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)

	apps := []*application.Application{
		testApplication(t, "a1", 2.0, 9000000, time.Now()),
	}

	eligible, excluded := Filter(s, apps)

	assert.Len(t, eligible, 1)
	assert.Empty(t, excluded)
}

func TestFilter_ExcludesReviewedApplications(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)

	now := time.Now()
	approved := testApplication(t, "a1", 9.0, 300000, now)
	require.NoError(t, approved.Approve("admin-1", now))

	rejected := testApplication(t, "a2", 8.0, 300000, now)
	require.NoError(t, rejected.Reject("admin-1", now))

	pending := testApplication(t, "a3", 7.0, 300000, now)

	eligible, excluded := Filter(s, []*application.Application{approved, rejected, pending})

	require.Len(t, eligible, 1)
	assert.Equal(t, "a3", eligible[0].ID)
	require.Len(t, excluded, 2)
	assert.Equal(t, "already approved", excluded[0].Reason)
	assert.Equal(t, "already rejected", excluded[1].Reason)
}

func TestFilter_HighScoreDoesNotBypassEligibility(t *testing.T) {
	floor := shared.CGPA(8.0)
	s := testScholarship(t, 5, &floor, nil)

	a := testApplication(t, "a1", 5.0, 100000, time.Now())
	require.NoError(t, a.AssignScore(99, application.SplitScore(99)))

	eligible, excluded := Filter(s, []*application.Application{a})

	assert.Empty(t, eligible)
	assert.Len(t, excluded, 1)
}
