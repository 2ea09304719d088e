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

func newSubmitHandler(f *fixture) *SubmitApplicationHandler {
	return NewSubmitApplicationHandler(f.applications, f.scholarships, allocation.NewCompositeScorer(), nil, f.events)
}

func validSubmit(scholarshipID string) SubmitApplicationCommand {
	return SubmitApplicationCommand{
		ScholarshipID: scholarshipID,
		CollegeID:     testCollegeID.String(),
		StudentName:   "Priya Sharma",
		StudentRoll:   "CS2024001",
		CGPA:          8.7,
		FamilyIncome:  350000,
		Department:    "Computer Science",
		YearOfStudy:   2,
		Documents:     []string{"marksheet", "income-cert"},
		EssayRating:   7,
	}
}

func TestSubmitApplication_ScoredAtIntake(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)

	result, err := newSubmitHandler(f).Handle(context.Background(), validSubmit(s.ID))
	require.NoError(t, err)

	a := result.Application
	assert.True(t, a.IsPending())
	assert.Greater(t, a.Score.Int(), 0)
	assert.True(t, a.Breakdown.IsValid())
	assert.Equal(t, a.Breakdown.Sum(), a.Score.Int())

	stored, err := f.applications.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Score, stored.Score)

	assert.Len(t, f.events.ofType(shared.EventApplicationSubmitted), 1)
}

func TestSubmitApplication_InactiveScholarship(t *testing.T) {
	f := newFixture(t)
	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-draft",
		CollegeID:  testCollegeID,
		Name:       "Draft Award",
		Category:   scholarship.CategoryMerit,
		Amount:     10000,
		TotalSeats: 1,
		Status:     scholarship.StatusDraft,
	})
	require.NoError(t, err)
	require.NoError(t, f.scholarships.Create(context.Background(), s))

	_, err = newSubmitHandler(f).Handle(context.Background(), validSubmit(s.ID))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestSubmitApplication_PastDeadline(t *testing.T) {
	f := newFixture(t)
	deadline := time.Now().Add(-time.Hour)
	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-late",
		CollegeID:  testCollegeID,
		Name:       "Closed Award",
		Category:   scholarship.CategoryMerit,
		Amount:     10000,
		TotalSeats: 1,
		Deadline:   &deadline,
		Status:     scholarship.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, f.scholarships.Create(context.Background(), s))

	_, err = newSubmitHandler(f).Handle(context.Background(), validSubmit(s.ID))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestSubmitApplication_InvalidInput(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 3)
	h := newSubmitHandler(f)

	badRoll := validSubmit(s.ID)
	badRoll.StudentRoll = "not-a-roll"
	_, err := h.Handle(context.Background(), badRoll)
	assert.Error(t, err)

	badCGPA := validSubmit(s.ID)
	badCGPA.CGPA = 12.0
	_, err = h.Handle(context.Background(), badCGPA)
	assert.Error(t, err)

	unknown := validSubmit("no-such-scholarship")
	_, err = h.Handle(context.Background(), unknown)
	assert.True(t, shared.IsNotFound(err))
}
