package application

import (
	"testing"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollegeID = shared.CollegeID("2f1e9c1a-3b44-4c55-9d66-7e8899aabbcc")

func validParams() NewApplicationParams {
	return NewApplicationParams{
		ID:            "app-1",
		ScholarshipID: "sch-1",
		CollegeID:     testCollegeID,
		StudentName:   "Priya Sharma",
		StudentRoll:   shared.RollNumber("CS2024001"),
		CGPA:          shared.CGPA(8.7),
		FamilyIncome:  shared.Money(350000),
		Department:    "Computer Science",
		YearOfStudy:   2,
		EssayRating:   7,
		AppliedAt:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewApplication(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, a.Status)
	assert.True(t, a.IsPending())
	assert.Nil(t, a.ReviewedAt)
	assert.Empty(t, a.ReviewedBy)
	assert.Equal(t, shared.Score(0), a.Score)
}

func TestNewApplication_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewApplicationParams)
	}{
		{"missing id", func(p *NewApplicationParams) { p.ID = "" }},
		{"missing scholarship", func(p *NewApplicationParams) { p.ScholarshipID = "" }},
		{"missing college", func(p *NewApplicationParams) { p.CollegeID = "" }},
		{"blank name", func(p *NewApplicationParams) { p.StudentName = "  " }},
		{"bad roll", func(p *NewApplicationParams) { p.StudentRoll = "12345" }},
		{"cgpa above scale", func(p *NewApplicationParams) { p.CGPA = 10.5 }},
		{"negative income", func(p *NewApplicationParams) { p.FamilyIncome = -1 }},
		{"year zero", func(p *NewApplicationParams) { p.YearOfStudy = 0 }},
		{"year seven", func(p *NewApplicationParams) { p.YearOfStudy = 7 }},
		{"essay rating over cap", func(p *NewApplicationParams) { p.EssayRating = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := NewApplication(params)
			assert.Error(t, err)
		})
	}
}

func TestApprove(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)

	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.Approve("admin-1", at))

	assert.Equal(t, StatusApproved, a.Status)
	assert.True(t, a.Status.IsTerminal())
	require.NotNil(t, a.ReviewedAt)
	assert.Equal(t, at, *a.ReviewedAt)
	assert.Equal(t, "admin-1", a.ReviewedBy)
}

func TestReject(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, a.Reject("admin-1", at))

	assert.Equal(t, StatusRejected, a.Status)
	assert.True(t, a.Status.IsTerminal())
	assert.Equal(t, "admin-1", a.ReviewedBy)
}

func TestTerminalStatesAdmitNoTransition(t *testing.T) {
	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	approved, err := NewApplication(validParams())
	require.NoError(t, err)
	require.NoError(t, approved.Approve("admin-1", at))

	// Re-approving and cross-transitioning both fail with no side effects.
	assert.ErrorIs(t, approved.Approve("admin-2", at.Add(time.Hour)), ErrInvalidTransition)
	assert.ErrorIs(t, approved.Reject("admin-2", at.Add(time.Hour)), ErrInvalidTransition)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "admin-1", approved.ReviewedBy)
	assert.Equal(t, at, *approved.ReviewedAt)

	rejected, err := NewApplication(validParams())
	require.NoError(t, err)
	require.NoError(t, rejected.Reject("admin-1", at))

	assert.ErrorIs(t, rejected.Approve("admin-2", at.Add(time.Hour)), ErrInvalidTransition)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestReviewRequiresReviewer(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)

	assert.ErrorIs(t, a.Approve("", time.Now()), ErrMissingReviewer)
	assert.ErrorIs(t, a.Reject("", time.Now()), ErrMissingReviewer)
	assert.True(t, a.IsPending())
}

func TestAssignScore(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)

	breakdown := ScoreBreakdown{Academic: 35, Financial: 20, Extracurricular: 15, Essay: 8}
	require.NoError(t, a.AssignScore(78, breakdown))
	assert.Equal(t, shared.Score(78), a.Score)
	assert.Equal(t, breakdown, a.Breakdown)

	assert.ErrorIs(t, a.AssignScore(101, SplitScore(100)), shared.ErrInvalidScore)
	assert.ErrorIs(t, a.AssignScore(50, ScoreBreakdown{Academic: 41}), ErrInvalidBreakdown)
}

func TestClone_Independent(t *testing.T) {
	a, err := NewApplication(validParams())
	require.NoError(t, err)
	a.Documents = []string{"marksheet"}

	clone := a.Clone()
	clone.Documents[0] = "altered"
	require.NoError(t, clone.Approve("admin-1", time.Now()))

	assert.Equal(t, "marksheet", a.Documents[0])
	assert.True(t, a.IsPending())
	assert.Nil(t, a.ReviewedAt)
}
