package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/memory"
)

func TestGetApplications_FilterByStatus(t *testing.T) {
	applications := memory.NewApplicationStore()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	pending := seedApplication(t, applications, "app-1", "Pending One", 8.0, t0)
	reviewed := seedApplication(t, applications, "app-2", "Reviewed One", 8.0, t0.Add(time.Minute))
	require.NoError(t, applications.SetStatus(context.Background(), reviewed.ID,
		application.StatusPending, application.StatusApproved, "admin-1", t0.Add(time.Hour)))

	h := NewGetApplicationsHandler(applications)

	result, err := h.Handle(context.Background(), GetApplicationsQuery{
		CollegeID: testCollegeID.String(),
		Status:    "pending",
	})
	require.NoError(t, err)
	require.Len(t, result.Applications, 1)
	assert.Equal(t, pending.ID, result.Applications[0].ID)

	all, err := h.Handle(context.Background(), GetApplicationsQuery{CollegeID: testCollegeID.String()})
	require.NoError(t, err)
	assert.Len(t, all.Applications, 2)
	assert.Equal(t, "approved", all.Applications[1].Status)
	assert.Equal(t, "admin-1", all.Applications[1].ReviewedBy)
}

func TestGetApplications_SearchByNameOrRoll(t *testing.T) {
	applications := memory.NewApplicationStore()
	t0 := time.Now()
	seedApplication(t, applications, "app-1", "Priya Sharma", 8.0, t0)
	seedApplication(t, applications, "app-2", "Rahul Verma", 8.0, t0)

	h := NewGetApplicationsHandler(applications)

	result, err := h.Handle(context.Background(), GetApplicationsQuery{
		CollegeID: testCollegeID.String(),
		Search:    "priya",
	})
	require.NoError(t, err)
	require.Len(t, result.Applications, 1)
	assert.Equal(t, "Priya Sharma", result.Applications[0].StudentName)

	byRoll, err := h.Handle(context.Background(), GetApplicationsQuery{
		CollegeID: testCollegeID.String(),
		Search:    "cs2024",
	})
	require.NoError(t, err)
	assert.Len(t, byRoll.Applications, 2)
}

func TestGetApplications_Pagination(t *testing.T) {
	applications := memory.NewApplicationStore()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedApplication(t, applications, string(rune('a'+i)), "Student", 8.0, t0.Add(time.Duration(i)*time.Minute))
	}

	h := NewGetApplicationsHandler(applications)

	page2, err := h.Handle(context.Background(), GetApplicationsQuery{
		CollegeID: testCollegeID.String(),
		Page:      2,
		PageSize:  2,
	})
	require.NoError(t, err)
	assert.Len(t, page2.Applications, 2)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, "c", page2.Applications[0].ID)
}

func TestGetScholarships_SeatOccupancyAndPendingCounts(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()

	s := seedScholarship(t, scholarships, 3)
	require.NoError(t, scholarships.CompareAndIncrementFilledSeats(context.Background(), s.ID, 0))

	seedApplication(t, applications, "app-1", "Pending One", 8.0, time.Now())
	seedApplication(t, applications, "app-2", "Pending Two", 8.0, time.Now())

	h := NewGetScholarshipsHandler(scholarships, applications)
	result, err := h.Handle(context.Background(), GetScholarshipsQuery{CollegeID: testCollegeID.String()})
	require.NoError(t, err)

	require.Len(t, result.Scholarships, 1)
	row := result.Scholarships[0]
	assert.Equal(t, 1, row.FilledSeats)
	assert.Equal(t, 2, row.RemainingSeats)
	assert.Equal(t, 2, row.PendingCount)
}

func TestGetScholarships_FilterByStatusAndCategory(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()

	seedScholarship(t, scholarships, 3) // merit, active

	draft, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:         "sch-2",
		CollegeID:  testCollegeID,
		Name:       "Sports Quota Award",
		Category:   scholarship.CategorySports,
		Amount:     25000,
		TotalSeats: 4,
		Status:     scholarship.StatusDraft,
	})
	require.NoError(t, err)
	require.NoError(t, scholarships.Create(context.Background(), draft))

	h := NewGetScholarshipsHandler(scholarships, applications)

	active, err := h.Handle(context.Background(), GetScholarshipsQuery{
		CollegeID: testCollegeID.String(),
		Status:    "active",
	})
	require.NoError(t, err)
	require.Len(t, active.Scholarships, 1)
	assert.Equal(t, "merit", active.Scholarships[0].Category)

	sports, err := h.Handle(context.Background(), GetScholarshipsQuery{
		CollegeID: testCollegeID.String(),
		Category:  "sports",
	})
	require.NoError(t, err)
	require.Len(t, sports.Scholarships, 1)
	assert.Equal(t, "sch-2", sports.Scholarships[0].ID)
}

func TestGetScholarships_OtherTenantHidden(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	seedScholarship(t, scholarships, 3)

	h := NewGetScholarshipsHandler(scholarships, memory.NewApplicationStore())
	result, err := h.Handle(context.Background(), GetScholarshipsQuery{
		CollegeID: "11111111-2222-3333-4444-555566667777",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Scholarships)
}
