package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

func TestSeatIncrementQuery_CarriesBothGuards(t *testing.T) {
	// The conditional UPDATE must re-check the expected counter AND the
	// capacity ceiling; dropping either guard lets a lost race or an
	// overfull scholarship slip through.
	assert.Contains(t, seatIncrementQuery, "SET filled_seats = filled_seats + 1")
	assert.Contains(t, seatIncrementQuery, "WHERE id = $1")
	assert.Contains(t, seatIncrementQuery, "filled_seats = $2")
	assert.Contains(t, seatIncrementQuery, "filled_seats < total_seats")
}

func TestBuildScholarshipListQuery_AllFilters(t *testing.T) {
	filter := scholarship.ListFilter{
		CollegeID:  shared.CollegeID("college-1"),
		Status:     scholarship.StatusActive,
		Category:   scholarship.CategoryMerit,
		Pagination: shared.NewPagination(2, 10),
	}

	query, args := buildScholarshipListQuery(filter)

	assert.Contains(t, query, "AND college_id = $1")
	assert.Contains(t, query, "AND status = $2")
	assert.Contains(t, query, "AND category = $3")
	assert.Contains(t, query, "ORDER BY created_at DESC, id")
	assert.Contains(t, query, "LIMIT $4")
	assert.Contains(t, query, "OFFSET $5")
	assert.Equal(t, []interface{}{
		"college-1",
		string(scholarship.StatusActive),
		string(scholarship.CategoryMerit),
		10,
		10,
	}, args)
}

func TestBuildScholarshipListQuery_EmptyFilter(t *testing.T) {
	query, args := buildScholarshipListQuery(scholarship.ListFilter{})

	assert.NotContains(t, query, "AND college_id")
	assert.NotContains(t, query, "AND status")
	assert.NotContains(t, query, "AND category")
	assert.Contains(t, query, "LIMIT $1")
	assert.Contains(t, query, "OFFSET $2")
	assert.Equal(t, []interface{}{shared.DefaultPageSize, 0}, args)
}
