package postgres

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// fakeRow feeds fixed column values into the row scanner without a database.
type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		case *float64:
			*d = v.(float64)
		case *[]byte:
			*d = v.([]byte)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			*d, _ = v.(*time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", dest[i])
		}
	}
	return nil
}

// applicationRow builds a pending application row in column order.
func applicationRow(score int, breakdown application.ScoreBreakdown) fakeRow {
	docs, _ := json.Marshal([]string{"transcript.pdf"})
	return fakeRow{values: []interface{}{
		"app-1",
		"sch-1",
		"college-1",
		"Priya Sharma",
		"CS2024001",
		"priya@example.edu",
		8.5,
		int64(300000),
		"Computer Science",
		2,
		docs,
		score,
		breakdown.Academic,
		breakdown.Financial,
		breakdown.Extracurricular,
		breakdown.Essay,
		7,
		string(application.StatusPending),
		time.Now().UTC(),
		(*time.Time)(nil),
		"",
	}}
}

func TestScanApplication_KeepsStoredBreakdown(t *testing.T) {
	b := application.ScoreBreakdown{Academic: 30, Financial: 24, Extracurricular: 16, Essay: 8}

	a, err := scanApplication(applicationRow(78, b))
	require.NoError(t, err)

	assert.Equal(t, shared.Score(78), a.Score)
	assert.Equal(t, b, a.Breakdown)
	assert.Equal(t, []string{"transcript.pdf"}, a.Documents)
}

func TestScanApplication_ReconstructsMissingBreakdown(t *testing.T) {
	// Imported rows can carry a scalar score with all-zero components;
	// the scanner rebuilds a display split from the fixed ratio.
	a, err := scanApplication(applicationRow(78, application.ScoreBreakdown{}))
	require.NoError(t, err)

	assert.Equal(t, application.SplitScore(shared.Score(78)), a.Breakdown)
	assert.NotZero(t, a.Breakdown.Sum())
}

func TestScanApplication_UnscoredRowStaysZero(t *testing.T) {
	a, err := scanApplication(applicationRow(0, application.ScoreBreakdown{}))
	require.NoError(t, err)

	assert.Equal(t, shared.Score(0), a.Score)
	assert.Zero(t, a.Breakdown.Sum())
}

func TestBuildApplicationListQuery_SearchSharesPlaceholder(t *testing.T) {
	filter := application.ListFilter{
		CollegeID:     shared.CollegeID("college-1"),
		ScholarshipID: "sch-1",
		Status:        application.StatusPending,
		Search:        "Priya",
		Pagination:    shared.NewPagination(1, 25),
	}

	query, args := buildApplicationListQuery(filter)

	assert.Contains(t, query, "AND college_id = $1")
	assert.Contains(t, query, "AND scholarship_id = $2")
	assert.Contains(t, query, "AND status = $3")
	assert.Contains(t, query, "(LOWER(student_name) LIKE $4 OR LOWER(student_roll) LIKE $4)")
	assert.Contains(t, query, "ORDER BY applied_at, id")
	assert.Contains(t, query, "LIMIT $5")
	assert.Contains(t, query, "OFFSET $6")
	assert.Equal(t, []interface{}{
		"college-1",
		"sch-1",
		string(application.StatusPending),
		"%priya%",
		25,
		0,
	}, args)
}

func TestBuildApplicationListQuery_EmptyFilter(t *testing.T) {
	query, args := buildApplicationListQuery(application.ListFilter{})

	assert.NotContains(t, query, "AND college_id")
	assert.NotContains(t, query, "AND scholarship_id")
	assert.NotContains(t, query, "AND status")
	assert.NotContains(t, query, "LIKE")
	assert.Equal(t, []interface{}{shared.DefaultPageSize, 0}, args)
}
