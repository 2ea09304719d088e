package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

func TestBulkReview_ApproveStopsAtCapacity(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 2)

	now := time.Now()
	first := f.seedApplication(t, s.ID, "First", now)
	second := f.seedApplication(t, s.ID, "Second", now)
	third := f.seedApplication(t, s.ID, "Third", now)

	bulk := NewBulkReviewHandler(f.approve, f.reject)
	result, err := bulk.Handle(context.Background(), BulkReviewCommand{
		ApplicationIDs: []string{first.ID, second.ID, third.ID},
		Decision:       DecisionApprove,
		ReviewerID:     "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.ErrorIs(t, result.Errors[third.ID], shared.ErrCapacityExceeded)

	sc, err := f.scholarships.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.FilledSeats)

	// The over-capacity item stays pending.
	stored, err := f.applications.GetByID(context.Background(), third.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestBulkReview_RejectAll(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 2)

	now := time.Now()
	ids := []string{
		f.seedApplication(t, s.ID, "First", now).ID,
		f.seedApplication(t, s.ID, "Second", now).ID,
	}

	bulk := NewBulkReviewHandler(f.approve, f.reject)
	result, err := bulk.Handle(context.Background(), BulkReviewCommand{
		ApplicationIDs: ids,
		Decision:       DecisionReject,
		ReviewerID:     "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.FailedCount)

	for _, id := range ids {
		stored, err := f.applications.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, application.StatusRejected, stored.Status)
	}
}

func TestBulkReview_MixedFailuresDoNotAbortBatch(t *testing.T) {
	f := newFixture(t)
	s := f.seedScholarship(t, 5)

	now := time.Now()
	reviewed := f.seedApplication(t, s.ID, "Reviewed", now)
	pending := f.seedApplication(t, s.ID, "Pending", now)

	_, err := f.reject.Handle(context.Background(), RejectApplicationCommand{
		ApplicationID: reviewed.ID,
		ReviewerID:    "admin-1",
	})
	require.NoError(t, err)

	bulk := NewBulkReviewHandler(f.approve, f.reject)
	result, err := bulk.Handle(context.Background(), BulkReviewCommand{
		ApplicationIDs: []string{reviewed.ID, "missing-id", pending.ID},
		Decision:       DecisionApprove,
		ReviewerID:     "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.ErrorIs(t, result.Errors[reviewed.ID], shared.ErrStateTransition)
	assert.True(t, shared.IsNotFound(result.Errors["missing-id"]))
}

func TestBulkReview_Validation(t *testing.T) {
	bulk := NewBulkReviewHandler(nil, nil)

	_, err := bulk.Handle(context.Background(), BulkReviewCommand{
		Decision:   DecisionApprove,
		ReviewerID: "admin-1",
	})
	assert.Error(t, err)

	_, err = bulk.Handle(context.Background(), BulkReviewCommand{
		ApplicationIDs: []string{"a"},
		Decision:       "escalate",
		ReviewerID:     "admin-1",
	})
	assert.Error(t, err)
}
