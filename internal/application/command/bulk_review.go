package command

import (
	"context"
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// BULK REVIEW COMMAND
// Approves or rejects a batch of applications in one request. Each item goes
// through the single-item handler, so every capacity and state guard still
// applies; one full scholarship or already-reviewed item does not abort the
// rest of the batch.
// ══════════════════════════════════════════════════════════════════════════════

// ReviewDecision names the bulk operation being applied.
type ReviewDecision string

const (
	// DecisionApprove - approve every listed application.
	DecisionApprove ReviewDecision = "approve"

	// DecisionReject - reject every listed application.
	DecisionReject ReviewDecision = "reject"
)

// BulkReviewCommand contains a batch of applications to review.
type BulkReviewCommand struct {
	// ApplicationIDs are the applications to review, processed in order.
	ApplicationIDs []string

	// Decision is the operation to apply to every application.
	Decision ReviewDecision

	// ReviewerID is the admin performing the review.
	ReviewerID string

	// IPAddress is the request origin, recorded in the audit trail.
	IPAddress string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c BulkReviewCommand) Validate() error {
	if len(c.ApplicationIDs) == 0 {
		return errors.New("bulk_review: application_ids is required")
	}
	if c.ReviewerID == "" {
		return errors.New("bulk_review: reviewer_id is required")
	}
	if c.Decision != DecisionApprove && c.Decision != DecisionReject {
		return fmt.Errorf("bulk_review: unknown decision: %s", c.Decision)
	}
	return nil
}

// BulkReviewResult contains per-item outcomes of a bulk review.
type BulkReviewResult struct {
	// TotalCount is the number of applications in the batch.
	TotalCount int

	// SuccessCount is how many transitions committed.
	SuccessCount int

	// FailedCount is how many items failed.
	FailedCount int

	// Errors maps application ID to the failure, for failed items only.
	Errors map[string]error
}

// BulkReviewHandler handles the BulkReviewCommand.
type BulkReviewHandler struct {
	approve *ApproveApplicationHandler
	reject  *RejectApplicationHandler
}

// NewBulkReviewHandler creates a new BulkReviewHandler.
func NewBulkReviewHandler(approve *ApproveApplicationHandler, reject *RejectApplicationHandler) *BulkReviewHandler {
	return &BulkReviewHandler{approve: approve, reject: reject}
}

// Handle executes the bulk review command. Items are processed sequentially
// in the given order: for approvals that means earlier items get first claim
// on remaining seats.
func (h *BulkReviewHandler) Handle(ctx context.Context, cmd BulkReviewCommand) (*BulkReviewResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &BulkReviewResult{
		TotalCount: len(cmd.ApplicationIDs),
		Errors:     make(map[string]error),
	}

	for _, id := range cmd.ApplicationIDs {
		var err error
		switch cmd.Decision {
		case DecisionApprove:
			_, err = h.approve.Handle(ctx, ApproveApplicationCommand{
				ApplicationID: id,
				ReviewerID:    cmd.ReviewerID,
				IPAddress:     cmd.IPAddress,
				CorrelationID: cmd.CorrelationID,
			})
		case DecisionReject:
			_, err = h.reject.Handle(ctx, RejectApplicationCommand{
				ApplicationID: id,
				ReviewerID:    cmd.ReviewerID,
				IPAddress:     cmd.IPAddress,
				CorrelationID: cmd.CorrelationID,
			})
		}

		if err != nil {
			result.FailedCount++
			result.Errors[id] = err
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}
