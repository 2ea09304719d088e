package command

import (
	"context"
	"errors"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REJECT APPLICATION COMMAND
// Rejection is terminal but touches no seat accounting.
// ══════════════════════════════════════════════════════════════════════════════

// RejectApplicationCommand contains the data to reject an application.
type RejectApplicationCommand struct {
	// ApplicationID is the application to reject.
	ApplicationID string

	// ReviewerID is the admin performing the review.
	ReviewerID string

	// Reason is an optional free-form rejection reason for the audit trail.
	Reason string

	// IPAddress is the request origin, recorded in the audit trail.
	IPAddress string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RejectApplicationCommand) Validate() error {
	if c.ApplicationID == "" {
		return errors.New("reject_application: application_id is required")
	}
	if c.ReviewerID == "" {
		return errors.New("reject_application: reviewer_id is required")
	}
	return nil
}

// RejectApplicationResult contains the result of a rejection.
type RejectApplicationResult struct {
	// ApplicationID is the rejected application.
	ApplicationID string

	// ScholarshipID is the scholarship the application targeted.
	ScholarshipID string

	// ReviewedAt is when the rejection was committed.
	ReviewedAt time.Time
}

// RejectApplicationHandler handles the RejectApplicationCommand.
type RejectApplicationHandler struct {
	applicationRepo application.Repository
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewRejectApplicationHandler creates a new RejectApplicationHandler.
func NewRejectApplicationHandler(
	applicationRepo application.Repository,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *RejectApplicationHandler {
	return &RejectApplicationHandler{
		applicationRepo: applicationRepo,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the reject application command. The status write is
// guarded by the expected pending status, so a rejection racing an approval
// fails cleanly instead of overwriting a terminal state.
func (h *RejectApplicationHandler) Handle(ctx context.Context, cmd RejectApplicationCommand) (*RejectApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("application", "Reject", shared.ErrValidation, "validation failed", err)
	}

	app, err := h.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsPending() {
		return nil, shared.ErrNotPending
	}

	reviewedAt := time.Now().UTC()
	if err := h.applicationRepo.SetStatus(ctx, app.ID, application.StatusPending, application.StatusRejected, cmd.ReviewerID, reviewedAt); err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, app.ScholarshipID)
	}

	event := shared.NewApplicationRejectedEvent(
		app.ID, app.CollegeID.String(), app.ScholarshipID,
		app.StudentName, app.StudentRoll.String(), cmd.ReviewerID,
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &RejectApplicationResult{
		ApplicationID: app.ID,
		ScholarshipID: app.ScholarshipID,
		ReviewedAt:    reviewedAt,
	}, nil
}
