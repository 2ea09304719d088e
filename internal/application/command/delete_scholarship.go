package command

import (
	"context"
	"errors"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE SCHOLARSHIP COMMAND
// Deletion policy: a scholarship with approved applications can never be
// deleted (awards already granted), and one with pending applications must
// have them reviewed or withdrawn first. Only fully settled scholarships
// with no live applications can go.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteScholarshipCommand contains the data to delete a scholarship.
type DeleteScholarshipCommand struct {
	// ScholarshipID is the scholarship to delete.
	ScholarshipID string

	// ActorID is the admin performing the deletion.
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c DeleteScholarshipCommand) Validate() error {
	if c.ScholarshipID == "" {
		return errors.New("delete_scholarship: scholarship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("delete_scholarship: actor_id is required")
	}
	return nil
}

// DeleteScholarshipHandler handles the DeleteScholarshipCommand.
type DeleteScholarshipHandler struct {
	scholarshipRepo scholarship.Repository
	applicationRepo application.Repository
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewDeleteScholarshipHandler creates a new DeleteScholarshipHandler.
// The cache is optional; when present the deleted scholarship's cached
// pass is dropped so it cannot be served after the record is gone.
func NewDeleteScholarshipHandler(
	scholarshipRepo scholarship.Repository,
	applicationRepo application.Repository,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *DeleteScholarshipHandler {
	return &DeleteScholarshipHandler{
		scholarshipRepo: scholarshipRepo,
		applicationRepo: applicationRepo,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the delete scholarship command.
func (h *DeleteScholarshipHandler) Handle(ctx context.Context, cmd DeleteScholarshipCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("scholarship", "Delete", shared.ErrValidation, "validation failed", err)
	}

	s, err := h.scholarshipRepo.GetByID(ctx, cmd.ScholarshipID)
	if err != nil {
		return err
	}

	approved, err := h.applicationRepo.CountByStatus(ctx, s.ID, application.StatusApproved)
	if err != nil {
		return err
	}
	if approved > 0 {
		return shared.ErrScholarshipHasAwards
	}

	pending, err := h.applicationRepo.CountByStatus(ctx, s.ID, application.StatusPending)
	if err != nil {
		return err
	}
	if pending > 0 {
		return shared.ErrScholarshipHasPending
	}

	if err := h.scholarshipRepo.Delete(ctx, s.ID); err != nil {
		return err
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, s.ID)
	}

	event := shared.NewScholarshipDeletedEvent(s.ID, s.CollegeID.String(), s.Name, cmd.ActorID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return nil
}
