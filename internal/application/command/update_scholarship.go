package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SCHOLARSHIP COMMAND
// Partial update: nil fields stay untouched. Capacity can only grow, so no
// edit can push filled seats past the total.
// ══════════════════════════════════════════════════════════════════════════════

// ErrSeatReduction - total seats cannot drop below the filled count.
var ErrSeatReduction = errors.New("update_scholarship: total seats cannot drop below filled seats")

// UpdateScholarshipCommand contains the fields to change on a scholarship.
type UpdateScholarshipCommand struct {
	// ScholarshipID is the scholarship to update.
	ScholarshipID string

	// Name replaces the display name when non-nil.
	Name *string

	// Description replaces the description when non-nil.
	Description *string

	// Amount replaces the award amount when non-nil.
	Amount *int64

	// TotalSeats replaces the capacity when non-nil.
	TotalSeats *int

	// MinCGPA replaces the eligibility floor when non-nil.
	MinCGPA *float64

	// MaxIncome replaces the income ceiling when non-nil.
	MaxIncome *int64

	// Deadline replaces the deadline when non-nil.
	Deadline *time.Time

	// ActorID is the admin performing the update.
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c UpdateScholarshipCommand) Validate() error {
	if c.ScholarshipID == "" {
		return errors.New("update_scholarship: scholarship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("update_scholarship: actor_id is required")
	}
	return nil
}

// UpdateScholarshipResult contains the result of updating a scholarship.
type UpdateScholarshipResult struct {
	// Scholarship is the updated record.
	Scholarship *scholarship.Scholarship

	// Changed lists the field names that were modified.
	Changed []string
}

// UpdateScholarshipHandler handles the UpdateScholarshipCommand.
type UpdateScholarshipHandler struct {
	scholarshipRepo scholarship.Repository
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewUpdateScholarshipHandler creates a new UpdateScholarshipHandler.
// The cache is optional; when present it is invalidated after every edit,
// since eligibility and capacity changes reshape the ranking.
func NewUpdateScholarshipHandler(
	scholarshipRepo scholarship.Repository,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *UpdateScholarshipHandler {
	return &UpdateScholarshipHandler{
		scholarshipRepo: scholarshipRepo,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the update scholarship command.
func (h *UpdateScholarshipHandler) Handle(ctx context.Context, cmd UpdateScholarshipCommand) (*UpdateScholarshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("scholarship", "Update", shared.ErrValidation, "validation failed", err)
	}

	s, err := h.scholarshipRepo.GetByID(ctx, cmd.ScholarshipID)
	if err != nil {
		return nil, err
	}

	var changed []string

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if len(name) == 0 || len(name) > 200 {
			return nil, scholarship.ErrInvalidName
		}
		s.Name = name
		changed = append(changed, "name")
	}

	if cmd.Description != nil {
		s.Description = strings.TrimSpace(*cmd.Description)
		changed = append(changed, "description")
	}

	if cmd.Amount != nil {
		m, err := shared.NewMoney(*cmd.Amount)
		if err != nil {
			return nil, err
		}
		s.Amount = m
		changed = append(changed, "amount")
	}

	if cmd.TotalSeats != nil {
		if *cmd.TotalSeats < s.FilledSeats {
			return nil, ErrSeatReduction
		}
		s.TotalSeats = *cmd.TotalSeats
		changed = append(changed, "total_seats")
	}

	if cmd.MinCGPA != nil {
		c, err := shared.NewCGPA(*cmd.MinCGPA)
		if err != nil {
			return nil, err
		}
		s.MinCGPA = &c
		changed = append(changed, "min_cgpa")
	}

	if cmd.MaxIncome != nil {
		m, err := shared.NewMoney(*cmd.MaxIncome)
		if err != nil {
			return nil, err
		}
		s.MaxIncome = &m
		changed = append(changed, "max_income")
	}

	if cmd.Deadline != nil {
		d := *cmd.Deadline
		s.Deadline = &d
		changed = append(changed, "deadline")
	}

	if len(changed) == 0 {
		return &UpdateScholarshipResult{Scholarship: s}, nil
	}

	s.UpdatedAt = time.Now().UTC()
	if err := h.scholarshipRepo.Update(ctx, s); err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, s.ID)
	}

	event := shared.NewScholarshipUpdatedEvent(s.ID, s.CollegeID.String(), s.Name, changed, cmd.ActorID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &UpdateScholarshipResult{Scholarship: s, Changed: changed}, nil
}
