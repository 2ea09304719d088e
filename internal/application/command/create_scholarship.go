package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE SCHOLARSHIP COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateScholarshipCommand contains the data to create a scholarship.
type CreateScholarshipCommand struct {
	// CollegeID is the owning tenant college.
	CollegeID string

	// Name is the display name.
	Name string

	// Description is the free-form description shown to applicants.
	Description string

	// Category is the award basis (merit, need, sports, government).
	Category string

	// Amount is the monetary award per seat, in rupees.
	Amount int64

	// TotalSeats is the fixed capacity.
	TotalSeats int

	// MinCGPA is the optional eligibility floor (nil = no floor).
	MinCGPA *float64

	// MaxIncome is the optional family income ceiling in rupees (nil = none).
	MaxIncome *int64

	// Deadline is the optional application deadline (nil = open-ended).
	Deadline *time.Time

	// Activate opens the scholarship immediately instead of leaving it draft.
	Activate bool

	// ActorID is the admin creating the scholarship.
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CreateScholarshipCommand) Validate() error {
	if c.CollegeID == "" {
		return errors.New("create_scholarship: college_id is required")
	}
	if c.Name == "" {
		return errors.New("create_scholarship: name is required")
	}
	if c.ActorID == "" {
		return errors.New("create_scholarship: actor_id is required")
	}
	return nil
}

// CreateScholarshipResult contains the result of creating a scholarship.
type CreateScholarshipResult struct {
	// Scholarship is the created record.
	Scholarship *scholarship.Scholarship
}

// CreateScholarshipHandler handles the CreateScholarshipCommand.
type CreateScholarshipHandler struct {
	scholarshipRepo scholarship.Repository
	eventPublisher  shared.EventPublisher
}

// NewCreateScholarshipHandler creates a new CreateScholarshipHandler.
func NewCreateScholarshipHandler(
	scholarshipRepo scholarship.Repository,
	eventPublisher shared.EventPublisher,
) *CreateScholarshipHandler {
	return &CreateScholarshipHandler{
		scholarshipRepo: scholarshipRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the create scholarship command.
func (h *CreateScholarshipHandler) Handle(ctx context.Context, cmd CreateScholarshipCommand) (*CreateScholarshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("scholarship", "Create", shared.ErrValidation, "validation failed", err)
	}

	collegeID, err := shared.NewCollegeID(cmd.CollegeID)
	if err != nil {
		return nil, err
	}

	var minCGPA *shared.CGPA
	if cmd.MinCGPA != nil {
		c, err := shared.NewCGPA(*cmd.MinCGPA)
		if err != nil {
			return nil, err
		}
		minCGPA = &c
	}

	var maxIncome *shared.Money
	if cmd.MaxIncome != nil {
		m, err := shared.NewMoney(*cmd.MaxIncome)
		if err != nil {
			return nil, err
		}
		maxIncome = &m
	}

	status := scholarship.StatusDraft
	if cmd.Activate {
		status = scholarship.StatusActive
	}

	s, err := scholarship.NewScholarship(scholarship.NewScholarshipParams{
		ID:          uuid.New().String(),
		CollegeID:   collegeID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Category:    scholarship.Category(cmd.Category),
		Amount:      shared.Money(cmd.Amount),
		TotalSeats:  cmd.TotalSeats,
		MinCGPA:     minCGPA,
		MaxIncome:   maxIncome,
		Deadline:    cmd.Deadline,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}

	if err := h.scholarshipRepo.Create(ctx, s); err != nil {
		return nil, err
	}

	event := shared.NewScholarshipCreatedEvent(
		s.ID, s.CollegeID.String(), s.Name, s.Category.String(),
		s.Amount.Int64(), s.TotalSeats, cmd.ActorID,
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &CreateScholarshipResult{Scholarship: s}, nil
}
