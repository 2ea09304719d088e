package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT APPLICATION COMMAND
// Intake for new applications. The composite score is computed at submission
// so listings can sort by merit without waiting for an allocation run; an
// allocation run re-scores from the same inputs and lands on the same number.
// ══════════════════════════════════════════════════════════════════════════════

// ErrDeadlinePassed - the scholarship deadline has passed.
var ErrDeadlinePassed = errors.New("submit_application: scholarship deadline has passed")

// SubmitApplicationCommand contains the data to submit an application.
type SubmitApplicationCommand struct {
	// ScholarshipID is the scholarship being applied to.
	ScholarshipID string

	// CollegeID is the owning tenant college.
	CollegeID string

	// StudentName is the applicant's full name.
	StudentName string

	// StudentRoll is the applicant's roll number, e.g. "CS2024001".
	StudentRoll string

	// StudentEmail is the applicant's contact email (optional).
	StudentEmail string

	// CGPA is the applicant's cumulative grade point average.
	CGPA float64

	// FamilyIncome is the annual family income in rupees.
	FamilyIncome int64

	// Department is the applicant's department name.
	Department string

	// YearOfStudy is the current year (1-6).
	YearOfStudy int

	// Documents are the names of submitted supporting documents.
	Documents []string

	// EssayRating is the essay quality rating (0-10).
	EssayRating int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c SubmitApplicationCommand) Validate() error {
	if c.ScholarshipID == "" {
		return errors.New("submit_application: scholarship_id is required")
	}
	if c.CollegeID == "" {
		return errors.New("submit_application: college_id is required")
	}
	if c.StudentName == "" {
		return errors.New("submit_application: student_name is required")
	}
	return nil
}

// SubmitApplicationResult contains the result of submitting an application.
type SubmitApplicationResult struct {
	// Application is the created record, scored and pending.
	Application *application.Application
}

// SubmitApplicationHandler handles the SubmitApplicationCommand.
type SubmitApplicationHandler struct {
	applicationRepo application.Repository
	scholarshipRepo scholarship.Repository
	scorer          allocation.Scorer
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewSubmitApplicationHandler creates a new SubmitApplicationHandler.
func NewSubmitApplicationHandler(
	applicationRepo application.Repository,
	scholarshipRepo scholarship.Repository,
	scorer allocation.Scorer,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *SubmitApplicationHandler {
	return &SubmitApplicationHandler{
		applicationRepo: applicationRepo,
		scholarshipRepo: scholarshipRepo,
		scorer:          scorer,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the submit application command.
func (h *SubmitApplicationHandler) Handle(ctx context.Context, cmd SubmitApplicationCommand) (*SubmitApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("application", "Submit", shared.ErrValidation, "validation failed", err)
	}

	s, err := h.scholarshipRepo.GetByID(ctx, cmd.ScholarshipID)
	if err != nil {
		return nil, err
	}
	if s.Status != scholarship.StatusActive {
		return nil, shared.ErrScholarshipNotActive
	}

	now := time.Now().UTC()
	if s.IsPastDeadline(now) {
		return nil, ErrDeadlinePassed
	}

	collegeID, err := shared.NewCollegeID(cmd.CollegeID)
	if err != nil {
		return nil, err
	}

	roll, err := shared.NewRollNumber(cmd.StudentRoll)
	if err != nil {
		return nil, err
	}

	app, err := application.NewApplication(application.NewApplicationParams{
		ID:            uuid.New().String(),
		ScholarshipID: s.ID,
		CollegeID:     collegeID,
		StudentName:   cmd.StudentName,
		StudentRoll:   roll,
		StudentEmail:  cmd.StudentEmail,
		CGPA:          shared.CGPA(cmd.CGPA),
		FamilyIncome:  shared.Money(cmd.FamilyIncome),
		Department:    cmd.Department,
		YearOfStudy:   cmd.YearOfStudy,
		Documents:     cmd.Documents,
		EssayRating:   cmd.EssayRating,
		AppliedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	total, breakdown := h.scorer.Score(s, app)
	if err := app.AssignScore(total, breakdown); err != nil {
		return nil, err
	}

	if err := h.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, s.ID)
	}

	event := shared.NewApplicationSubmittedEvent(
		app.ID, app.CollegeID.String(), s.ID,
		app.StudentName, app.StudentRoll.String(), app.Score.Int(),
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &SubmitApplicationResult{Application: app}, nil
}
