// Package application contains the scholarship application aggregate and its
// status lifecycle. The state machine here is the only code allowed to move an
// application out of the pending state. No external dependencies.
package application

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status defines the review state of an application.
// Pending is the initial state; Approved and Rejected are terminal.
type Status string

const (
	// StatusPending - submitted, awaiting review.
	StatusPending Status = "pending"
	// StatusApproved - admitted; consumed one seat. Terminal.
	StatusApproved Status = "approved"
	// StatusRejected - declined. Terminal.
	StatusRejected Status = "rejected"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE BREAKDOWN
// ══════════════════════════════════════════════════════════════════════════════

// Component caps for the four-part score breakdown.
const (
	MaxAcademic        = 40
	MaxFinancial       = 30
	MaxExtracurricular = 20
	MaxEssay           = 10
)

// ScoreBreakdown decomposes a composite score into weighted components
// for explainability. The breakdown is display-only: ranking and admission
// always use the total score.
type ScoreBreakdown struct {
	// Academic - academic performance component (max 40).
	Academic int

	// Financial - financial need component (max 30).
	Financial int

	// Extracurricular - activities component (max 20).
	Extracurricular int

	// Essay - essay quality component (max 10).
	Essay int
}

// Sum returns the sum of all components.
func (b ScoreBreakdown) Sum() int {
	return b.Academic + b.Financial + b.Extracurricular + b.Essay
}

// IsValid checks that each component is within its cap.
func (b ScoreBreakdown) IsValid() bool {
	return b.Academic >= 0 && b.Academic <= MaxAcademic &&
		b.Financial >= 0 && b.Financial <= MaxFinancial &&
		b.Extracurricular >= 0 && b.Extracurricular <= MaxExtracurricular &&
		b.Essay >= 0 && b.Essay <= MaxEssay
}

// SplitScore reconstructs a breakdown from a scalar score using the fixed
// 40/30/20/10 ratio. Independent rounding may drift the component sum from
// the total by a point or two; the drift is cosmetic and must never feed
// back into ranking.
func SplitScore(total shared.Score) ScoreBreakdown {
	t := float64(total.Int())
	return ScoreBreakdown{
		Academic:        int(math.Round(t * 0.40)),
		Financial:       int(math.Round(t * 0.30)),
		Extracurricular: int(math.Round(t * 0.20)),
		Essay:           int(math.Round(t * 0.10)),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidStudentName - the student name is missing or too long.
	ErrInvalidStudentName = errors.New("invalid student name: must be 1-100 chars")

	// ErrInvalidYearOfStudy - year of study must be between 1 and 6.
	ErrInvalidYearOfStudy = errors.New("invalid year of study: must be between 1 and 6")

	// ErrInvalidBreakdown - a breakdown component exceeds its cap.
	ErrInvalidBreakdown = errors.New("invalid score breakdown: component exceeds its cap")

	// ErrInvalidTransition - the application is not pending.
	// Terminal states admit no further transition; re-invoking a review on
	// an already-reviewed application returns this error with no side effects.
	ErrInvalidTransition = errors.New("invalid transition: application is not pending")

	// ErrMissingReviewer - a review transition requires a reviewer identity.
	ErrMissingReviewer = errors.New("reviewer id is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// Application represents one student's application to one scholarship.
// Created on submission, mutated only through the Approve/Reject state
// machine, never deleted by the engine.
type Application struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// ScholarshipID - the scholarship this application targets.
	ScholarshipID string

	// CollegeID - owning tenant college.
	CollegeID shared.CollegeID

	// StudentName - applicant's full name.
	StudentName string

	// StudentRoll - applicant's roll number, e.g. "CS2024001".
	StudentRoll shared.RollNumber

	// StudentEmail - applicant's contact email (optional).
	StudentEmail string

	// CGPA - applicant's cumulative grade point average.
	CGPA shared.CGPA

	// FamilyIncome - annual family income in rupees.
	FamilyIncome shared.Money

	// Department - applicant's department name.
	Department string

	// YearOfStudy - current year (1-6).
	YearOfStudy int

	// Documents - names of submitted supporting documents.
	Documents []string

	// Score - composite merit score (0-100).
	Score shared.Score

	// Breakdown - explainable decomposition of Score.
	Breakdown ScoreBreakdown

	// EssayRating - reviewer-assigned essay quality (0-10).
	EssayRating int

	// Status - review state.
	Status Status

	// AppliedAt - submission time; the ranking tie-breaker.
	AppliedAt time.Time

	// ReviewedAt - set only on transition out of pending.
	ReviewedAt *time.Time

	// ReviewedBy - reviewer identity; set only on transition out of pending.
	ReviewedBy string
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewApplicationParams contains parameters for creating an application.
type NewApplicationParams struct {
	ID            string
	ScholarshipID string
	CollegeID     shared.CollegeID
	StudentName   string
	StudentRoll   shared.RollNumber
	StudentEmail  string
	CGPA          shared.CGPA
	FamilyIncome  shared.Money
	Department    string
	YearOfStudy   int
	Documents     []string
	EssayRating   int
	AppliedAt     time.Time
}

// NewApplication creates a pending application with all fields validated.
// The composite score is assigned separately by the scorer.
func NewApplication(params NewApplicationParams) (*Application, error) {
	if params.ID == "" {
		return nil, errors.New("application id is required")
	}

	if params.ScholarshipID == "" {
		return nil, errors.New("scholarship id is required")
	}

	if params.CollegeID.IsEmpty() {
		return nil, errors.New("college id is required")
	}

	name := strings.TrimSpace(params.StudentName)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidStudentName
	}

	if !params.StudentRoll.IsValid() {
		return nil, shared.ErrInvalidStudentRoll
	}

	if !params.CGPA.IsValid() {
		return nil, shared.ErrInvalidCGPA
	}

	if !params.FamilyIncome.IsValid() {
		return nil, shared.ErrInvalidIncome
	}

	if params.YearOfStudy < 1 || params.YearOfStudy > 6 {
		return nil, ErrInvalidYearOfStudy
	}

	if params.EssayRating < 0 || params.EssayRating > MaxEssay {
		return nil, shared.ErrValueOutOfRange
	}

	appliedAt := params.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = time.Now().UTC()
	}

	return &Application{
		ID:            params.ID,
		ScholarshipID: params.ScholarshipID,
		CollegeID:     params.CollegeID,
		StudentName:   name,
		StudentRoll:   params.StudentRoll,
		StudentEmail:  strings.TrimSpace(params.StudentEmail),
		CGPA:          params.CGPA,
		FamilyIncome:  params.FamilyIncome,
		Department:    strings.TrimSpace(params.Department),
		YearOfStudy:   params.YearOfStudy,
		Documents:     append([]string(nil), params.Documents...),
		EssayRating:   params.EssayRating,
		Status:        StatusPending,
		AppliedAt:     appliedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE MACHINE
// Pending → Approved (terminal), Pending → Rejected (terminal).
// No transition is defined out of a terminal state.
// ══════════════════════════════════════════════════════════════════════════════

// IsPending reports whether the application is awaiting review.
func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

// Approve transitions the application to approved, stamping reviewer and time.
// The caller must have already secured a seat; this method only moves the
// record. Returns ErrInvalidTransition if the application is not pending.
func (a *Application) Approve(reviewerID string, at time.Time) error {
	if reviewerID == "" {
		return ErrMissingReviewer
	}
	if a.Status != StatusPending {
		return fmt.Errorf("%w: current status %q", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusApproved
	a.ReviewedAt = &at
	a.ReviewedBy = reviewerID
	return nil
}

// Reject transitions the application to rejected, stamping reviewer and time.
// Does not touch seat accounting. Returns ErrInvalidTransition if the
// application is not pending.
func (a *Application) Reject(reviewerID string, at time.Time) error {
	if reviewerID == "" {
		return ErrMissingReviewer
	}
	if a.Status != StatusPending {
		return fmt.Errorf("%w: current status %q", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusRejected
	a.ReviewedAt = &at
	a.ReviewedBy = reviewerID
	return nil
}

// AssignScore sets the composite score and its breakdown.
// Only meaningful while the application is pending.
func (a *Application) AssignScore(score shared.Score, breakdown ScoreBreakdown) error {
	if !score.IsValid() {
		return shared.ErrInvalidScore
	}
	if !breakdown.IsValid() {
		return ErrInvalidBreakdown
	}

	a.Score = score
	a.Breakdown = breakdown
	return nil
}

// String returns a string representation for logging.
func (a *Application) String() string {
	return fmt.Sprintf(
		"Application{ID: %s, Roll: %s, Score: %d, Status: %s}",
		a.ID, a.StudentRoll, a.Score, a.Status,
	)
}

// Clone creates a deep copy of the application.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}

	clone := *a
	clone.Documents = append([]string(nil), a.Documents...)
	if a.ReviewedAt != nil {
		v := *a.ReviewedAt
		clone.ReviewedAt = &v
	}
	return &clone
}
