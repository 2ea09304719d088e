// Package scholarship contains the scholarship aggregate: the scarce resource
// the allocation engine distributes. No external dependencies.
package scholarship

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Category classifies the scholarship by award basis.
type Category string

const (
	// CategoryMerit - awarded on academic merit.
	CategoryMerit Category = "merit"
	// CategoryNeed - awarded on financial need.
	CategoryNeed Category = "need"
	// CategorySports - awarded on sporting achievement.
	CategorySports Category = "sports"
	// CategoryGovernment - government-funded quota.
	CategoryGovernment Category = "government"
)

// IsValid checks that the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMerit, CategoryNeed, CategorySports, CategoryGovernment:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Status defines the lifecycle state of a scholarship.
type Status string

const (
	// StatusDraft - created but not yet open for applications.
	StatusDraft Status = "draft"
	// StatusActive - open; applications can be submitted and reviewed.
	StatusActive Status = "active"
	// StatusExpired - past deadline; no further submissions.
	StatusExpired Status = "expired"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusExpired:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - the scholarship name is missing or too long.
	ErrInvalidName = errors.New("invalid scholarship name: must be 1-200 chars")

	// ErrInvalidSeats - total seats must be non-negative.
	ErrInvalidSeats = errors.New("invalid total seats: must be >= 0")

	// ErrSeatInvariant - filled seats fell outside [0, totalSeats].
	ErrSeatInvariant = errors.New("seat invariant violated: filled seats must be within [0, total seats]")

	// ErrNoSeatsRemaining - all seats are consumed.
	ErrNoSeatsRemaining = errors.New("no seats remaining")

	// ErrNotActive - the scholarship is not accepting reviews.
	ErrNotActive = errors.New("scholarship is not active")

	// ErrAlreadyExpired - the scholarship is already expired.
	ErrAlreadyExpired = errors.New("scholarship already expired")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SCHOLARSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Scholarship is the capacity-bounded resource applications compete for.
//
// FilledSeats is mutated only by successful Approve transitions on this
// scholarship's applications, never directly. The invariant
// 0 <= FilledSeats <= TotalSeats must hold at all times.
type Scholarship struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// CollegeID - owning tenant college.
	CollegeID shared.CollegeID

	// Name - display name, e.g. "Merit Excellence Award".
	Name string

	// Description - free-form description shown to applicants.
	Description string

	// Category - award basis.
	Category Category

	// Amount - monetary award per seat.
	Amount shared.Money

	// TotalSeats - fixed capacity.
	TotalSeats int

	// FilledSeats - seats consumed by approved applications.
	FilledSeats int

	// MinCGPA - optional CGPA floor; nil means no floor.
	MinCGPA *shared.CGPA

	// MaxIncome - optional family income ceiling; nil means no ceiling.
	MaxIncome *shared.Money

	// Deadline - optional application deadline; nil means open-ended.
	Deadline *time.Time

	// Status - lifecycle state.
	Status Status

	// CreatedAt - record creation time.
	CreatedAt time.Time

	// UpdatedAt - last modification time.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewScholarshipParams contains parameters for creating a scholarship.
type NewScholarshipParams struct {
	ID          string
	CollegeID   shared.CollegeID
	Name        string
	Description string
	Category    Category
	Amount      shared.Money
	TotalSeats  int
	MinCGPA     *shared.CGPA
	MaxIncome   *shared.Money
	Deadline    *time.Time
	Status      Status
}

// NewScholarship creates a scholarship with all fields validated.
func NewScholarship(params NewScholarshipParams) (*Scholarship, error) {
	if params.ID == "" {
		return nil, errors.New("scholarship id is required")
	}

	if params.CollegeID.IsEmpty() {
		return nil, errors.New("college id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 200 {
		return nil, ErrInvalidName
	}

	if !params.Category.IsValid() {
		return nil, shared.ErrInvalidCategory
	}

	if !params.Amount.IsValid() {
		return nil, shared.ErrNegativeValue
	}

	if params.TotalSeats < 0 {
		return nil, ErrInvalidSeats
	}

	if params.MinCGPA != nil && !params.MinCGPA.IsValid() {
		return nil, shared.ErrInvalidCGPA
	}

	if params.MaxIncome != nil && !params.MaxIncome.IsValid() {
		return nil, shared.ErrInvalidIncome
	}

	status := params.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return nil, shared.ErrInvalidState
	}

	now := time.Now().UTC()

	return &Scholarship{
		ID:          params.ID,
		CollegeID:   params.CollegeID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Category:    params.Category,
		Amount:      params.Amount,
		TotalSeats:  params.TotalSeats,
		FilledSeats: 0,
		MinCGPA:     params.MinCGPA,
		MaxIncome:   params.MaxIncome,
		Deadline:    params.Deadline,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// RemainingSeats returns how many admissions the scholarship can still accept.
func (s *Scholarship) RemainingSeats() int {
	remaining := s.TotalSeats - s.FilledSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull reports whether all seats are consumed.
func (s *Scholarship) IsFull() bool {
	return s.FilledSeats >= s.TotalSeats
}

// CheckSeatInvariant verifies 0 <= FilledSeats <= TotalSeats.
func (s *Scholarship) CheckSeatInvariant() error {
	if s.FilledSeats < 0 || s.FilledSeats > s.TotalSeats {
		return fmt.Errorf("%w: filled=%d total=%d", ErrSeatInvariant, s.FilledSeats, s.TotalSeats)
	}
	return nil
}

// ConsumeSeat increments FilledSeats by one.
// Fails with ErrNoSeatsRemaining when the scholarship is full. Persistence
// implementations must make this a compare-and-increment so two concurrent
// approvals cannot both take the last seat.
func (s *Scholarship) ConsumeSeat() error {
	if s.IsFull() {
		return ErrNoSeatsRemaining
	}
	s.FilledSeats++
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AcceptsCGPA reports whether the given CGPA meets the optional floor.
func (s *Scholarship) AcceptsCGPA(cgpa shared.CGPA) bool {
	if s.MinCGPA == nil {
		return true
	}
	return cgpa.AtLeast(*s.MinCGPA)
}

// AcceptsIncome reports whether the given family income is within the
// optional ceiling.
func (s *Scholarship) AcceptsIncome(income shared.Money) bool {
	if s.MaxIncome == nil {
		return true
	}
	return !income.Exceeds(*s.MaxIncome)
}

// Activate moves a draft scholarship into the active state.
func (s *Scholarship) Activate() error {
	if s.Status == StatusExpired {
		return ErrAlreadyExpired
	}
	s.Status = StatusActive
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Expire marks the scholarship as expired.
func (s *Scholarship) Expire() error {
	if s.Status == StatusExpired {
		return ErrAlreadyExpired
	}
	s.Status = StatusExpired
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// IsPastDeadline reports whether the deadline has passed at the given time.
// Scholarships without a deadline never expire automatically.
func (s *Scholarship) IsPastDeadline(now time.Time) bool {
	if s.Deadline == nil {
		return false
	}
	return now.After(*s.Deadline)
}

// String returns a string representation for logging.
func (s *Scholarship) String() string {
	return fmt.Sprintf(
		"Scholarship{ID: %s, Name: %q, Seats: %d/%d, Status: %s}",
		s.ID, s.Name, s.FilledSeats, s.TotalSeats, s.Status,
	)
}

// Clone creates a deep copy of the scholarship.
func (s *Scholarship) Clone() *Scholarship {
	if s == nil {
		return nil
	}

	clone := *s
	if s.MinCGPA != nil {
		v := *s.MinCGPA
		clone.MinCGPA = &v
	}
	if s.MaxIncome != nil {
		v := *s.MaxIncome
		clone.MaxIncome = &v
	}
	if s.Deadline != nil {
		v := *s.Deadline
		clone.Deadline = &v
	}
	return &clone
}
