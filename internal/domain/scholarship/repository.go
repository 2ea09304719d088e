package scholarship

import (
	"context"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for scholarship storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for scholarships.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create stores a new scholarship.
	// Returns shared.ErrScholarshipExists if the ID is already taken.
	Create(ctx context.Context, s *Scholarship) error

	// GetByID returns a scholarship by ID.
	// Returns shared.ErrScholarshipNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Scholarship, error)

	// Update persists changes to an existing scholarship.
	// Returns shared.ErrScholarshipNotFound if it does not exist.
	Update(ctx context.Context, s *Scholarship) error

	// Delete removes a scholarship.
	// Callers are responsible for the deletion policy; the repository
	// performs no cascade.
	Delete(ctx context.Context, id string) error

	// ─────────────────────────────────────────────────────────────────────────
	// Listing
	// ─────────────────────────────────────────────────────────────────────────

	// List returns scholarships matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Scholarship, error)

	// FindExpirable returns active scholarships whose deadline is before
	// the given time. Used by the expiry job.
	FindExpirable(ctx context.Context, before time.Time) ([]*Scholarship, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Seat Accounting
	// ─────────────────────────────────────────────────────────────────────────

	// CompareAndIncrementFilledSeats atomically increments filled_seats by
	// one, provided the current value equals expected and the result does
	// not exceed total_seats.
	//
	// Returns shared.ErrOptimisticLock when the stored value no longer
	// matches expected (another approval landed first), and
	// shared.ErrCapacityExceeded when the increment would overrun capacity.
	CompareAndIncrementFilledSeats(ctx context.Context, id string, expected int) error
}

// ListFilter narrows a scholarship listing.
type ListFilter struct {
	// CollegeID restricts results to one tenant. Required for multi-tenant
	// stores; optional for in-memory test stores.
	CollegeID shared.CollegeID

	// Status filters by lifecycle state (empty = all).
	Status Status

	// Category filters by award basis (empty = all).
	Category Category

	// Pagination bounds the result set.
	Pagination shared.Pagination
}
