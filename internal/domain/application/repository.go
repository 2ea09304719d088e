package application

import (
	"context"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for application storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for applications.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create stores a new application.
	// Returns shared.ErrApplicationExists if the ID is already taken.
	Create(ctx context.Context, a *Application) error

	// GetByID returns an application by ID.
	// Returns shared.ErrApplicationNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Application, error)

	// Update persists changes to an existing application.
	// Returns shared.ErrApplicationNotFound if it does not exist.
	Update(ctx context.Context, a *Application) error

	// ─────────────────────────────────────────────────────────────────────────
	// Listing
	// ─────────────────────────────────────────────────────────────────────────

	// ListByScholarship returns all applications for a scholarship,
	// ordered by applied_at ascending.
	ListByScholarship(ctx context.Context, scholarshipID string) ([]*Application, error)

	// List returns applications matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*Application, error)

	// CountByStatus returns the number of applications for a scholarship
	// in the given status. Used to verify the seat invariant.
	CountByStatus(ctx context.Context, scholarshipID string, status Status) (int, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Guarded Status Write
	// ─────────────────────────────────────────────────────────────────────────

	// SetStatus transitions an application's status, guarded by the
	// expected previous status. Returns shared.ErrNotPending when the
	// stored status no longer matches expected (the transition already
	// happened elsewhere), so a lost race never double-applies.
	SetStatus(ctx context.Context, id string, expected, next Status, reviewerID string, reviewedAt time.Time) error
}

// ListFilter narrows an application listing.
type ListFilter struct {
	// CollegeID restricts results to one tenant.
	CollegeID shared.CollegeID

	// ScholarshipID filters by scholarship (empty = all).
	ScholarshipID string

	// Status filters by review state (empty = all).
	Status Status

	// Search matches against student name or roll number (empty = all).
	Search string

	// Pagination bounds the result set.
	Pagination shared.Pagination
}
