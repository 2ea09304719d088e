// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPROVE APPLICATION COMMAND
// The only path that consumes a seat. Approvals on the same scholarship are
// serialized through a per-scholarship lock, and the seat increment itself is
// a compare-and-set in the repository, so two concurrent approvals can never
// both take the last seat.
// ══════════════════════════════════════════════════════════════════════════════

// ApproveApplicationCommand contains the data to approve an application.
type ApproveApplicationCommand struct {
	// ApplicationID is the application to approve.
	ApplicationID string

	// ReviewerID is the admin performing the review.
	ReviewerID string

	// IPAddress is the request origin, recorded in the audit trail.
	IPAddress string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ApproveApplicationCommand) Validate() error {
	if c.ApplicationID == "" {
		return errors.New("approve_application: application_id is required")
	}
	if c.ReviewerID == "" {
		return errors.New("approve_application: reviewer_id is required")
	}
	return nil
}

// ApproveApplicationResult contains the result of an approval.
type ApproveApplicationResult struct {
	// ApplicationID is the approved application.
	ApplicationID string

	// ScholarshipID is the scholarship whose seat was consumed.
	ScholarshipID string

	// FilledSeats is the seat count after this approval.
	FilledSeats int

	// TotalSeats is the scholarship capacity.
	TotalSeats int

	// ReviewedAt is when the approval was committed.
	ReviewedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// PER-SCHOLARSHIP LOCKS
// ══════════════════════════════════════════════════════════════════════════════

// scholarshipLocks hands out one mutex per scholarship ID so that reviews
// touching the same seat pool run one at a time within this process.
// Cross-process safety comes from the repository's compare-and-set.
type scholarshipLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScholarshipLocks() *scholarshipLocks {
	return &scholarshipLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given scholarship, creating it on first use.
func (l *scholarshipLocks) Lock(scholarshipID string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[scholarshipID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scholarshipID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// casRetryAttempts bounds re-reads when the seat counter moved underneath us
// (another process approved between our read and our increment).
const casRetryAttempts = 3

// ApproveApplicationHandler handles the ApproveApplicationCommand.
type ApproveApplicationHandler struct {
	applicationRepo application.Repository
	scholarshipRepo scholarship.Repository
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
	locks           *scholarshipLocks
}

// NewApproveApplicationHandler creates a new ApproveApplicationHandler.
// The cache is optional; when present it is invalidated after every approval.
func NewApproveApplicationHandler(
	applicationRepo application.Repository,
	scholarshipRepo scholarship.Repository,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *ApproveApplicationHandler {
	return &ApproveApplicationHandler{
		applicationRepo: applicationRepo,
		scholarshipRepo: scholarshipRepo,
		cache:           cache,
		eventPublisher:  eventPublisher,
		locks:           newScholarshipLocks(),
	}
}

// Handle executes the approve application command.
//
// Order of operations matters: the seat is secured first via
// CompareAndIncrementFilledSeats, then the status flips pending -> approved.
// Under the per-scholarship lock the status write cannot race in-process;
// a guarded failure there means an external writer touched the record and
// the whole command fails with ErrConcurrentModification.
func (h *ApproveApplicationHandler) Handle(ctx context.Context, cmd ApproveApplicationCommand) (*ApproveApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("application", "Approve", shared.ErrValidation, "validation failed", err)
	}

	app, err := h.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}

	lock := h.locks.Lock(app.ScholarshipID)
	defer lock.Unlock()

	// Re-read under the lock: a concurrent reject or approve may have
	// landed while we waited.
	app, err = h.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsPending() {
		return nil, shared.ErrNotPending
	}

	s, err := h.scholarshipRepo.GetByID(ctx, app.ScholarshipID)
	if err != nil {
		return nil, err
	}
	if s.Status != scholarship.StatusActive {
		return nil, shared.ErrScholarshipNotActive
	}

	filled, err := h.secureSeat(ctx, s)
	if err != nil {
		return nil, err
	}

	reviewedAt := time.Now().UTC()
	if err := h.applicationRepo.SetStatus(ctx, app.ID, application.StatusPending, application.StatusApproved, cmd.ReviewerID, reviewedAt); err != nil {
		return nil, shared.WrapError("application", "Approve", shared.ErrConcurrentModification,
			"seat secured but status write lost a race", err)
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, s.ID)
	}

	event := shared.NewApplicationApprovedEvent(
		app.ID, app.CollegeID.String(), s.ID,
		app.StudentName, app.StudentRoll.String(),
		cmd.ReviewerID, filled, s.TotalSeats,
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &ApproveApplicationResult{
		ApplicationID: app.ID,
		ScholarshipID: s.ID,
		FilledSeats:   filled,
		TotalSeats:    s.TotalSeats,
		ReviewedAt:    reviewedAt,
	}, nil
}

// secureSeat claims one seat through the repository's compare-and-set,
// re-reading the counter when another process moved it first. Returns the
// seat count after the increment.
func (h *ApproveApplicationHandler) secureSeat(ctx context.Context, s *scholarship.Scholarship) (int, error) {
	expected := s.FilledSeats

	for attempt := 0; attempt < casRetryAttempts; attempt++ {
		err := h.scholarshipRepo.CompareAndIncrementFilledSeats(ctx, s.ID, expected)
		if err == nil {
			return expected + 1, nil
		}
		if errors.Is(err, shared.ErrCapacityExceeded) {
			return 0, shared.ErrScholarshipFull
		}
		if !errors.Is(err, shared.ErrOptimisticLock) {
			return 0, err
		}

		fresh, err := h.scholarshipRepo.GetByID(ctx, s.ID)
		if err != nil {
			return 0, err
		}
		expected = fresh.FilledSeats
	}

	return 0, fmt.Errorf("%w: seat counter kept moving", shared.ErrConcurrentModification)
}
