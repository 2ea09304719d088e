package command

import (
	"context"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE SCHOLARSHIPS COMMAND
// Sweeps active scholarships past their deadline into the expired state.
// Invoked by the scheduler; idempotent, since already-expired scholarships
// never match the expirable query again.
// ══════════════════════════════════════════════════════════════════════════════

// ExpireScholarshipsCommand triggers one expiry sweep.
type ExpireScholarshipsCommand struct {
	// Now is the reference time (defaults to the current time if zero).
	Now time.Time
}

// ExpireScholarshipsResult contains the outcome of one sweep.
type ExpireScholarshipsResult struct {
	// ExpiredCount is how many scholarships were moved to expired.
	ExpiredCount int

	// ExpiredIDs lists the affected scholarships.
	ExpiredIDs []string

	// Errors maps scholarship ID to the failure, for failed items only.
	Errors map[string]error
}

// ExpireScholarshipsHandler handles the ExpireScholarshipsCommand.
type ExpireScholarshipsHandler struct {
	scholarshipRepo scholarship.Repository
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewExpireScholarshipsHandler creates a new ExpireScholarshipsHandler.
// The cache is optional; when present each expired scholarship's cached
// pass is dropped along with the state change.
func NewExpireScholarshipsHandler(
	scholarshipRepo scholarship.Repository,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *ExpireScholarshipsHandler {
	return &ExpireScholarshipsHandler{
		scholarshipRepo: scholarshipRepo,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes one expiry sweep. A failure on one scholarship does not
// stop the sweep; it is reported per-ID and retried on the next run.
func (h *ExpireScholarshipsHandler) Handle(ctx context.Context, cmd ExpireScholarshipsCommand) (*ExpireScholarshipsResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	expirable, err := h.scholarshipRepo.FindExpirable(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &ExpireScholarshipsResult{Errors: make(map[string]error)}

	for _, s := range expirable {
		if err := s.Expire(); err != nil {
			result.Errors[s.ID] = err
			continue
		}
		if err := h.scholarshipRepo.Update(ctx, s); err != nil {
			result.Errors[s.ID] = err
			continue
		}

		result.ExpiredCount++
		result.ExpiredIDs = append(result.ExpiredIDs, s.ID)

		if h.cache != nil {
			_ = h.cache.Invalidate(ctx, s.ID)
		}

		if h.eventPublisher != nil && s.Deadline != nil {
			_ = h.eventPublisher.Publish(shared.NewScholarshipExpiredEvent(
				s.ID, s.CollegeID.String(), s.Name, *s.Deadline,
			))
		}
	}

	return result, nil
}
