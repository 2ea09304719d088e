// Package query contains read operations following CQRS pattern.
// Queries never modify scholarship or application state - they only read
// and return data. Each query is a self-contained use case with its own
// request/response types.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUN ALLOCATION QUERY
// Runs the full allocation pass for one scholarship: eligibility filter,
// composite scoring, merit ranking, seat proposal. The pass is read-only
// with respect to stored applications and seat counts; admission happens
// only through the approve command.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultResultTTL is how long a cached allocation result stays valid.
// Any state change invalidates it earlier.
const DefaultResultTTL = 5 * time.Minute

// RunAllocationQuery contains parameters for an allocation run.
type RunAllocationQuery struct {
	// ScholarshipID is the scholarship to run against.
	ScholarshipID string

	// ActorID is the admin requesting the run (for the audit trail).
	ActorID string

	// SkipCache forces a fresh run even when a cached result exists.
	SkipCache bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the query.
func (q RunAllocationQuery) Validate() error {
	if q.ScholarshipID == "" {
		return errors.New("run_allocation: scholarship_id is required")
	}
	return nil
}

// RankedCandidateDTO is one ranked candidate in the response.
type RankedCandidateDTO struct {
	Rank          int    `json:"rank"`
	ApplicationID string `json:"application_id"`
	StudentName   string `json:"student_name"`
	StudentRoll   string `json:"student_roll"`
	Score         int    `json:"score"`
	ScoreBand     string `json:"score_band"`
	Academic      int    `json:"academic"`
	Financial     int    `json:"financial"`
	Extracurr     int    `json:"extracurricular"`
	Essay         int    `json:"essay"`
	Proposed      bool   `json:"proposed"`
	AppliedAt     string `json:"applied_at"`
}

// ExclusionDTO is one excluded application in the response.
type ExclusionDTO struct {
	ApplicationID string `json:"application_id"`
	StudentName   string `json:"student_name"`
	StudentRoll   string `json:"student_roll"`
	Reason        string `json:"reason"`
}

// RunAllocationResult contains the outcome of an allocation run.
type RunAllocationResult struct {
	ScholarshipID   string               `json:"scholarship_id"`
	ScholarshipName string               `json:"scholarship_name"`
	TotalSeats      int                  `json:"total_seats"`
	FilledSeats     int                  `json:"filled_seats"`
	RemainingSeats  int                  `json:"remaining_seats"`
	Ranked          []RankedCandidateDTO `json:"ranked"`
	Excluded        []ExclusionDTO       `json:"excluded"`
	ProposedCount   int                  `json:"proposed_count"`
	FromCache       bool                 `json:"from_cache"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// RunAllocationHandler handles the RunAllocationQuery.
type RunAllocationHandler struct {
	scholarshipRepo scholarship.Repository
	applicationRepo application.Repository
	scorer          allocation.Scorer
	cache           allocation.ResultCache
	eventPublisher  shared.EventPublisher
}

// NewRunAllocationHandler creates a new RunAllocationHandler.
// Cache and publisher are optional.
func NewRunAllocationHandler(
	scholarshipRepo scholarship.Repository,
	applicationRepo application.Repository,
	scorer allocation.Scorer,
	cache allocation.ResultCache,
	eventPublisher shared.EventPublisher,
) *RunAllocationHandler {
	return &RunAllocationHandler{
		scholarshipRepo: scholarshipRepo,
		applicationRepo: applicationRepo,
		scorer:          scorer,
		cache:           cache,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the allocation run.
func (h *RunAllocationHandler) Handle(ctx context.Context, q RunAllocationQuery) (*RunAllocationResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("allocation", "Run", shared.ErrValidation, "validation failed", err)
	}

	s, err := h.scholarshipRepo.GetByID(ctx, q.ScholarshipID)
	if err != nil {
		return nil, err
	}

	if !q.SkipCache && h.cache != nil {
		if cached, err := h.cache.Get(ctx, s.ID); err == nil && cached != nil {
			return h.buildResult(s, cached, true), nil
		}
	}

	apps, err := h.applicationRepo.ListByScholarship(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	result := allocation.Run(s, apps, h.scorer)

	if h.cache != nil {
		_ = h.cache.Set(ctx, &result, DefaultResultTTL)
	}

	if h.eventPublisher != nil {
		event := shared.NewAllocationCompletedEvent(
			s.ID, s.CollegeID.String(),
			len(result.Ranked), len(result.Excluded), len(result.Proposal.Admitted),
			q.ActorID,
		)
		if q.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(q.CorrelationID)
		}
		_ = h.eventPublisher.Publish(event)
	}

	return h.buildResult(s, &result, false), nil
}

// buildResult converts a domain allocation result into the response DTO.
func (h *RunAllocationHandler) buildResult(s *scholarship.Scholarship, r *allocation.Result, fromCache bool) *RunAllocationResult {
	proposed := make(map[string]bool, len(r.Proposal.Admitted))
	for _, c := range r.Proposal.Admitted {
		proposed[c.Application.ID] = true
	}

	ranked := make([]RankedCandidateDTO, len(r.Ranked))
	for i, c := range r.Ranked {
		a := c.Application
		ranked[i] = RankedCandidateDTO{
			Rank:          c.Rank.Int(),
			ApplicationID: a.ID,
			StudentName:   a.StudentName,
			StudentRoll:   a.StudentRoll.String(),
			Score:         a.Score.Int(),
			ScoreBand:     a.Score.Band(),
			Academic:      a.Breakdown.Academic,
			Financial:     a.Breakdown.Financial,
			Extracurr:     a.Breakdown.Extracurricular,
			Essay:         a.Breakdown.Essay,
			Proposed:      proposed[a.ID],
			AppliedAt:     a.AppliedAt.Format(time.RFC3339),
		}
	}

	excluded := make([]ExclusionDTO, len(r.Excluded))
	for i, e := range r.Excluded {
		excluded[i] = ExclusionDTO{
			ApplicationID: e.Application.ID,
			StudentName:   e.Application.StudentName,
			StudentRoll:   e.Application.StudentRoll.String(),
			Reason:        e.Reason,
		}
	}

	return &RunAllocationResult{
		ScholarshipID:   s.ID,
		ScholarshipName: s.Name,
		TotalSeats:      s.TotalSeats,
		FilledSeats:     s.FilledSeats,
		RemainingSeats:  r.RemainingSeats,
		Ranked:          ranked,
		Excluded:        excluded,
		ProposedCount:   len(r.Proposal.Admitted),
		FromCache:       fromCache,
		GeneratedAt:     r.GeneratedAt,
	}
}
