package allocation

import (
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEAT ALLOCATOR
// Read-only, advisory seat proposals. The proposal identifies the ranked
// prefix that fits in the seats remaining at the moment of the call; actual
// admission goes through the Approve command, which re-validates capacity
// at commit time, because other approvals may land between proposal and
// commit.
// ══════════════════════════════════════════════════════════════════════════════

// Proposal partitions a ranked list into the admitted prefix and the rest.
type Proposal struct {
	// Admitted - the top-ranked candidates that fit in the remaining seats.
	Admitted []RankedCandidate

	// Rest - everyone below the capacity cut.
	Rest []RankedCandidate
}

// Propose splits the ranked list at the remaining-seat boundary.
// Pure function; mutates neither seat counts nor application status.
func Propose(ranked []RankedCandidate, remainingSeats int) Proposal {
	if remainingSeats < 0 {
		remainingSeats = 0
	}

	cut := remainingSeats
	if cut > len(ranked) {
		cut = len(ranked)
	}

	return Proposal{
		Admitted: ranked[:cut],
		Rest:     ranked[cut:],
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FULL PASS
// ══════════════════════════════════════════════════════════════════════════════

// Result is the outcome of one complete allocation pass.
type Result struct {
	// ScholarshipID - the scholarship the pass ran against.
	ScholarshipID string

	// Ranked - eligible candidates in merit order.
	Ranked []RankedCandidate

	// Excluded - ineligible applications with reasons.
	Excluded []Exclusion

	// Proposal - the advisory admission split at the time of the run.
	Proposal Proposal

	// RemainingSeats - seats free when the pass ran.
	RemainingSeats int

	// GeneratedAt - when the pass ran.
	GeneratedAt time.Time
}

// Run executes a full allocation pass: filter, score, rank, propose.
// Pure and re-runnable; a second run over unchanged inputs returns an
// identical ranking. Completes synchronously with no artificial delay.
//
// Scoring happens on clones, so the stored applications are untouched;
// committing scores back to storage is the caller's decision.
func Run(s *scholarship.Scholarship, apps []*application.Application, scorer Scorer) Result {
	eligible, excluded := Filter(s, apps)

	scored := make([]*application.Application, len(eligible))
	for i, a := range eligible {
		clone := a.Clone()
		total, breakdown := scorer.Score(s, clone)
		// AssignScore cannot fail here: scorer output is within caps.
		_ = clone.AssignScore(total, breakdown)
		scored[i] = clone
	}

	ranked := Rank(scored)
	remaining := s.RemainingSeats()

	return Result{
		ScholarshipID:  s.ID,
		Ranked:         ranked,
		Excluded:       excluded,
		Proposal:       Propose(ranked, remaining),
		RemainingSeats: remaining,
		GeneratedAt:    time.Now().UTC(),
	}
}
