package allocation

import (
	"sort"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKER
// Deterministic merit ordering of eligible candidates.
// ══════════════════════════════════════════════════════════════════════════════

// RankedCandidate is one application with its assigned rank.
type RankedCandidate struct {
	// Application - the ranked application.
	Application *application.Application

	// Rank - 1-based position in the merit order.
	Rank shared.Rank
}

// Rank orders eligible candidates by total score descending, breaking ties
// by earlier appliedAt (first-come priority) and finally by ID so the order
// is fully deterministic regardless of input order. The input slice is not
// modified. O(n log n); identical inputs always produce identical output.
func Rank(eligible []*application.Application) []RankedCandidate {
	ordered := make([]*application.Application, len(eligible))
	copy(ordered, eligible)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if !ordered[i].AppliedAt.Equal(ordered[j].AppliedAt) {
			return ordered[i].AppliedAt.Before(ordered[j].AppliedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	ranked := make([]RankedCandidate, len(ordered))
	for i, a := range ordered {
		ranked[i] = RankedCandidate{
			Application: a,
			Rank:        shared.Rank(i + 1),
		}
	}
	return ranked
}
