// Package allocation contains the pure allocation engine: eligibility
// filtering, composite scoring, deterministic ranking, and capacity-bounded
// seat proposals. Everything in this package is side-effect free and safe
// under unbounded concurrent execution; the stateful commit step lives in
// the application layer. No external dependencies.
package allocation

import (
	"fmt"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
)

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY FILTER
// ══════════════════════════════════════════════════════════════════════════════

// Exclusion annotates one application left out of ranking, with a
// human-readable reason. Exclusion is not rejection: the application stays
// pending so a reviewer can override manually.
type Exclusion struct {
	// Application - the excluded application.
	Application *application.Application

	// Reason - why it was excluded, suitable for display.
	Reason string
}

// Filter partitions applications into eligible candidates and exclusions
// against the scholarship's hard constraints. Pure function of its inputs;
// no side effects.
//
// An applicant is ineligible when the CGPA floor or income ceiling is set
// and violated. Already-reviewed applications are excluded from ranking
// too, since only pending applications compete for seats.
func Filter(s *scholarship.Scholarship, apps []*application.Application) (eligible []*application.Application, excluded []Exclusion) {
	eligible = make([]*application.Application, 0, len(apps))

	for _, a := range apps {
		if !a.IsPending() {
			excluded = append(excluded, Exclusion{
				Application: a,
				Reason:      fmt.Sprintf("already %s", a.Status),
			})
			continue
		}

		if !s.AcceptsCGPA(a.CGPA) {
			excluded = append(excluded, Exclusion{
				Application: a,
				Reason:      fmt.Sprintf("CGPA %s below minimum %s", a.CGPA, *s.MinCGPA),
			})
			continue
		}

		if !s.AcceptsIncome(a.FamilyIncome) {
			excluded = append(excluded, Exclusion{
				Application: a,
				Reason:      fmt.Sprintf("family income %s exceeds ceiling %s", a.FamilyIncome, *s.MaxIncome),
			})
			continue
		}

		eligible = append(eligible, a)
	}

	return eligible, excluded
}
