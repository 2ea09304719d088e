package allocation

import (
	"math"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITE SCORER
// Computes each component directly from its raw signal and sums them into
// the total, so the breakdown is the source of truth rather than a lossy
// reconstruction. For records that arrive with only a scalar score,
// application.SplitScore provides the display-only fixed-ratio fallback.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultIncomeReference is the income above which the financial-need
// component bottoms out when a scholarship sets no ceiling of its own
// (₹10,00,000 annual family income).
const DefaultIncomeReference shared.Money = 1000000

// documentsPerPoint controls how many extracurricular points each
// submitted supporting document is worth.
const documentsPerPoint = 5

// Scorer derives a composite score and its explainable breakdown for a
// candidate. Implementations must be pure.
type Scorer interface {
	// Score computes the candidate's score against the given scholarship.
	Score(s *scholarship.Scholarship, a *application.Application) (shared.Score, application.ScoreBreakdown)
}

// CompositeScorer is the default raw-signal scorer.
//
// Components:
//   - academic (max 40):        CGPA on the 10-point scale, scaled to 40.
//   - financial (max 30):       need relative to the scholarship's income
//     ceiling (or DefaultIncomeReference when unset); lower income, higher score.
//   - extracurricular (max 20): submitted supporting documents, 5 points each.
//   - essay (max 10):           reviewer-assigned essay rating, used as is.
type CompositeScorer struct {
	// IncomeReference overrides DefaultIncomeReference when positive.
	IncomeReference shared.Money
}

// NewCompositeScorer creates a scorer with default settings.
func NewCompositeScorer() *CompositeScorer {
	return &CompositeScorer{}
}

// Score implements Scorer.
func (cs *CompositeScorer) Score(s *scholarship.Scholarship, a *application.Application) (shared.Score, application.ScoreBreakdown) {
	breakdown := application.ScoreBreakdown{
		Academic:        cs.academic(a),
		Financial:       cs.financial(s, a),
		Extracurricular: cs.extracurricular(a),
		Essay:           cs.essay(a),
	}

	total := breakdown.Sum()
	if total > int(shared.MaxScore) {
		total = int(shared.MaxScore)
	}

	return shared.Score(total), breakdown
}

// academic scales CGPA (0-10) onto the 0-40 academic component.
func (cs *CompositeScorer) academic(a *application.Application) int {
	points := int(math.Round(a.CGPA.Float64() / 10.0 * float64(application.MaxAcademic)))
	return clamp(points, 0, application.MaxAcademic)
}

// financial maps family income onto the 0-30 need component: zero income
// earns the full component, income at or above the reference earns zero.
func (cs *CompositeScorer) financial(s *scholarship.Scholarship, a *application.Application) int {
	reference := cs.IncomeReference
	if reference <= 0 {
		reference = DefaultIncomeReference
	}
	if s.MaxIncome != nil && *s.MaxIncome > 0 {
		reference = *s.MaxIncome
	}

	need := 1.0 - float64(a.FamilyIncome)/float64(reference)
	points := int(math.Round(need * float64(application.MaxFinancial)))
	return clamp(points, 0, application.MaxFinancial)
}

// extracurricular counts supporting documents as activity evidence.
func (cs *CompositeScorer) extracurricular(a *application.Application) int {
	points := len(a.Documents) * documentsPerPoint
	return clamp(points, 0, application.MaxExtracurricular)
}

// essay passes the reviewer-assigned rating through.
func (cs *CompositeScorer) essay(a *application.Application) int {
	return clamp(a.EssayRating, 0, application.MaxEssay)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
