package allocation

import (
	"testing"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeScorer_ComponentsWithinCaps(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)
	scorer := NewCompositeScorer()

	a := testApplication(t, "a1", 9.5, 0, time.Now())
	a.Documents = []string{"marksheet", "income-cert", "sports-cert", "recommendation", "portfolio"}
	a.EssayRating = 10

	total, breakdown := scorer.Score(s, a)

	assert.LessOrEqual(t, breakdown.Academic, application.MaxAcademic)
	assert.LessOrEqual(t, breakdown.Financial, application.MaxFinancial)
	assert.LessOrEqual(t, breakdown.Extracurricular, application.MaxExtracurricular)
	assert.LessOrEqual(t, breakdown.Essay, application.MaxEssay)
	assert.True(t, total.IsValid())
	assert.Equal(t, breakdown.Sum(), total.Int())
}

func TestCompositeScorer_AcademicFromCGPA(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)
	scorer := NewCompositeScorer()

	tests := []struct {
		cgpa     float64
		academic int
	}{
		{10.0, 40},
		{9.5, 38},
		{7.5, 30},
		{5.0, 20},
		{0.0, 0},
	}

	for _, tt := range tests {
		a := testApplication(t, "a1", tt.cgpa, 300000, time.Now())
		_, breakdown := scorer.Score(s, a)
		assert.Equal(t, tt.academic, breakdown.Academic, "cgpa %.1f", tt.cgpa)
	}
}

func TestCompositeScorer_FinancialNeedAgainstCeiling(t *testing.T) {
	ceiling := shared.Money(500000)
	s := testScholarship(t, 5, nil, &ceiling)
	scorer := NewCompositeScorer()

	// Zero income earns the full need component.
	a := testApplication(t, "a1", 8.0, 0, time.Now())
	_, breakdown := scorer.Score(s, a)
	assert.Equal(t, application.MaxFinancial, breakdown.Financial)

	// Income at the ceiling earns nothing.
	b := testApplication(t, "a2", 8.0, 500000, time.Now())
	_, breakdown = scorer.Score(s, b)
	assert.Equal(t, 0, breakdown.Financial)

	// Halfway earns half.
	c := testApplication(t, "a3", 8.0, 250000, time.Now())
	_, breakdown = scorer.Score(s, c)
	assert.Equal(t, 15, breakdown.Financial)
}

func TestCompositeScorer_DefaultIncomeReference(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)
	scorer := NewCompositeScorer()

	// No ceiling configured: need is measured against the default reference.
	a := testApplication(t, "a1", 8.0, int64(DefaultIncomeReference), time.Now())
	_, breakdown := scorer.Score(s, a)
	assert.Equal(t, 0, breakdown.Financial)

	// Income above the reference clamps at zero rather than going negative.
	b := testApplication(t, "a2", 8.0, int64(DefaultIncomeReference)*3, time.Now())
	_, breakdown = scorer.Score(s, b)
	assert.Equal(t, 0, breakdown.Financial)
}

func TestCompositeScorer_Deterministic(t *testing.T) {
	s := testScholarship(t, 5, nil, nil)
	scorer := NewCompositeScorer()
	a := testApplication(t, "a1", 8.7, 350000, time.Now())
	a.Documents = []string{"marksheet", "income-cert"}

	total1, breakdown1 := scorer.Score(s, a)
	total2, breakdown2 := scorer.Score(s, a)

	assert.Equal(t, total1, total2)
	assert.Equal(t, breakdown1, breakdown2)
}

func TestSplitScore_FixedRatioFallback(t *testing.T) {
	tests := []struct {
		total    int
		academic int
		finance  int
		extra    int
		essay    int
	}{
		{100, 40, 30, 20, 10},
		{95, 38, 29, 19, 10},
		{78, 31, 23, 16, 8},
		{0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		b := application.SplitScore(shared.Score(tt.total))
		assert.Equal(t, tt.academic, b.Academic, "total %d", tt.total)
		assert.Equal(t, tt.finance, b.Financial, "total %d", tt.total)
		assert.Equal(t, tt.extra, b.Extracurricular, "total %d", tt.total)
		assert.Equal(t, tt.essay, b.Essay, "total %d", tt.total)
	}
}

func TestSplitScore_DriftIsBounded(t *testing.T) {
	// Independent rounding may drift the component sum from the total,
	// but never by more than two points either way.
	for total := 0; total <= 100; total++ {
		b := application.SplitScore(shared.Score(total))
		drift := b.Sum() - total
		require.LessOrEqual(t, drift, 2, "total %d", total)
		require.GreaterOrEqual(t, drift, -2, "total %d", total)
		require.True(t, b.IsValid(), "total %d", total)
	}
}
