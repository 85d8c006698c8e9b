// internal/engine/scorer_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loanflow-workers/internal/common/config"
	"loanflow-workers/internal/models"
)

func TestScorer_WideMarginsOnSparseProduct(t *testing.T) {
	s := NewSuitabilityScorer(config.DefaultScoring())

	// Only two declared thresholds, both cleared by more than 2x.
	b := &models.BorrowerProfile{
		AnnualTurnover: fptr(20000000),
		AvgBankBalance: fptr(900000),
	}
	p := &models.LenderProductRule{
		MinAnnualTurnover: fptr(5000000),
		MinAvgBalance:     fptr(100000),
	}

	score, band := s.Score(b, p)
	assert.GreaterOrEqual(t, score, 80, "sparse product with wide margins must score high")
	assert.Equal(t, models.BandHigh, band)
}

func TestScorer_NormalizesByApplicableWeightMass(t *testing.T) {
	s := NewSuitabilityScorer(config.DefaultScoring())

	b := &models.BorrowerProfile{AnnualTurnover: fptr(10000000)}
	p := &models.LenderProductRule{MinAnnualTurnover: fptr(5000000)}

	// Single applicable signal with margin 1.0: normalization must yield 100
	// regardless of its absolute weight.
	score, band := s.Score(b, p)
	assert.Equal(t, 100, score)
	assert.Equal(t, models.BandHigh, band)
}

func TestScorer_NoApplicableSignalIsNeutral(t *testing.T) {
	s := NewSuitabilityScorer(config.DefaultScoring())

	score, band := s.Score(&models.BorrowerProfile{}, &models.LenderProductRule{})
	assert.Equal(t, 50, score)
	assert.Equal(t, models.BandMedium, band)
}

func TestScorer_CleanlinessSignalsPenalize(t *testing.T) {
	s := NewSuitabilityScorer(config.DefaultScoring())

	clean := &models.BorrowerProfile{
		BouncedPayments:  iptr(0),
		CashDepositRatio: fptr(0.0),
	}
	dirty := &models.BorrowerProfile{
		BouncedPayments:  iptr(4),
		CashDepositRatio: fptr(0.9),
	}
	p := &models.LenderProductRule{}

	cleanScore, _ := s.Score(clean, p)
	dirtyScore, _ := s.Score(dirty, p)

	assert.Equal(t, 100, cleanScore)
	assert.Less(t, dirtyScore, cleanScore)
}

func TestScorer_ImprovingAttributesNeverLowerScore(t *testing.T) {
	s := NewSuitabilityScorer(config.DefaultScoring())
	var hf HardFilterEvaluator

	p := &models.LenderProductRule{
		ID:                  "prod-mono",
		PartnerName:         "OpenCap",
		ProductName:         "Flexi Term",
		ProgramCategory:     "business_loan",
		Active:              true,
		MinCreditScore:      iptr(700),
		MinAnnualTurnover:   fptr(5000000),
		MinYearsInOperation: fptr(3.0),
		MinAvgBalance:       fptr(100000),
	}

	b := &models.BorrowerProfile{
		CaseID:           "case-001",
		CreditScore:      iptr(700),
		AnnualTurnover:   fptr(5000000),
		YearsInOperation: fptr(3.0),
		AvgBankBalance:   fptr(100000),
	}

	steps := []struct {
		name string
		bump func(*models.BorrowerProfile)
	}{
		{"credit score up", func(b *models.BorrowerProfile) { b.CreditScore = iptr(740) }},
		{"credit score up again", func(b *models.BorrowerProfile) { b.CreditScore = iptr(800) }},
		{"turnover up", func(b *models.BorrowerProfile) { b.AnnualTurnover = fptr(8000000) }},
		{"turnover far above threshold", func(b *models.BorrowerProfile) { b.AnnualTurnover = fptr(20000000) }},
		{"years in operation up", func(b *models.BorrowerProfile) { b.YearsInOperation = fptr(5.0) }},
		{"years in operation up again", func(b *models.BorrowerProfile) { b.YearsInOperation = fptr(10.0) }},
		{"average balance up", func(b *models.BorrowerProfile) { b.AvgBankBalance = fptr(250000) }},
		{"average balance far above threshold", func(b *models.BorrowerProfile) { b.AvgBankBalance = fptr(900000) }},
	}

	prev, _ := s.Score(b, p)
	res := hf.Evaluate(b, p, nil)
	assert.True(t, res.Passed, "borrower at every threshold must pass")

	for _, step := range steps {
		step.bump(b)

		res := hf.Evaluate(b, p, nil)
		assert.True(t, res.Passed, "step %q must not fail the hard filter", step.name)

		score, _ := s.Score(b, p)
		assert.GreaterOrEqual(t, score, prev, "step %q lowered the score", step.name)
		prev = score
	}
}

func TestScorer_BandCutoffs(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want string
	}{
		{"high at cutoff", 80, models.BandHigh},
		{"medium just below high", 79, models.BandMedium},
		{"medium at cutoff", 50, models.BandMedium},
		{"low below medium", 49, models.BandLow},
	}

	s := NewSuitabilityScorer(config.DefaultScoring())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.band(tt.in))
		})
	}
}

func TestScorer_ExpectedLoanRange(t *testing.T) {
	cfg := config.DefaultScoring()
	s := NewSuitabilityScorer(cfg)

	t.Run("monthly turnover times multiple", func(t *testing.T) {
		b := &models.BorrowerProfile{MonthlyTurnover: fptr(500000)}
		rng := s.ExpectedLoanRange(b, &models.LenderProductRule{})
		assert.Equal(t, cfg.LoanFloor, rng.Min)
		assert.Equal(t, 1000000.0, rng.Max)
	})

	t.Run("capped by product ceiling", func(t *testing.T) {
		b := &models.BorrowerProfile{MonthlyTurnover: fptr(500000)}
		p := &models.LenderProductRule{MaxLoanAmount: fptr(750000)}
		rng := s.ExpectedLoanRange(b, p)
		assert.Equal(t, 750000.0, rng.Max)
	})

	t.Run("falls back to annual turnover", func(t *testing.T) {
		b := &models.BorrowerProfile{AnnualTurnover: fptr(6000000)}
		rng := s.ExpectedLoanRange(b, &models.LenderProductRule{})
		assert.Equal(t, 1000000.0, rng.Max)
	})

	t.Run("no turnover data collapses to floor", func(t *testing.T) {
		rng := s.ExpectedLoanRange(&models.BorrowerProfile{}, &models.LenderProductRule{})
		assert.Equal(t, cfg.LoanFloor, rng.Min)
		assert.Equal(t, cfg.LoanFloor, rng.Max)
	})
}
