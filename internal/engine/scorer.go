// internal/engine/scorer.go
package engine

import (
	"math"

	"loanflow-workers/internal/common/config"
	"loanflow-workers/internal/models"
)

// SuitabilityScorer computes the 0-100 suitability score for a borrower
// against a product that already passed the hard filter.
//
// Each signal contributes weight * margin, where margin is how far the
// borrower clears the product's threshold, clipped to [0, 1]. The total is
// normalized by the weight mass of the signals that were applicable, so a
// product declaring only two criteria is scored on those two alone.
type SuitabilityScorer struct {
	cfg config.ScoringConfig
}

func NewSuitabilityScorer(cfg config.ScoringConfig) SuitabilityScorer {
	return SuitabilityScorer{cfg: cfg}
}

// Score returns the suitability score and its approval probability band.
func (s SuitabilityScorer) Score(b *models.BorrowerProfile, p *models.LenderProductRule) (int, string) {
	w := s.cfg.Weights
	total, mass := 0.0, 0.0
	add := func(weight, margin float64) {
		total += weight * margin
		mass += weight
	}

	if p.MinCreditScore != nil && *p.MinCreditScore > 0 && b.CreditScore != nil {
		add(w.CreditScore, clip(float64(*b.CreditScore-*p.MinCreditScore)/float64(*p.MinCreditScore)))
	}
	if p.MinAnnualTurnover != nil && *p.MinAnnualTurnover > 0 && b.AnnualTurnover != nil {
		add(w.AnnualTurnover, clip((*b.AnnualTurnover-*p.MinAnnualTurnover) / *p.MinAnnualTurnover))
	}
	if p.MinYearsInOperation != nil && *p.MinYearsInOperation > 0 && b.YearsInOperation != nil {
		add(w.YearsInOperation, clip((*b.YearsInOperation-*p.MinYearsInOperation) / *p.MinYearsInOperation))
	}
	if p.MinAvgBalance != nil && *p.MinAvgBalance > 0 && b.AvgBankBalance != nil {
		add(w.AvgBalance, clip((*b.AvgBankBalance-*p.MinAvgBalance) / *p.MinAvgBalance))
	}

	// Banking cleanliness signals apply regardless of the product's declared
	// criteria; they just need the data to be present.
	if b.BouncedPayments != nil {
		add(w.BouncedPayments, bounceMargin(*b.BouncedPayments))
	}
	if b.CashDepositRatio != nil {
		add(w.CashDepositRatio, clip(1-*b.CashDepositRatio))
	}

	// No applicable signal at all: neutral midpoint rather than a
	// misleading extreme.
	if mass == 0 {
		return 50, s.band(50)
	}

	score := int(math.Round(100 * total / mass))
	return score, s.band(score)
}

// ExpectedLoanRange estimates the sanctionable loan-size range for a match.
// The upper bound follows monthly turnover times the configured multiple,
// capped by the product ceiling when one is declared.
func (s SuitabilityScorer) ExpectedLoanRange(b *models.BorrowerProfile, p *models.LenderProductRule) models.LoanRange {
	low := s.cfg.LoanFloor

	var estimate float64
	hasEstimate := false
	switch {
	case b.MonthlyTurnover != nil:
		estimate = *b.MonthlyTurnover * s.cfg.TurnoverMultiple
		hasEstimate = true
	case b.AnnualTurnover != nil:
		estimate = *b.AnnualTurnover / 12 * s.cfg.TurnoverMultiple
		hasEstimate = true
	}

	var high float64
	switch {
	case hasEstimate && p.MaxLoanAmount != nil:
		high = math.Min(estimate, *p.MaxLoanAmount)
	case hasEstimate:
		high = estimate
	case p.MaxLoanAmount != nil:
		high = *p.MaxLoanAmount
	default:
		high = low
	}

	if high < low {
		high = low
	}
	return models.LoanRange{Min: low, Max: high}
}

func (s SuitabilityScorer) band(score int) string {
	switch {
	case score >= s.cfg.HighBand:
		return models.BandHigh
	case score >= s.cfg.MediumBand:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

// bounceMargin maps the bounced-payment count to a cleanliness margin.
func bounceMargin(bounces int) float64 {
	switch {
	case bounces <= 0:
		return 1.0
	case bounces == 1:
		return 0.5
	case bounces == 2:
		return 0.25
	default:
		return 0
	}
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
