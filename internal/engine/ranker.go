// internal/engine/ranker.go
package engine

import (
	"sort"

	"loanflow-workers/internal/models"
)

// EligibilityRanker orders passed products for presentation. Order is fully
// deterministic: score descending, then required credit score ascending with
// products declaring no requirement first, then partner and product name.
type EligibilityRanker struct{}

func (EligibilityRanker) Rank(matches []models.EligibilityResult) []models.EligibilityResult {
	ranked := make([]models.EligibilityResult, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := requiredScoreKey(a), requiredScoreKey(b)
		if ra != rb {
			return ra < rb
		}
		if a.PartnerName != b.PartnerName {
			return a.PartnerName < b.PartnerName
		}
		return a.ProductName < b.ProductName
	})

	return ranked
}

// requiredScoreKey maps "no credit score requirement" below every declared
// minimum so the most accessible product wins the tie.
func requiredScoreKey(r models.EligibilityResult) int {
	if r.RequiredCreditScore == nil {
		return -1
	}
	return *r.RequiredCreditScore
}
