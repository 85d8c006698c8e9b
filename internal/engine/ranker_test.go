// internal/engine/ranker_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loanflow-workers/internal/models"
)

func TestRanker_OrdersByScoreThenAccessibility(t *testing.T) {
	matches := []models.EligibilityResult{
		{ProductID: "c", PartnerName: "Gamma", Score: 70, RequiredCreditScore: iptr(700)},
		{ProductID: "a", PartnerName: "Alpha", Score: 90, RequiredCreditScore: iptr(720)},
		{ProductID: "b", PartnerName: "Beta", Score: 90, RequiredCreditScore: iptr(680)},
		{ProductID: "d", PartnerName: "Delta", Score: 90},
	}

	var r EligibilityRanker
	ranked := r.Rank(matches)

	// 90-score block first; within it, nil required credit score is the most
	// accessible, then ascending requirement.
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(ranked))
}

func TestRanker_PartnerNameBreaksFullTies(t *testing.T) {
	matches := []models.EligibilityResult{
		{ProductID: "z", PartnerName: "Zeta", Score: 60, RequiredCreditScore: iptr(700)},
		{ProductID: "a", PartnerName: "Acme", Score: 60, RequiredCreditScore: iptr(700)},
	}

	var r EligibilityRanker
	ranked := r.Rank(matches)
	assert.Equal(t, []string{"a", "z"}, ids(ranked))
}

func TestRanker_DoesNotMutateInput(t *testing.T) {
	matches := []models.EligibilityResult{
		{ProductID: "b", Score: 10},
		{ProductID: "a", Score: 90},
	}

	var r EligibilityRanker
	_ = r.Rank(matches)
	assert.Equal(t, "b", matches[0].ProductID)
}

func ids(results []models.EligibilityResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ProductID
	}
	return out
}
