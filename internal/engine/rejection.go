// internal/engine/rejection.go
package engine

import (
	"fmt"
	"sort"

	"loanflow-workers/internal/models"
)

// RejectionAnalyzer aggregates the failure reasons of every rejected product
// into prioritized improvement recommendations.
//
// A rejected product counts as unlockable for a category only when ALL of
// its failures fall in that category, so fixing it would actually flip the
// verdict. Priority is lenders unlocked descending, category name as the
// deterministic tie-break.
type RejectionAnalyzer struct{}

// maxType categories improve downward: the borrower must get under the most
// permissive cap. Everything else improves upward toward the smallest
// declared minimum.
var maxTypeCategories = map[models.CriterionCategory]bool{
	models.CategoryLoanAmount:      true,
	models.CategorySevereOverdues:  true,
	models.CategoryRecentEnquiries: true,
	models.CategoryOverdueAmount:   true,
}

var allCategories = []models.CriterionCategory{
	models.CategoryCreditScore,
	models.CategoryYearsInOperation,
	models.CategoryAnnualTurnover,
	models.CategoryLoanAmount,
	models.CategoryAvgBalance,
	models.CategoryAge,
	models.CategoryEntityCategory,
	models.CategoryPincode,
	models.CategorySevereOverdues,
	models.CategoryRecentEnquiries,
	models.CategoryOverdueAmount,
	models.CategoryGSTRegistration,
	models.CategoryBankHistory,
}

func (RejectionAnalyzer) Analyze(rejected []models.EligibilityResult) []models.Recommendation {
	var recs []models.Recommendation

	for _, cat := range allCategories {
		var current interface{}
		var numericTargets []float64
		var fallbackTarget interface{}
		unlocked := 0

		for _, r := range rejected {
			var catFailure *models.FailureReason
			soleCategory := true
			for i := range r.Failures {
				if r.Failures[i].Category == cat {
					catFailure = &r.Failures[i]
				} else {
					soleCategory = false
				}
			}
			if catFailure == nil {
				continue
			}
			if current == nil {
				current = catFailure.BorrowerValue
			}
			if !soleCategory {
				continue
			}
			unlocked++
			if v, ok := toFloat(catFailure.RequiredValue); ok {
				numericTargets = append(numericTargets, v)
			} else if fallbackTarget == nil {
				fallbackTarget = catFailure.RequiredValue
			}
		}

		if unlocked == 0 {
			continue
		}

		target := fallbackTarget
		if len(numericTargets) > 0 {
			best := numericTargets[0]
			for _, v := range numericTargets[1:] {
				if maxTypeCategories[cat] {
					// Highest cap is the easiest to get under.
					if v > best {
						best = v
					}
				} else if v < best {
					// Smallest minimum is the nearest bar to clear.
					best = v
				}
			}
			target = best
		}

		recs = append(recs, models.Recommendation{
			Category:        cat,
			CurrentValue:    current,
			TargetValue:     target,
			LendersUnlocked: unlocked,
			Action:          actionFor(cat, target),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].LendersUnlocked != recs[j].LendersUnlocked {
			return recs[i].LendersUnlocked > recs[j].LendersUnlocked
		}
		return recs[i].Category < recs[j].Category
	})
	for i := range recs {
		recs[i].Priority = i + 1
	}

	return recs
}

// toFloat coerces evaluation-time numeric values. Non-numeric requirement
// values (entity lists, pincode sets, booleans) are not coercible.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func actionFor(cat models.CriterionCategory, target interface{}) string {
	switch cat {
	case models.CategoryCreditScore:
		return fmt.Sprintf("improve credit score to at least %v: clear disputes, reduce utilization, avoid fresh applications", target)
	case models.CategoryYearsInOperation:
		return fmt.Sprintf("reapply once the business completes %v years of operation", target)
	case models.CategoryAnnualTurnover:
		return fmt.Sprintf("grow or fully document annual turnover to at least %v by routing sales through the business account", target)
	case models.CategoryLoanAmount:
		return fmt.Sprintf("reduce the requested amount to %v or less to fit within product ceilings", target)
	case models.CategoryAvgBalance:
		return fmt.Sprintf("maintain an average bank balance of at least %v over the coming quarter", target)
	case models.CategoryAge:
		return fmt.Sprintf("applicant age is outside partner limits (nearest bound %v); consider adding a co-applicant", target)
	case models.CategoryEntityCategory:
		return fmt.Sprintf("products accept entity categories %v; re-registering the business would widen options", target)
	case models.CategoryPincode:
		return "no partner currently services the registered pincode; coverage expands with catalog updates"
	case models.CategorySevereOverdues:
		return fmt.Sprintf("regularize severely overdue accounts down to %v or fewer", target)
	case models.CategoryRecentEnquiries:
		return fmt.Sprintf("pause new credit applications until recent enquiries drop to %v or fewer", target)
	case models.CategoryOverdueAmount:
		return fmt.Sprintf("clear outstanding overdue amounts down to %v or below", target)
	case models.CategoryGSTRegistration:
		return "obtain GST registration for the business"
	case models.CategoryBankHistory:
		return fmt.Sprintf("upload at least %v months of bank statements", target)
	default:
		return fmt.Sprintf("address the %s requirement", cat)
	}
}
