// internal/engine/hardfilter.go
package engine

import (
	"fmt"
	"strings"

	"loanflow-workers/internal/models"
)

// HardFilterEvaluator applies every eligibility criterion a product declares
// against one borrower snapshot.
//
// Three rules hold for every criterion:
//   - a nil product criterion is always satisfied;
//   - a nil borrower attribute never fails the criterion, it is recorded as
//     an advisory so the caller can flag the verdict as provisional;
//   - evaluation never short-circuits, so the failure set is complete and
//     usable by the rejection aggregation.
type HardFilterEvaluator struct{}

// Evaluate returns the pass/fail verdict for one (borrower, product) pair.
// covered reports whether the product's coverage set contains the borrower's
// pincode; nil means the lookup was not possible (no pincode extracted or
// the product has no geographic restriction).
func (HardFilterEvaluator) Evaluate(b *models.BorrowerProfile, p *models.LenderProductRule, covered *bool) models.EligibilityResult {
	res := models.EligibilityResult{
		ProductID:           p.ID,
		PartnerName:         p.PartnerName,
		ProductName:         p.ProductName,
		RequiredCreditScore: p.MinCreditScore,
		TenorMinMonths:      p.TenorMinMonths,
		TenorMaxMonths:      p.TenorMaxMonths,
	}

	fail := func(cat models.CriterionCategory, borrowerVal, requiredVal interface{}, reason string) {
		res.Failures = append(res.Failures, models.FailureReason{
			Category:      cat,
			BorrowerValue: borrowerVal,
			RequiredValue: requiredVal,
			Reason:        reason,
		})
	}
	advise := func(cat models.CriterionCategory, note string) {
		res.Advisories = append(res.Advisories, models.Advisory{Category: cat, Note: note})
	}

	if p.MinCreditScore != nil {
		if b.CreditScore == nil {
			advise(models.CategoryCreditScore, "credit score not yet extracted")
		} else if *b.CreditScore < *p.MinCreditScore {
			fail(models.CategoryCreditScore, *b.CreditScore, *p.MinCreditScore,
				fmt.Sprintf("credit score %d below minimum %d", *b.CreditScore, *p.MinCreditScore))
		}
	}

	if p.MinYearsInOperation != nil {
		if b.YearsInOperation == nil {
			advise(models.CategoryYearsInOperation, "years in operation not yet extracted")
		} else if *b.YearsInOperation < *p.MinYearsInOperation {
			fail(models.CategoryYearsInOperation, *b.YearsInOperation, *p.MinYearsInOperation,
				fmt.Sprintf("%.1f years in operation below minimum %.1f", *b.YearsInOperation, *p.MinYearsInOperation))
		}
	}

	if p.MinAnnualTurnover != nil {
		if b.AnnualTurnover == nil {
			advise(models.CategoryAnnualTurnover, "annual turnover not yet extracted")
		} else if *b.AnnualTurnover < *p.MinAnnualTurnover {
			fail(models.CategoryAnnualTurnover, *b.AnnualTurnover, *p.MinAnnualTurnover,
				fmt.Sprintf("annual turnover %.0f below minimum %.0f", *b.AnnualTurnover, *p.MinAnnualTurnover))
		}
	}

	if p.MaxLoanAmount != nil {
		if b.RequestedAmount == nil {
			advise(models.CategoryLoanAmount, "requested loan amount not yet captured")
		} else if *b.RequestedAmount > *p.MaxLoanAmount {
			fail(models.CategoryLoanAmount, *b.RequestedAmount, *p.MaxLoanAmount,
				fmt.Sprintf("requested amount %.0f exceeds product ceiling %.0f", *b.RequestedAmount, *p.MaxLoanAmount))
		}
	}

	if p.MinAvgBalance != nil {
		if b.AvgBankBalance == nil {
			advise(models.CategoryAvgBalance, "average bank balance not yet extracted")
		} else if *b.AvgBankBalance < *p.MinAvgBalance {
			fail(models.CategoryAvgBalance, *b.AvgBankBalance, *p.MinAvgBalance,
				fmt.Sprintf("average balance %.0f below minimum %.0f", *b.AvgBankBalance, *p.MinAvgBalance))
		}
	}

	if p.MinAge != nil || p.MaxAge != nil {
		if b.Age == nil {
			advise(models.CategoryAge, "applicant age not yet extracted")
		} else {
			if p.MinAge != nil && *b.Age < *p.MinAge {
				fail(models.CategoryAge, *b.Age, *p.MinAge,
					fmt.Sprintf("applicant age %d below minimum %d", *b.Age, *p.MinAge))
			}
			if p.MaxAge != nil && *b.Age > *p.MaxAge {
				fail(models.CategoryAge, *b.Age, *p.MaxAge,
					fmt.Sprintf("applicant age %d above maximum %d", *b.Age, *p.MaxAge))
			}
		}
	}

	if len(p.AllowedEntityCategories) > 0 {
		if b.EntityCategory == nil {
			advise(models.CategoryEntityCategory, "entity category not yet classified")
		} else {
			allowed := false
			for _, cat := range p.AllowedEntityCategories {
				if strings.EqualFold(cat, *b.EntityCategory) {
					allowed = true
					break
				}
			}
			if !allowed {
				fail(models.CategoryEntityCategory, *b.EntityCategory, strings.Join(p.AllowedEntityCategories, ", "),
					fmt.Sprintf("entity category %q not among accepted categories", *b.EntityCategory))
			}
		}
	}

	if p.GeoRestricted {
		switch {
		case b.Pincode == nil:
			advise(models.CategoryPincode, "registered pincode not yet extracted; coverage not verified")
		case covered == nil:
			advise(models.CategoryPincode, "pincode coverage could not be verified")
		case !*covered:
			fail(models.CategoryPincode, *b.Pincode, "serviced pincode set",
				fmt.Sprintf("pincode %s not serviced by partner", *b.Pincode))
		}
	}

	if p.MaxSevereOverdues != nil {
		if b.OverdueAccounts == nil {
			advise(models.CategorySevereOverdues, "overdue account count not yet extracted")
		} else if *b.OverdueAccounts > *p.MaxSevereOverdues {
			fail(models.CategorySevereOverdues, *b.OverdueAccounts, *p.MaxSevereOverdues,
				fmt.Sprintf("%d severely overdue accounts exceed allowed %d", *b.OverdueAccounts, *p.MaxSevereOverdues))
		}
	}

	if p.MaxRecentEnquiries != nil {
		if b.RecentEnquiries == nil {
			advise(models.CategoryRecentEnquiries, "recent enquiry count not yet extracted")
		} else if *b.RecentEnquiries > *p.MaxRecentEnquiries {
			fail(models.CategoryRecentEnquiries, *b.RecentEnquiries, *p.MaxRecentEnquiries,
				fmt.Sprintf("%d recent enquiries exceed allowed %d", *b.RecentEnquiries, *p.MaxRecentEnquiries))
		}
	}

	if p.MaxOverdueAmount != nil {
		if b.OverdueAmount == nil {
			advise(models.CategoryOverdueAmount, "overdue amount not yet extracted")
		} else if *b.OverdueAmount > *p.MaxOverdueAmount {
			fail(models.CategoryOverdueAmount, *b.OverdueAmount, *p.MaxOverdueAmount,
				fmt.Sprintf("overdue amount %.0f exceeds allowed %.0f", *b.OverdueAmount, *p.MaxOverdueAmount))
		}
	}

	if p.RequiresGSTRegistration != nil && *p.RequiresGSTRegistration {
		if b.GSTRegistered == nil {
			advise(models.CategoryGSTRegistration, "GST registration status not yet verified")
		} else if !*b.GSTRegistered {
			fail(models.CategoryGSTRegistration, false, true, "GST registration required")
		}
	}

	if p.MinBankStatementMonths != nil {
		if b.BankStatementMonths == nil {
			advise(models.CategoryBankHistory, "bank statement history not yet parsed")
		} else if *b.BankStatementMonths < *p.MinBankStatementMonths {
			fail(models.CategoryBankHistory, *b.BankStatementMonths, *p.MinBankStatementMonths,
				fmt.Sprintf("%d months of bank statements below required %d", *b.BankStatementMonths, *p.MinBankStatementMonths))
		}
	}

	res.Passed = len(res.Failures) == 0
	return res
}
