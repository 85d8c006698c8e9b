// internal/engine/hardfilter_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loanflow-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func bptr(v bool) *bool       { return &v }

func strongBorrower() *models.BorrowerProfile {
	return &models.BorrowerProfile{
		CaseID:              "case-001",
		Name:                "Sharma Traders",
		Age:                 iptr(42),
		EntityCategory:      sptr("proprietorship"),
		YearsInOperation:    fptr(6.0),
		Pincode:             sptr("560001"),
		GSTRegistered:       bptr(true),
		AnnualTurnover:      fptr(9000000),
		MonthlyTurnover:     fptr(750000),
		AvgBankBalance:      fptr(250000),
		BouncedPayments:     iptr(0),
		CashDepositRatio:    fptr(0.1),
		BankStatementMonths: iptr(12),
		CreditScore:         iptr(780),
		OverdueAccounts:     iptr(0),
		OverdueAmount:       fptr(0),
		RecentEnquiries:     iptr(1),
		RequestedAmount:     fptr(1000000),
	}
}

func unconstrainedProduct() *models.LenderProductRule {
	return &models.LenderProductRule{
		ID:              "prod-open",
		PartnerName:     "OpenCap",
		ProductName:     "Flexi Term",
		ProgramCategory: "business_loan",
		Active:          true,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHardFilter_AbsentCriteriaAlwaysPass(t *testing.T) {
	var hf HardFilterEvaluator
	res := hf.Evaluate(strongBorrower(), unconstrainedProduct(), nil)

	assert.True(t, res.Passed)
	assert.Empty(t, res.Failures)
	assert.Empty(t, res.Advisories)
}

func TestHardFilter_CollectsEveryFailure(t *testing.T) {
	var hf HardFilterEvaluator

	b := strongBorrower()
	b.CreditScore = iptr(600)
	b.AnnualTurnover = fptr(1000000)
	b.YearsInOperation = fptr(1.0)

	p := unconstrainedProduct()
	p.MinCreditScore = iptr(700)
	p.MinAnnualTurnover = fptr(5000000)
	p.MinYearsInOperation = fptr(3.0)

	res := hf.Evaluate(b, p, nil)

	assert.False(t, res.Passed)
	assert.Len(t, res.Failures, 3, "evaluation must not short-circuit")

	cats := map[models.CriterionCategory]bool{}
	for _, f := range res.Failures {
		cats[f.Category] = true
	}
	assert.True(t, cats[models.CategoryCreditScore])
	assert.True(t, cats[models.CategoryAnnualTurnover])
	assert.True(t, cats[models.CategoryYearsInOperation])
}

func TestHardFilter_MissingAttributeIsAdvisoryNotFailure(t *testing.T) {
	var hf HardFilterEvaluator

	b := strongBorrower()
	b.CreditScore = nil

	p := unconstrainedProduct()
	p.MinCreditScore = iptr(700)

	res := hf.Evaluate(b, p, nil)

	assert.True(t, res.Passed)
	assert.Empty(t, res.Failures)
	assert.Len(t, res.Advisories, 1)
	assert.Equal(t, models.CategoryCreditScore, res.Advisories[0].Category)
}

func TestHardFilter_PincodeNotServed(t *testing.T) {
	var hf HardFilterEvaluator

	p := unconstrainedProduct()
	p.GeoRestricted = true

	res := hf.Evaluate(strongBorrower(), p, bptr(false))

	assert.False(t, res.Passed)
	assert.Len(t, res.Failures, 1)
	assert.Equal(t, models.CategoryPincode, res.Failures[0].Category)
	assert.Equal(t, "560001", res.Failures[0].BorrowerValue)
}

func TestHardFilter_PincodeCoverageUnknownIsAdvisory(t *testing.T) {
	var hf HardFilterEvaluator

	p := unconstrainedProduct()
	p.GeoRestricted = true

	res := hf.Evaluate(strongBorrower(), p, nil)

	assert.True(t, res.Passed)
	assert.Len(t, res.Advisories, 1)
	assert.Equal(t, models.CategoryPincode, res.Advisories[0].Category)
}

func TestHardFilter_BoundaryValuesPass(t *testing.T) {
	var hf HardFilterEvaluator

	b := strongBorrower()
	b.CreditScore = iptr(700)
	b.RequestedAmount = fptr(2000000)
	b.OverdueAccounts = iptr(1)

	p := unconstrainedProduct()
	p.MinCreditScore = iptr(700)
	p.MaxLoanAmount = fptr(2000000)
	p.MaxSevereOverdues = iptr(1)

	res := hf.Evaluate(b, p, nil)
	assert.True(t, res.Passed, "values exactly at the threshold must pass")
}

func TestHardFilter_EntityCategoryAndGST(t *testing.T) {
	var hf HardFilterEvaluator

	b := strongBorrower()
	b.EntityCategory = sptr("partnership")
	b.GSTRegistered = bptr(false)

	p := unconstrainedProduct()
	p.AllowedEntityCategories = []string{"private_limited", "llp"}
	p.RequiresGSTRegistration = bptr(true)

	res := hf.Evaluate(b, p, nil)

	assert.False(t, res.Passed)
	assert.Len(t, res.Failures, 2)
	assert.Equal(t, models.CategoryEntityCategory, res.Failures[0].Category)
	assert.Equal(t, models.CategoryGSTRegistration, res.Failures[1].Category)
}

func TestHardFilter_AgeWindow(t *testing.T) {
	var hf HardFilterEvaluator

	b := strongBorrower()
	b.Age = iptr(67)

	p := unconstrainedProduct()
	p.MinAge = iptr(21)
	p.MaxAge = iptr(65)

	res := hf.Evaluate(b, p, nil)

	assert.False(t, res.Passed)
	assert.Len(t, res.Failures, 1)
	assert.Equal(t, models.CategoryAge, res.Failures[0].Category)
	assert.Equal(t, 65, res.Failures[0].RequiredValue)
}

func TestHardFilter_CarriesPresentationFields(t *testing.T) {
	var hf HardFilterEvaluator

	p := unconstrainedProduct()
	p.MinCreditScore = iptr(720)
	p.TenorMinMonths = iptr(6)
	p.TenorMaxMonths = iptr(36)

	res := hf.Evaluate(strongBorrower(), p, nil)

	assert.True(t, res.Passed)
	assert.Equal(t, 720, *res.RequiredCreditScore)
	assert.Equal(t, 6, *res.TenorMinMonths)
	assert.Equal(t, 36, *res.TenorMaxMonths)
}
