// internal/models/eligibility.go
package models

import "time"

// CriterionCategory tags a hard-filter criterion. Categories are attached at
// evaluation time so the rejection aggregation never parses reason text.
type CriterionCategory string

const (
	CategoryCreditScore      CriterionCategory = "credit_score"
	CategoryYearsInOperation CriterionCategory = "years_in_operation"
	CategoryAnnualTurnover   CriterionCategory = "annual_turnover"
	CategoryLoanAmount       CriterionCategory = "loan_amount"
	CategoryAvgBalance       CriterionCategory = "average_balance"
	CategoryAge              CriterionCategory = "age"
	CategoryEntityCategory   CriterionCategory = "entity_category"
	CategoryPincode          CriterionCategory = "pincode_not_served"
	CategorySevereOverdues   CriterionCategory = "severe_overdues"
	CategoryRecentEnquiries  CriterionCategory = "recent_enquiries"
	CategoryOverdueAmount    CriterionCategory = "overdue_amount"
	CategoryGSTRegistration  CriterionCategory = "gst_registration"
	CategoryBankHistory      CriterionCategory = "bank_history"
)

// Approval probability bands.
const (
	BandHigh   = "HIGH"
	BandMedium = "MEDIUM"
	BandLow    = "LOW"
)

// FailureReason records one failed criterion with both sides of the
// comparison.
type FailureReason struct {
	Category      CriterionCategory `json:"category"`
	BorrowerValue interface{}       `json:"borrowerValue"`
	RequiredValue interface{}       `json:"requiredValue"`
	Reason        string            `json:"reason"`
}

// Advisory flags a criterion the product declares but the borrower snapshot
// cannot answer yet. Advisories never block a pass.
type Advisory struct {
	Category CriterionCategory `json:"category"`
	Note     string            `json:"note"`
}

// LoanRange is the expected sanctionable loan-size range for a match.
type LoanRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// EligibilityResult is the outcome of evaluating one (borrower, product)
// pair. Score, band and expected range are set only when Passed is true.
type EligibilityResult struct {
	ProductID   string `json:"productId"`
	PartnerName string `json:"partnerName"`
	ProductName string `json:"productName"`

	Passed     bool            `json:"passed"`
	Failures   []FailureReason `json:"failures,omitempty"`
	Advisories []Advisory      `json:"advisories,omitempty"`

	Score        int        `json:"score,omitempty"`
	Band         string     `json:"band,omitempty"`
	ExpectedLoan *LoanRange `json:"expectedLoan,omitempty"`

	// Carried for ranking tie-breaks and presentation.
	RequiredCreditScore *int `json:"requiredCreditScore,omitempty"`
	TenorMinMonths      *int `json:"tenorMinMonths,omitempty"`
	TenorMaxMonths      *int `json:"tenorMaxMonths,omitempty"`
}

// Recommendation is one prioritized improvement opportunity aggregated
// across the rejected set.
type Recommendation struct {
	Priority        int               `json:"priority"`
	Category        CriterionCategory `json:"category"`
	CurrentValue    interface{}       `json:"currentValue"`
	TargetValue     interface{}       `json:"targetValue"`
	LendersUnlocked int               `json:"lendersUnlocked"`
	Action          string            `json:"action"`
}

// EligibilityResponse is the complete output of one scoring run. It is
// persisted as a full replacement of any prior run for the same case.
type EligibilityResponse struct {
	RunID           string    `json:"runId"`
	CaseID          string    `json:"caseId"`
	ProgramCategory string    `json:"programCategory"`
	GeneratedAt     time.Time `json:"generatedAt"`

	TotalEvaluated int `json:"totalEvaluated"`
	PassedCount    int `json:"passedCount"`

	Matches         []EligibilityResult `json:"matches"`
	Rejected        []EligibilityResult `json:"rejected"`
	Recommendations []Recommendation    `json:"recommendations"`

	// Union of per-product advisories, deduplicated by category, so the
	// caller can flag that the verdict is provisional.
	DataAdvisories []Advisory `json:"dataAdvisories,omitempty"`

	// CatalogEmpty distinguishes "no catalog available" from "catalog
	// evaluated, nothing qualified".
	CatalogEmpty bool   `json:"catalogEmpty"`
	Note         string `json:"note,omitempty"`
}
