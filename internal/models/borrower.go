// internal/models/borrower.go
package models

import "time"

// BorrowerProfile is one immutable snapshot of everything the extraction
// pipeline has derived for a case. Pointer fields distinguish "not yet
// extracted" from a genuine zero; the engine never treats nil as 0.
type BorrowerProfile struct {
	CaseID string `json:"caseId"`

	// Identity
	Name string `json:"name"`
	PAN  string `json:"pan,omitempty"`
	Age  *int   `json:"age,omitempty"`

	// Business
	EntityCategory   *string  `json:"entityCategory,omitempty"`
	YearsInOperation *float64 `json:"yearsInOperation,omitempty"`
	Pincode          *string  `json:"pincode,omitempty"`
	GSTRegistered    *bool    `json:"gstRegistered,omitempty"`

	// Financial
	AnnualTurnover      *float64 `json:"annualTurnover,omitempty"`
	MonthlyTurnover     *float64 `json:"monthlyTurnover,omitempty"`
	AvgBankBalance      *float64 `json:"avgBankBalance,omitempty"`
	MonthlyCredits      *float64 `json:"monthlyCredits,omitempty"`
	MonthlyDebits       *float64 `json:"monthlyDebits,omitempty"`
	BouncedPayments     *int     `json:"bouncedPayments,omitempty"`
	CashDepositRatio    *float64 `json:"cashDepositRatio,omitempty"`
	BankStatementMonths *int     `json:"bankStatementMonths,omitempty"`

	// Credit
	CreditScore     *int     `json:"creditScore,omitempty"`
	ActiveLoans     *int     `json:"activeLoans,omitempty"`
	OverdueAccounts *int     `json:"overdueAccounts,omitempty"`
	OverdueAmount   *float64 `json:"overdueAmount,omitempty"`
	RecentEnquiries *int     `json:"recentEnquiries,omitempty"`
	RequestedAmount *float64 `json:"requestedAmount,omitempty"`

	ExtractedAt time.Time `json:"extractedAt"`
}

// MissingAttributes lists the profile attributes the extraction pipeline has
// not produced yet. Used by the readiness gate and for data advisories.
func (b *BorrowerProfile) MissingAttributes() []string {
	var missing []string
	if b.CreditScore == nil {
		missing = append(missing, "creditScore")
	}
	if b.AnnualTurnover == nil {
		missing = append(missing, "annualTurnover")
	}
	if b.MonthlyTurnover == nil {
		missing = append(missing, "monthlyTurnover")
	}
	if b.AvgBankBalance == nil {
		missing = append(missing, "avgBankBalance")
	}
	if b.YearsInOperation == nil {
		missing = append(missing, "yearsInOperation")
	}
	if b.EntityCategory == nil {
		missing = append(missing, "entityCategory")
	}
	if b.Pincode == nil {
		missing = append(missing, "pincode")
	}
	if b.RequestedAmount == nil {
		missing = append(missing, "requestedAmount")
	}
	if b.BouncedPayments == nil {
		missing = append(missing, "bouncedPayments")
	}
	if b.BankStatementMonths == nil {
		missing = append(missing, "bankStatementMonths")
	}
	return missing
}
