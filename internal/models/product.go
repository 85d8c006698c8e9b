// internal/models/product.go
package models

// LenderProductRule is one lending partner product as supplied by the
// catalog ingestion pipeline. Every criterion is optional: a nil criterion
// imposes no constraint on the corresponding borrower attribute.
type LenderProductRule struct {
	ID              string `json:"id"`
	PartnerName     string `json:"partnerName"`
	ProductName     string `json:"productName"`
	ProgramCategory string `json:"programCategory"`
	Active          bool   `json:"active"`

	MinCreditScore      *int     `json:"minCreditScore,omitempty"`
	MinYearsInOperation *float64 `json:"minYearsInOperation,omitempty"`
	MinAnnualTurnover   *float64 `json:"minAnnualTurnover,omitempty"`
	MaxLoanAmount       *float64 `json:"maxLoanAmount,omitempty"`
	MinAvgBalance       *float64 `json:"minAvgBalance,omitempty"`
	MinAge              *int     `json:"minAge,omitempty"`
	MaxAge              *int     `json:"maxAge,omitempty"`
	MaxSevereOverdues   *int     `json:"maxSevereOverdues,omitempty"`
	MaxRecentEnquiries  *int     `json:"maxRecentEnquiries,omitempty"`
	MaxOverdueAmount    *float64 `json:"maxOverdueAmount,omitempty"`

	// Empty slice or nil means every entity category is accepted.
	AllowedEntityCategories []string `json:"allowedEntityCategories,omitempty"`

	RequiresGSTRegistration *bool `json:"requiresGstRegistration,omitempty"`
	MinBankStatementMonths  *int  `json:"minBankStatementMonths,omitempty"`

	// Tenor bounds are informational for downstream presentation; the
	// borrower profile carries no requested tenor to filter against.
	TenorMinMonths *int `json:"tenorMinMonths,omitempty"`
	TenorMaxMonths *int `json:"tenorMaxMonths,omitempty"`

	// GeoRestricted products are only offered in pincodes present in their
	// coverage set (checked via the catalog supplier, not stored here).
	GeoRestricted bool `json:"geoRestricted"`
}
