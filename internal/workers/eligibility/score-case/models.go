// internal/workers/eligibility/score-case/models.go
package scorecase

type Input struct {
	CaseID          string `json:"caseId"`
	ProgramCategory string `json:"programCategory"`
}

// Output is the summary returned to the workflow; the full response is
// persisted in the result store keyed by case.
type Output struct {
	RunID               string `json:"eligibilityRunId"`
	CaseID              string `json:"caseId"`
	TotalEvaluated      int    `json:"totalEvaluated"`
	PassedCount         int    `json:"passedCount"`
	TopPartner          string `json:"topPartner,omitempty"`
	TopBand             string `json:"topBand,omitempty"`
	RecommendationCount int    `json:"recommendationCount"`
	CatalogEmpty        bool   `json:"catalogEmpty"`
}
