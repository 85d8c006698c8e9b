// internal/workers/eligibility/check-profile-ready/models.go
package checkprofileready

type Input struct {
	CaseID string `json:"caseId"`
}

// Output drives the readiness gateway in the workflow. Ready is false when
// the profile is missing, when any required attribute is not yet extracted,
// or when an extracted identity field is malformed.
type Output struct {
	Ready             bool     `json:"profileReady"`
	ProfileFound      bool     `json:"profileFound"`
	MissingAttributes []string `json:"missingAttributes,omitempty"`
	InvalidAttributes []string `json:"invalidAttributes,omitempty"`
}
