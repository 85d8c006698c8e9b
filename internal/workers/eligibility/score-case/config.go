// internal/workers/eligibility/score-case/config.go
package scorecase

import "time"

type Config struct {
	Timeout time.Duration

	// Attributes the profile must carry before scoring is attempted. Kept in
	// sync with the readiness gate so a case that skips the gate still fails
	// fast instead of producing an all-advisory run.
	RequiredAttributes []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		RequiredAttributes: []string{
			"creditScore",
			"annualTurnover",
			"requestedAmount",
		},
	}
}
