// internal/workers/eligibility/check-profile-ready/config.go
package checkprofileready

import "time"

type Config struct {
	Timeout time.Duration

	// Attributes that must be extracted before a case may be scored.
	RequiredAttributes []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		RequiredAttributes: []string{
			"creditScore",
			"annualTurnover",
			"requestedAmount",
		},
	}
}
