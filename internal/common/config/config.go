// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Scoring  ScoringConfig           `mapstructure:"scoring"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// ScoringWeights holds the relative weight of each soft-scoring signal.
// Weights are relative; the scorer normalizes by the weight mass of the
// signals that were actually applicable for a given product.
type ScoringWeights struct {
	CreditScore      float64 `mapstructure:"credit_score"`
	AnnualTurnover   float64 `mapstructure:"annual_turnover"`
	YearsInOperation float64 `mapstructure:"years_in_operation"`
	AvgBalance       float64 `mapstructure:"average_balance"`
	BouncedPayments  float64 `mapstructure:"bounced_payments"`
	CashDepositRatio float64 `mapstructure:"cash_deposit_ratio"`
}

// ScoringConfig holds the suitability-scoring tunables.
type ScoringConfig struct {
	Weights ScoringWeights `mapstructure:"weights"`

	// Band cut-offs on the 0-100 score. HIGH >= HighBand,
	// MEDIUM >= MediumBand, LOW below.
	HighBand   int `mapstructure:"high_band"`
	MediumBand int `mapstructure:"medium_band"`

	// Expected loan-range derivation.
	LoanFloor        float64 `mapstructure:"loan_floor"`
	TurnoverMultiple float64 `mapstructure:"turnover_multiple"`
}

// DefaultScoring returns the scoring tunables used when the config file
// carries no scoring section.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Weights: ScoringWeights{
			CreditScore:      0.30,
			AnnualTurnover:   0.25,
			YearsInOperation: 0.10,
			AvgBalance:       0.10,
			BouncedPayments:  0.15,
			CashDepositRatio: 0.10,
		},
		HighBand:         80,
		MediumBand:       50,
		LoanFloor:        50000,
		TurnoverMultiple: 2.0,
	}
}

// CacheConfig holds Redis cache TTLs.
type CacheConfig struct {
	ProfileTTL int `mapstructure:"profile_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
