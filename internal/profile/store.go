// internal/profile/store.go
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
)

// ErrProfileNotFound signals that no snapshot exists for the case.
var ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")

const profileCacheKeyPrefix = "profile:case:"

// Store reads borrower profile snapshots with a Redis read-through cache in
// front of PostgreSQL.
type Store struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// Get returns the latest extracted snapshot for the case. Cache failures
// fall through to the database.
func (s *Store) Get(ctx context.Context, caseID string) (*models.BorrowerProfile, error) {
	cacheKey := profileCacheKeyPrefix + caseID

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var profile models.BorrowerProfile
			if err := json.Unmarshal([]byte(cached), &profile); err == nil {
				s.logger.Debug("Profile cache hit", map[string]interface{}{"caseId": caseID})
				return &profile, nil
			}
			// Corrupt cache entry: drop it and reload from the database.
			_ = s.redis.Del(ctx, cacheKey).Err()
		} else if err != redis.Nil {
			s.logger.Warn("Profile cache read failed, falling back to database", map[string]interface{}{
				"caseId": caseID,
				"error":  err.Error(),
			})
		}
	}

	profile, err := s.getFromDB(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("Profile cache write failed", map[string]interface{}{
					"caseId": caseID,
					"error":  err.Error(),
				})
			}
		}
	}

	return profile, nil
}

// Invalidate drops the cached snapshot for a case.
func (s *Store) Invalidate(ctx context.Context, caseID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, profileCacheKeyPrefix+caseID).Err()
}

func (s *Store) getFromDB(ctx context.Context, caseID string) (*models.BorrowerProfile, error) {
	query := `SELECT
		case_id, name, pan, age, entity_category, years_in_operation,
		pincode, gst_registered, annual_turnover, monthly_turnover,
		avg_bank_balance, monthly_credits, monthly_debits, bounced_payments,
		cash_deposit_ratio, bank_statement_months, credit_score, active_loans,
		overdue_accounts, overdue_amount, recent_enquiries, requested_amount,
		extracted_at
		FROM borrower_profiles
		WHERE case_id = $1`

	var p models.BorrowerProfile
	var (
		pan              sql.NullString
		age              sql.NullInt64
		entityCategory   sql.NullString
		yearsInOperation sql.NullFloat64
		pincode          sql.NullString
		gstRegistered    sql.NullBool
		annualTurnover   sql.NullFloat64
		monthlyTurnover  sql.NullFloat64
		avgBankBalance   sql.NullFloat64
		monthlyCredits   sql.NullFloat64
		monthlyDebits    sql.NullFloat64
		bouncedPayments  sql.NullInt64
		cashDepositRatio sql.NullFloat64
		bankMonths       sql.NullInt64
		creditScore      sql.NullInt64
		activeLoans      sql.NullInt64
		overdueAccounts  sql.NullInt64
		overdueAmount    sql.NullFloat64
		recentEnquiries  sql.NullInt64
		requestedAmount  sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, query, caseID).Scan(
		&p.CaseID, &p.Name, &pan, &age, &entityCategory, &yearsInOperation,
		&pincode, &gstRegistered, &annualTurnover, &monthlyTurnover,
		&avgBankBalance, &monthlyCredits, &monthlyDebits, &bouncedPayments,
		&cashDepositRatio, &bankMonths, &creditScore, &activeLoans,
		&overdueAccounts, &overdueAmount, &recentEnquiries, &requestedAmount,
		&p.ExtractedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile query failed: %w", err)
	}

	if pan.Valid {
		p.PAN = pan.String
	}
	p.Age = nullInt(age)
	p.EntityCategory = nullString(entityCategory)
	p.YearsInOperation = nullFloat(yearsInOperation)
	p.Pincode = nullString(pincode)
	if gstRegistered.Valid {
		p.GSTRegistered = &gstRegistered.Bool
	}
	p.AnnualTurnover = nullFloat(annualTurnover)
	p.MonthlyTurnover = nullFloat(monthlyTurnover)
	p.AvgBankBalance = nullFloat(avgBankBalance)
	p.MonthlyCredits = nullFloat(monthlyCredits)
	p.MonthlyDebits = nullFloat(monthlyDebits)
	p.BouncedPayments = nullInt(bouncedPayments)
	p.CashDepositRatio = nullFloat(cashDepositRatio)
	p.BankStatementMonths = nullInt(bankMonths)
	p.CreditScore = nullInt(creditScore)
	p.ActiveLoans = nullInt(activeLoans)
	p.OverdueAccounts = nullInt(overdueAccounts)
	p.OverdueAmount = nullFloat(overdueAmount)
	p.RecentEnquiries = nullInt(recentEnquiries)
	p.RequestedAmount = nullFloat(requestedAmount)

	return &p, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
