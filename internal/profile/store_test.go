// internal/profile/store_test.go
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
)

var profileTestColumns = []string{
	"case_id", "name", "pan", "age", "entity_category", "years_in_operation",
	"pincode", "gst_registered", "annual_turnover", "monthly_turnover",
	"avg_bank_balance", "monthly_credits", "monthly_debits", "bounced_payments",
	"cash_deposit_ratio", "bank_statement_months", "credit_score", "active_loans",
	"overdue_accounts", "overdue_amount", "recent_enquiries", "requested_amount",
	"extracted_at",
}

func fullProfileRow(extractedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(profileTestColumns).AddRow(
		"case-001", "Sharma Traders", "ABCDE1234F", 42, "proprietorship", 6.0,
		"560001", true, 9000000.0, 750000.0,
		250000.0, 800000.0, 700000.0, 0,
		0.1, 12, 780, 2,
		0, 0.0, 1, 1000000.0,
		extractedAt,
	)
}

func TestStore_Get_CacheMissReadsDatabase(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	extractedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	redisMock.ExpectGet("profile:case:case-001").RedisNil()
	dbMock.ExpectQuery("SELECT(.|\n)+FROM borrower_profiles").
		WithArgs("case-001").
		WillReturnRows(fullProfileRow(extractedAt))

	expected := expectedProfile(extractedAt)
	cached, err := json.Marshal(expected)
	require.NoError(t, err)
	redisMock.ExpectSet("profile:case:case-001", cached, 5*time.Minute).SetVal("OK")

	store := NewStore(db, redisClient, 5*time.Minute, logger.NewNoOpLogger())
	got, err := store.Get(context.Background(), "case-001")
	require.NoError(t, err)

	assert.Equal(t, expected, got)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStore_Get_CacheHitSkipsDatabase(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	extractedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	expected := expectedProfile(extractedAt)
	cached, err := json.Marshal(expected)
	require.NoError(t, err)
	redisMock.ExpectGet("profile:case:case-001").SetVal(string(cached))

	store := NewStore(db, redisClient, 5*time.Minute, logger.NewNoOpLogger())
	got, err := store.Get(context.Background(), "case-001")
	require.NoError(t, err)

	assert.Equal(t, expected, got)
	assert.NoError(t, dbMock.ExpectationsWereMet(), "database must not be queried on cache hit")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStore_Get_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("profile:case:missing").RedisNil()
	dbMock.ExpectQuery("SELECT(.|\n)+FROM borrower_profiles").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	store := NewStore(db, redisClient, 5*time.Minute, logger.NewNoOpLogger())
	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestStore_Get_NullColumnsStayNil(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	extractedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(profileTestColumns).AddRow(
		"case-002", "Fresh Ventures", nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		extractedAt,
	)

	dbMock.ExpectQuery("SELECT(.|\n)+FROM borrower_profiles").
		WithArgs("case-002").
		WillReturnRows(rows)

	// No cache wired: nil Redis client is a supported degraded mode.
	store := NewStore(db, nil, 5*time.Minute, logger.NewNoOpLogger())
	got, err := store.Get(context.Background(), "case-002")
	require.NoError(t, err)

	assert.Nil(t, got.CreditScore)
	assert.Nil(t, got.AnnualTurnover)
	assert.Nil(t, got.Pincode)
	assert.Nil(t, got.GSTRegistered)
	assert.Empty(t, got.PAN)

	missing := got.MissingAttributes()
	assert.Contains(t, missing, "creditScore")
	assert.Contains(t, missing, "pincode")
}

func expectedProfile(extractedAt time.Time) *models.BorrowerProfile {
	age := 42
	entity := "proprietorship"
	years := 6.0
	pincode := "560001"
	gst := true
	annual := 9000000.0
	monthly := 750000.0
	balance := 250000.0
	credits := 800000.0
	debits := 700000.0
	bounces := 0
	cashRatio := 0.1
	bankMonths := 12
	score := 780
	loans := 2
	overdueAccts := 0
	overdueAmt := 0.0
	enquiries := 1
	requested := 1000000.0

	return &models.BorrowerProfile{
		CaseID:              "case-001",
		Name:                "Sharma Traders",
		PAN:                 "ABCDE1234F",
		Age:                 &age,
		EntityCategory:      &entity,
		YearsInOperation:    &years,
		Pincode:             &pincode,
		GSTRegistered:       &gst,
		AnnualTurnover:      &annual,
		MonthlyTurnover:     &monthly,
		AvgBankBalance:      &balance,
		MonthlyCredits:      &credits,
		MonthlyDebits:       &debits,
		BouncedPayments:     &bounces,
		CashDepositRatio:    &cashRatio,
		BankStatementMonths: &bankMonths,
		CreditScore:         &score,
		ActiveLoans:         &loans,
		OverdueAccounts:     &overdueAccts,
		OverdueAmount:       &overdueAmt,
		RecentEnquiries:     &enquiries,
		RequestedAmount:     &requested,
		ExtractedAt:         extractedAt,
	}
}
