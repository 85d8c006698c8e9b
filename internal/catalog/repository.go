// internal/catalog/repository.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
)

const productColumns = `
	id, partner_name, product_name, program_category, active,
	min_credit_score, min_years_in_operation, min_annual_turnover,
	max_loan_amount, min_avg_balance, min_age, max_age,
	max_severe_overdues, max_recent_enquiries, max_overdue_amount,
	allowed_entity_categories, requires_gst_registration,
	min_bank_statement_months, tenor_min_months, tenor_max_months,
	geo_restricted`

// Repository reads the lender product catalog from PostgreSQL.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// GetActiveProducts returns the active products of one program category in a
// stable order.
func (r *Repository) GetActiveProducts(ctx context.Context, programCategory string) ([]models.LenderProductRule, error) {
	query := `SELECT` + productColumns + `
		FROM lender_product_rules
		WHERE active = true AND program_category = $1
		ORDER BY partner_name, product_name`

	rows, err := r.db.QueryContext(ctx, query, programCategory)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	var products []models.LenderProductRule
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog row scan failed: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog rows failed: %w", err)
	}

	r.logger.Debug("Catalog loaded", map[string]interface{}{
		"programCategory": programCategory,
		"products":        len(products),
	})
	return products, nil
}

// Covers reports whether the product services the given pincode.
func (r *Repository) Covers(ctx context.Context, productID, pincode string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM lender_product_pincodes
		WHERE product_id = $1 AND pincode = $2)`

	var covered bool
	if err := r.db.QueryRowContext(ctx, query, productID, pincode).Scan(&covered); err != nil {
		return false, fmt.Errorf("coverage lookup failed: %w", err)
	}
	return covered, nil
}

func scanProduct(rows *sql.Rows) (models.LenderProductRule, error) {
	var p models.LenderProductRule
	var (
		minCreditScore      sql.NullInt64
		minYearsInOperation sql.NullFloat64
		minAnnualTurnover   sql.NullFloat64
		maxLoanAmount       sql.NullFloat64
		minAvgBalance       sql.NullFloat64
		minAge              sql.NullInt64
		maxAge              sql.NullInt64
		maxSevereOverdues   sql.NullInt64
		maxRecentEnquiries  sql.NullInt64
		maxOverdueAmount    sql.NullFloat64
		allowedCategories   sql.NullString
		requiresGST         sql.NullBool
		minBankMonths       sql.NullInt64
		tenorMin            sql.NullInt64
		tenorMax            sql.NullInt64
	)

	err := rows.Scan(
		&p.ID, &p.PartnerName, &p.ProductName, &p.ProgramCategory, &p.Active,
		&minCreditScore, &minYearsInOperation, &minAnnualTurnover,
		&maxLoanAmount, &minAvgBalance, &minAge, &maxAge,
		&maxSevereOverdues, &maxRecentEnquiries, &maxOverdueAmount,
		&allowedCategories, &requiresGST,
		&minBankMonths, &tenorMin, &tenorMax,
		&p.GeoRestricted,
	)
	if err != nil {
		return p, err
	}

	p.MinCreditScore = nullInt(minCreditScore)
	p.MinYearsInOperation = nullFloat(minYearsInOperation)
	p.MinAnnualTurnover = nullFloat(minAnnualTurnover)
	p.MaxLoanAmount = nullFloat(maxLoanAmount)
	p.MinAvgBalance = nullFloat(minAvgBalance)
	p.MinAge = nullInt(minAge)
	p.MaxAge = nullInt(maxAge)
	p.MaxSevereOverdues = nullInt(maxSevereOverdues)
	p.MaxRecentEnquiries = nullInt(maxRecentEnquiries)
	p.MaxOverdueAmount = nullFloat(maxOverdueAmount)
	p.MinBankStatementMonths = nullInt(minBankMonths)
	p.TenorMinMonths = nullInt(tenorMin)
	p.TenorMaxMonths = nullInt(tenorMax)

	if requiresGST.Valid {
		p.RequiresGSTRegistration = &requiresGST.Bool
	}

	// allowed_entity_categories is stored as a JSON array; NULL or an empty
	// array means every category is accepted.
	if allowedCategories.Valid && allowedCategories.String != "" {
		if err := json.Unmarshal([]byte(allowedCategories.String), &p.AllowedEntityCategories); err != nil {
			return p, fmt.Errorf("invalid allowed_entity_categories for product %s: %w", p.ID, err)
		}
	}

	return p, nil
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
