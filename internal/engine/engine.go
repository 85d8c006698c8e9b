// internal/engine/engine.go
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"loanflow-workers/internal/common/config"
	cerrors "loanflow-workers/internal/common/errors"
	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
)

// Catalog supplies the lender product rules and their pincode coverage.
type Catalog interface {
	GetActiveProducts(ctx context.Context, programCategory string) ([]models.LenderProductRule, error)
	Covers(ctx context.Context, productID, pincode string) (bool, error)
}

// Engine runs one full eligibility pass: hard filter every active product,
// score and rank the survivors, aggregate the rejections into improvement
// recommendations.
type Engine struct {
	catalog  Catalog
	filter   HardFilterEvaluator
	scorer   SuitabilityScorer
	ranker   EligibilityRanker
	analyzer RejectionAnalyzer
	logger   logger.Logger
}

func New(catalog Catalog, scoring config.ScoringConfig, log logger.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		scorer:  NewSuitabilityScorer(scoring),
		logger:  log,
	}
}

// ScoreCase evaluates the borrower against every active product in the
// program category. Recommendations are produced on every run, including
// runs where some products matched.
func (e *Engine) ScoreCase(ctx context.Context, borrower *models.BorrowerProfile, programCategory string) (*models.EligibilityResponse, error) {
	products, err := e.catalog.GetActiveProducts(ctx, programCategory)
	if err != nil {
		return nil, cerrors.NewCatalogQueryFailedError(err)
	}

	resp := &models.EligibilityResponse{
		RunID:           uuid.NewString(),
		CaseID:          borrower.CaseID,
		ProgramCategory: programCategory,
		GeneratedAt:     time.Now().UTC(),
		TotalEvaluated:  len(products),
		Matches:         []models.EligibilityResult{},
		Rejected:        []models.EligibilityResult{},
		Recommendations: []models.Recommendation{},
	}

	if len(products) == 0 {
		resp.CatalogEmpty = true
		resp.Note = "no active products in catalog for program category"
		e.logger.Warn("Eligibility run against empty catalog", map[string]interface{}{
			"caseId":          borrower.CaseID,
			"programCategory": programCategory,
		})
		return resp, nil
	}

	advisorySeen := map[models.CriterionCategory]bool{}
	var matches, rejected []models.EligibilityResult

	for i := range products {
		p := &products[i]

		var covered *bool
		if p.GeoRestricted && borrower.Pincode != nil {
			ok, err := e.catalog.Covers(ctx, p.ID, *borrower.Pincode)
			if err != nil {
				return nil, cerrors.NewCoverageLookupFailedError(p.ID, err)
			}
			covered = &ok
		}

		result := e.filter.Evaluate(borrower, p, covered)
		if result.Passed {
			score, band := e.scorer.Score(borrower, p)
			loanRange := e.scorer.ExpectedLoanRange(borrower, p)
			result.Score = score
			result.Band = band
			result.ExpectedLoan = &loanRange
			matches = append(matches, result)
		} else {
			rejected = append(rejected, result)
		}

		for _, adv := range result.Advisories {
			if !advisorySeen[adv.Category] {
				advisorySeen[adv.Category] = true
				resp.DataAdvisories = append(resp.DataAdvisories, adv)
			}
		}
	}

	resp.Matches = e.ranker.Rank(matches)

	sort.SliceStable(rejected, func(i, j int) bool {
		if rejected[i].PartnerName != rejected[j].PartnerName {
			return rejected[i].PartnerName < rejected[j].PartnerName
		}
		return rejected[i].ProductName < rejected[j].ProductName
	})
	resp.Rejected = rejected
	resp.Recommendations = e.analyzer.Analyze(rejected)
	resp.PassedCount = len(resp.Matches)

	sort.SliceStable(resp.DataAdvisories, func(i, j int) bool {
		return resp.DataAdvisories[i].Category < resp.DataAdvisories[j].Category
	})

	if resp.PassedCount == 0 {
		resp.Note = "catalog evaluated, no products qualified"
	}

	e.logger.Info("Eligibility run completed", map[string]interface{}{
		"runId":           resp.RunID,
		"caseId":          borrower.CaseID,
		"programCategory": programCategory,
		"totalEvaluated":  resp.TotalEvaluated,
		"passedCount":     resp.PassedCount,
		"recommendations": len(resp.Recommendations),
	})

	return resp, nil
}
