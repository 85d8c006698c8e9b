// internal/workers/eligibility/score-case/handler.go
package scorecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	cerrors "loanflow-workers/internal/common/errors"
	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/common/metrics"
	"loanflow-workers/internal/models"
	"loanflow-workers/internal/profile"
)

const (
	TaskType = "eligibility-score-case"
)

const inputSchema = `{
	"type": "object",
	"properties": {
		"caseId": {"type": "string", "minLength": 1},
		"programCategory": {"type": "string", "minLength": 1}
	},
	"required": ["caseId", "programCategory"]
}`

// ProfileSource supplies borrower profile snapshots.
type ProfileSource interface {
	Get(ctx context.Context, caseID string) (*models.BorrowerProfile, error)
}

// EligibilityEngine runs one full scoring pass.
type EligibilityEngine interface {
	ScoreCase(ctx context.Context, borrower *models.BorrowerProfile, programCategory string) (*models.EligibilityResponse, error)
}

// ResultStore persists the full eligibility response.
type ResultStore interface {
	Save(ctx context.Context, resp *models.EligibilityResponse) error
}

type Handler struct {
	config     *Config
	profiles   ProfileSource
	engine     EligibilityEngine
	results    ResultStore
	errHandler *cerrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, profiles ProfileSource, engine EligibilityEngine, results ResultStore, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		profiles:   profiles,
		engine:     engine,
		results:    results,
		errHandler: cerrors.NewErrorHandler(log),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(cerrors.ErrCodeInvalidInput)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		code := "INTERNAL_ERROR"
		var stdErr *cerrors.StandardError
		if errors.As(err, &stdErr) {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(inputSchema),
		gojsonschema.NewStringLoader(variables),
	)
	if err != nil {
		return nil, cerrors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, cerrors.NewInvalidInputError(strings.Join(msgs, "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, cerrors.NewInvalidInputError(fmt.Sprintf("decode input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	borrower, err := h.profiles.Get(ctx, input.CaseID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, cerrors.NewProfileNotFoundError(input.CaseID)
		}
		return nil, cerrors.NewProfileFetchFailedError(err)
	}

	if missing := h.missingRequired(borrower); len(missing) > 0 {
		return nil, cerrors.NewProfileNotReadyError(input.CaseID, missing)
	}

	resp, err := h.engine.ScoreCase(ctx, borrower, input.ProgramCategory)
	if err != nil {
		var stdErr *cerrors.StandardError
		if !errors.As(err, &stdErr) {
			return nil, cerrors.NewScoringFailedError(err.Error())
		}
		return nil, err
	}

	if err := h.results.Save(ctx, resp); err != nil {
		return nil, cerrors.NewResultPersistFailedError(err)
	}

	outcome := "matched"
	if resp.CatalogEmpty {
		outcome = "catalog_empty"
	} else if resp.PassedCount == 0 {
		outcome = "no_match"
	}
	metrics.EligibilityRuns.WithLabelValues(input.ProgramCategory, outcome).Inc()
	metrics.EligibilityProductsEvaluated.WithLabelValues(input.ProgramCategory).Observe(float64(resp.TotalEvaluated))
	metrics.EligibilityProductsPassed.WithLabelValues(input.ProgramCategory).Observe(float64(resp.PassedCount))

	output := &Output{
		RunID:               resp.RunID,
		CaseID:              resp.CaseID,
		TotalEvaluated:      resp.TotalEvaluated,
		PassedCount:         resp.PassedCount,
		RecommendationCount: len(resp.Recommendations),
		CatalogEmpty:        resp.CatalogEmpty,
	}
	if len(resp.Matches) > 0 {
		output.TopPartner = resp.Matches[0].PartnerName
		output.TopBand = resp.Matches[0].Band
	}
	return output, nil
}

// missingRequired filters the profile's missing attributes down to the set
// scoring cannot proceed without.
func (h *Handler) missingRequired(borrower *models.BorrowerProfile) []string {
	required := map[string]bool{}
	for _, attr := range h.config.RequiredAttributes {
		required[attr] = true
	}
	var missing []string
	for _, attr := range borrower.MissingAttributes() {
		if required[attr] {
			missing = append(missing, attr)
		}
	}
	return missing
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute exposes the business logic for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ParseInput exposes input validation for tests.
func (h *Handler) ParseInput(variables string) (*Input, error) {
	return h.parseInput(variables)
}
