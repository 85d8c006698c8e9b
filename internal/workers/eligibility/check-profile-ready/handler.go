// internal/workers/eligibility/check-profile-ready/handler.go
package checkprofileready

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	cerrors "loanflow-workers/internal/common/errors"
	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/common/metrics"
	"loanflow-workers/internal/common/validation"
	"loanflow-workers/internal/models"
	"loanflow-workers/internal/profile"
)

const (
	TaskType = "eligibility-check-profile-ready"
)

var inputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"caseId": {Type: "string", MinLength: intPtr(1)},
	},
	Required: []string{"caseId"},
	// Zeebe jobs carry the full variable scope, not just this worker's input.
	AdditionalProperties: true,
}

func intPtr(v int) *int { return &v }

// ProfileSource supplies borrower profile snapshots.
type ProfileSource interface {
	Get(ctx context.Context, caseID string) (*models.BorrowerProfile, error)
}

type Handler struct {
	config     *Config
	profiles   ProfileSource
	errHandler *cerrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, profiles ProfileSource, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		profiles:   profiles,
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
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, cerrors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}

	if result := validation.ValidateInput(raw, inputSchema); !result.Valid {
		return nil, cerrors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
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
			// A missing profile is a gate outcome, not a job failure.
			return &Output{Ready: false, ProfileFound: false}, nil
		}
		return nil, cerrors.NewProfileFetchFailedError(err)
	}

	output := &Output{ProfileFound: true}

	required := map[string]bool{}
	for _, attr := range h.config.RequiredAttributes {
		required[attr] = true
	}
	for _, attr := range borrower.MissingAttributes() {
		if required[attr] {
			output.MissingAttributes = append(output.MissingAttributes, attr)
		}
	}

	if borrower.PAN != "" && !validation.ValidatePAN(borrower.PAN) {
		output.InvalidAttributes = append(output.InvalidAttributes, "pan")
	}
	if borrower.Pincode != nil && !validation.ValidatePincode(*borrower.Pincode) {
		output.InvalidAttributes = append(output.InvalidAttributes, "pincode")
	}

	output.Ready = len(output.MissingAttributes) == 0 && len(output.InvalidAttributes) == 0

	h.logger.Info("profile readiness evaluated", map[string]interface{}{
		"caseId":  input.CaseID,
		"ready":   output.Ready,
		"missing": output.MissingAttributes,
		"invalid": output.InvalidAttributes,
	})
	return output, nil
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
