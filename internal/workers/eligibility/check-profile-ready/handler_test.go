// internal/workers/eligibility/check-profile-ready/handler_test.go
package checkprofileready

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "loanflow-workers/internal/common/errors"
	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
	"loanflow-workers/internal/profile"
)

type fakeProfiles struct {
	profile *models.BorrowerProfile
	err     error
}

func (f *fakeProfiles) Get(_ context.Context, _ string) (*models.BorrowerProfile, error) {
	return f.profile, f.err
}

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func completeProfile() *models.BorrowerProfile {
	return &models.BorrowerProfile{
		CaseID:              "case-001",
		Name:                "Sharma Traders",
		PAN:                 "ABCDE1234F",
		Pincode:             sptr("560001"),
		EntityCategory:      sptr("proprietorship"),
		YearsInOperation:    fptr(6.0),
		AnnualTurnover:      fptr(9000000),
		MonthlyTurnover:     fptr(750000),
		AvgBankBalance:      fptr(250000),
		BouncedPayments:     iptr(0),
		BankStatementMonths: iptr(12),
		CreditScore:         iptr(780),
		RequestedAmount:     fptr(1000000),
	}
}

func TestHandler_Execute_ReadyProfile(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeProfiles{profile: completeProfile()}, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{CaseID: "case-001"})
	require.NoError(t, err)

	assert.True(t, output.Ready)
	assert.True(t, output.ProfileFound)
	assert.Empty(t, output.MissingAttributes)
	assert.Empty(t, output.InvalidAttributes)
}

func TestHandler_Execute_MissingRequiredAttributes(t *testing.T) {
	p := completeProfile()
	p.CreditScore = nil
	p.RequestedAmount = nil
	h := NewHandler(LoadConfig(), &fakeProfiles{profile: p}, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{CaseID: "case-001"})
	require.NoError(t, err)

	assert.False(t, output.Ready)
	assert.ElementsMatch(t, []string{"creditScore", "requestedAmount"}, output.MissingAttributes)
}

func TestHandler_Execute_OptionalAttributesDoNotBlock(t *testing.T) {
	p := completeProfile()
	p.BouncedPayments = nil
	p.BankStatementMonths = nil
	p.EntityCategory = nil
	h := NewHandler(LoadConfig(), &fakeProfiles{profile: p}, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{CaseID: "case-001"})
	require.NoError(t, err)

	assert.True(t, output.Ready, "only the configured required set gates readiness")
}

func TestHandler_Execute_MalformedIdentityFields(t *testing.T) {
	p := completeProfile()
	p.PAN = "not-a-pan"
	p.Pincode = sptr("12")
	h := NewHandler(LoadConfig(), &fakeProfiles{profile: p}, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{CaseID: "case-001"})
	require.NoError(t, err)

	assert.False(t, output.Ready)
	assert.ElementsMatch(t, []string{"pan", "pincode"}, output.InvalidAttributes)
}

func TestHandler_Execute_ProfileMissingIsGateOutcome(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeProfiles{err: profile.ErrProfileNotFound}, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{CaseID: "unknown"})
	require.NoError(t, err)

	assert.False(t, output.Ready)
	assert.False(t, output.ProfileFound)
}

func TestHandler_ParseInput(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeProfiles{}, logger.NewNoOpLogger())

	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{"valid input", `{"caseId":"case-001"}`, false},
		{"extra variables tolerated", `{"caseId":"case-001","applicationId":"app-9","amount":500000}`, false},
		{"missing caseId", `{"applicationId":"app-9"}`, true},
		{"empty caseId", `{"caseId":""}`, true},
		{"non-string caseId", `{"caseId":42}`, true},
		{"malformed json", `{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.ParseInput(tt.variables)
			if tt.wantErr {
				require.Error(t, err)
				var stdErr *cerrors.StandardError
				require.ErrorAs(t, err, &stdErr)
				assert.Equal(t, cerrors.ErrCodeInvalidInput, stdErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "case-001", input.CaseID)
		})
	}
}

func TestHandler_Execute_FetchFailureIsRetryable(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeProfiles{err: errors.New("timeout")}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{CaseID: "case-001"})
	require.Error(t, err)

	var stdErr *cerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, cerrors.ErrCodeProfileFetchFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
