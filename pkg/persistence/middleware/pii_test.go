package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/adbpilot/pkg/adapters/memory"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{middleware.PhoneNumberPattern, `(?i)password=\S+`})
	require.NoError(t, err)
	secure := mw(underlying)

	ctx := context.Background()
	record := &domain.RunRecord{ID: "pii", Report: domain.PlanReport{Success: true, Results: []domain.StepResult{
		{Step: domain.ActionCall, Success: true, Output: "dialing +55 11 98888-7777", Reasoning: "call Ana"},
		{Step: domain.ActionType, Success: false, Error: "rejected password=hunter2"},
		{Step: domain.ActionWait, Success: true, Output: "Waited 500ms"},
	}}}

	require.NoError(t, secure.Save(ctx, record))

	// The caller's record is not modified.
	assert.Equal(t, "dialing +55 11 98888-7777", record.Report.Results[0].Output)

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, "dialing ***", stored.Report.Results[0].Output)
	assert.Equal(t, "call Ana", stored.Report.Results[0].Reasoning)
	assert.Equal(t, "rejected ***", stored.Report.Results[1].Error)
	assert.Equal(t, "Waited 500ms", stored.Report.Results[2].Output)
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{middleware.PhoneNumberPattern})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, pii, enc)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "r", Report: domain.PlanReport{Results: []domain.StepResult{
		{Step: domain.ActionCall, Success: true, Output: "tel:+5511988887777"},
	}}}))

	stored, err := underlying.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, middleware.EnvelopeStep, stored.Report.Results[0].Step)

	loaded, err := store.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, "tel:***", loaded.Report.Results[0].Output)
}
