// internal/workers/bom/generate-draft/handler_test.go
package generatedraft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/llm"
	"oci-bom-generator/internal/models"
)

// ==========================
// Test Logger Implementation
// ==========================

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger       { return l }

// ==========================
// Fake Providers
// ==========================

type fakeProvider struct {
	id       string
	response string
	err      error
	block    bool

	mu       sync.Mutex
	requests []llm.Request
}

func (p *fakeProvider) ID() string { return p.id }

func (p *fakeProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.response, p.err
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

type fakeSource map[string]llm.Provider

func (s fakeSource) Get(_ context.Context, id string) (llm.Provider, error) {
	p, ok := s[id]
	if !ok {
		return nil, apperrors.NewUnknownProviderError(id)
	}
	return p, nil
}

func matchedService(id, name, category, skuType, price, unit string) models.MatchedService {
	return models.MatchedService{
		CatalogService: models.CatalogService{
			Identifier:  id,
			DisplayName: name,
			Category:    category,
			SKUType:     skuType,
			Pricing: models.Pricing{
				Currency:    "USD",
				UnitPrice:   decimal.RequireFromString(price),
				BillingUnit: unit,
				MetricName:  unit,
			},
		},
		MatchScore: 0.5,
	}
}

func sampleMatched() []models.MatchedService {
	return []models.MatchedService{
		matchedService("B88317", "Compute - Standard - E4 - OCPU", "Compute", "OCPU", "0.025", "HOUR"),
		matchedService("B88514", "Block Volume Storage", "Storage", "BLOCK_STORAGE", "0.0255", "GB_MONTH"),
		matchedService("B89728", "Base Database Service - Standard", "Database", "DATABASE_LI", "0.2151", "HOUR"),
	}
}

func sampleIntent() models.BusinessIntent {
	return models.BusinessIntent{
		Categories:     []string{"compute", "database", "storage"},
		TierPreference: models.TierStandard,
		UserCount:      500,
		Constraints: models.ConstraintSet{
			Exclusions: []models.KeywordConstraint{{RawPhrase: "no exadata", Keywords: []string{"exadata"}}},
		},
	}
}

func createTestHandler(t *testing.T, cfg *Config, providers ...llm.Provider) *Handler {
	if cfg == nil {
		cfg = LoadConfig()
	}
	src := fakeSource{}
	for _, p := range providers {
		src[p.ID()] = p
	}
	return NewHandler(cfg, src, &testLogger{t: t})
}

// ==========================
// Generate
// ==========================

func TestHandler_Generate(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		expectError    bool
		expectCode     apperrors.ErrorCode
		validateOutput func(t *testing.T, draft *models.BOMDraft, trace *Trace)
	}{
		{
			name: "fenced response with aliased fields",
			response: "Here is your BOM:\n```json\n" + `{"items":[
				{"partNumber":"b88317","displayName":"Compute E4","quantity":4,"metric":"OCPU Per Hour","unitPrice":0.99,"notes":"2 servers x 2 OCPUs"},
				{"sku":"B88514","description":"Block Volume","quantity":"200","category":"Storage"},
			]}` + "\n```\nLet me know if you need changes.",
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				require.Len(t, draft.Items, 2)

				compute := draft.Items[0]
				assert.Equal(t, "B88317", compute.Identifier)
				assert.Equal(t, "Compute E4", compute.Description)
				assert.True(t, compute.Quantity.Equal(decimal.NewFromInt(4)))
				assert.Equal(t, "OCPU Per Hour", compute.BillingUnit)
				assert.Equal(t, "OCPU", compute.SKUType)
				assert.Equal(t, "Compute", compute.Category)
				assert.True(t, compute.UnitPrice.Equal(decimal.RequireFromString("0.025")), "catalog price wins")
				assert.Equal(t, "2 servers x 2 OCPUs", compute.Notes)

				storage := draft.Items[1]
				assert.True(t, storage.Quantity.Equal(decimal.NewFromInt(200)))
				assert.Equal(t, "GB_MONTH", storage.BillingUnit)
				assert.Equal(t, "BLOCK_STORAGE", storage.SKUType)

				assert.Equal(t, []Stage{StageNotStarted, StagePromptBuilt, StageServiceCalled,
					StageResponseReceived, StageParsed, StageValidated}, trace.Stages)
			},
		},
		{
			name:     "items missing required fields are dropped",
			response: `{"items":[{"partNumber":"B88317","description":"Compute","quantity":2},{"partNumber":"B88514","description":"Block"},{"description":"No id","quantity":1},{"partNumber":"B89728","quantity":1}]}`,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				require.Len(t, draft.Items, 1)
				assert.Equal(t, "B88317", draft.Items[0].Identifier)
			},
		},
		{
			name:     "unlisted identifier is kept without enrichment",
			response: `{"items":[{"partNumber":"B99999","description":"Exadata Cloud","quantity":1,"unitPrice":"$1.50","category":"Database"}]}`,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				require.Len(t, draft.Items, 1)
				assert.Empty(t, draft.Items[0].SKUType)
				assert.True(t, draft.Items[0].UnitPrice.Equal(decimal.RequireFromString("1.50")))
			},
		},
		{
			name:     "top-level array is read as items",
			response: `[{"partNumber":"B88317","description":"Compute","quantity":1}]`,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				assert.Len(t, draft.Items, 1)
			},
		},
		{
			name:     "empty items is a valid draft",
			response: `{"items":[]}`,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				assert.Empty(t, draft.Items)
				assert.Equal(t, StageValidated, trace.Current())
			},
		},
		{
			name:        "missing items collection",
			response:    `{"services":[{"partNumber":"B88317"}]}`,
			expectError: true,
			expectCode:  apperrors.ErrCodeDraftParseFailed,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				assert.Equal(t, StageFailed, trace.Current())
				assert.Contains(t, trace.Stages, StageParsed)
				assert.NotContains(t, trace.Stages, StageValidated)
			},
		},
		{
			name:        "prose without json",
			response:    "I cannot help with that request.",
			expectError: true,
			expectCode:  apperrors.ErrCodeDraftParseFailed,
			validateOutput: func(t *testing.T, draft *models.BOMDraft, trace *Trace) {
				assert.NotContains(t, trace.Stages, StageParsed)
				assert.Contains(t, trace.Reason, "NO_JSON_FOUND")
			},
		},
		{
			name:        "empty completion",
			response:    "   ",
			expectError: true,
			expectCode:  apperrors.ErrCodeCompletionServiceFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{id: "openai", response: tt.response}
			h := createTestHandler(t, nil, provider)

			draft, trace, err := h.Generate(context.Background(), sampleIntent(), sampleMatched(), nil, "openai")

			require.NotNil(t, trace)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, draft)
				assert.Equal(t, tt.expectCode, apperrors.Normalize(err).Code)
			} else {
				require.NoError(t, err)
				require.NotNil(t, draft)
				assert.Equal(t, "openai", draft.Provider)
			}
			if tt.validateOutput != nil {
				tt.validateOutput(t, draft, trace)
			}
		})
	}
}

func TestHandler_Generate_ParseErrorKeepsRawText(t *testing.T) {
	raw := `{"items": [ {"partNumber": "B88317", "description": }`
	provider := &fakeProvider{id: "claude", response: raw}
	h := createTestHandler(t, nil, provider)

	_, err := h.GenerateDraft(context.Background(), sampleIntent(), sampleMatched(), nil, "claude")
	require.Error(t, err)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeDraftParseFailed, stdErr.Code)
	assert.Equal(t, raw, stdErr.Metadata["rawResponse"])
	assert.NotContains(t, apperrors.ToResponse(err).Message, "B88317")
}

func TestHandler_Generate_PromptTooLarge(t *testing.T) {
	cfg := LoadConfig()
	cfg.PromptTokenCeiling = 50
	provider := &fakeProvider{id: "openai", response: `{"items":[]}`}
	h := createTestHandler(t, cfg, provider)

	_, trace, err := h.Generate(context.Background(), sampleIntent(), sampleMatched(), nil, "openai")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPromptTooLarge))
	assert.Equal(t, apperrors.ErrCodePromptTooLarge, apperrors.Normalize(err).Code)
	assert.Equal(t, []Stage{StageNotStarted, StageFailed}, trace.Stages)
	assert.Zero(t, provider.calls(), "provider must not be called")
}

func TestHandler_Generate_Timeout(t *testing.T) {
	cfg := LoadConfig()
	cfg.CompletionTimeout = 20 * time.Millisecond
	provider := &fakeProvider{id: "gemini", block: true}
	h := createTestHandler(t, cfg, provider)

	start := time.Now()
	_, trace, err := h.Generate(context.Background(), sampleIntent(), sampleMatched(), nil, "gemini")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, apperrors.ErrCodeCompletionTimeout, apperrors.Normalize(err).Code)
	assert.Equal(t, []Stage{StageNotStarted, StagePromptBuilt, StageServiceCalled, StageFailed}, trace.Stages)
	assert.Equal(t, 1, provider.calls(), "no automatic retry")
}

func TestHandler_Generate_ProviderErrors(t *testing.T) {
	t.Run("upstream failure", func(t *testing.T) {
		provider := &fakeProvider{id: "grok", err: errors.New("unexpected status 500")}
		h := createTestHandler(t, nil, provider)

		_, err := h.GenerateDraft(context.Background(), sampleIntent(), sampleMatched(), nil, "grok")
		require.Error(t, err)
		stdErr := apperrors.Normalize(err)
		assert.Equal(t, apperrors.ErrCodeCompletionServiceFailed, stdErr.Code)
		assert.Contains(t, stdErr.Details, "unexpected status 500")
		assert.Equal(t, 1, provider.calls())
	})

	t.Run("unknown provider", func(t *testing.T) {
		h := createTestHandler(t, nil)

		_, err := h.GenerateDraft(context.Background(), sampleIntent(), sampleMatched(), nil, "mystery")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeUnknownProvider, apperrors.Normalize(err).Code)
	})
}

func TestHandler_Generate_PromptContents(t *testing.T) {
	matched := make([]models.MatchedService, 0, 20)
	for i := 0; i < 20; i++ {
		matched = append(matched, matchedService(fmt.Sprintf("B9%04d", i), fmt.Sprintf("Service %d", i), "Compute", "OCPU", "0.01", "HOUR"))
	}
	provider := &fakeProvider{id: "openai", response: `{"items":[]}`}
	h := createTestHandler(t, nil, provider)

	_, err := h.GenerateDraft(context.Background(), sampleIntent(), matched, nil, "openai")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls())

	req := provider.requests[0]
	assert.True(t, req.JSON)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.2, *req.Temperature, 1e-9)
	assert.Contains(t, req.System, "Never multiply hourly quantities by hours")
	assert.Contains(t, req.System, "Use only the part numbers listed")
	assert.Contains(t, req.Prompt, "Available OCI Services (15 services)")
	assert.Contains(t, req.Prompt, "B90014")
	assert.NotContains(t, req.Prompt, "B90015")
	assert.Contains(t, req.Prompt, `"exclusions":["no exadata"]`)
	assert.Contains(t, req.Prompt, `"userCount":500`)
}

func TestHandler_Execute(t *testing.T) {
	provider := &fakeProvider{id: "deepseek", response: `{"items":[{"partNumber":"B89728","description":"Base DB","quantity":2}]}`}
	h := createTestHandler(t, nil, provider)

	out, err := h.Execute(context.Background(), &Input{
		Intent:     sampleIntent(),
		Matched:    sampleMatched(),
		ProviderID: "deepseek",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Draft)
	assert.Len(t, out.Draft.Items, 1)
	assert.Equal(t, "DATABASE_LI", out.Draft.Items[0].SKUType)
	assert.Equal(t, StageValidated, out.Trace.Current())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens())
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 2, EstimateTokens("abcd", "e"))
	assert.Equal(t, 250, EstimateTokens(strings.Repeat("x", 1000)))
}
