// internal/workers/bom/generate-draft/handler.go
package generatedraft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/llm"
	"oci-bom-generator/internal/common/metrics"
	"oci-bom-generator/internal/common/validation"
	"oci-bom-generator/internal/models"
)

const (
	TaskType = "generate-draft"
)

var (
	ErrPromptTooLarge = errors.New("PROMPT_TOO_LARGE")
	ErrMissingItems   = errors.New("MISSING_ITEMS")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// ProviderSource resolves a provider id to a ready completion service.
type ProviderSource interface {
	Get(ctx context.Context, id string) (llm.Provider, error)
}

type Handler struct {
	config    *Config
	providers ProviderSource
	logger    Logger
}

var draftSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"items"},
	"properties": map[string]interface{}{
		"items": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "object"},
		},
	},
})

func NewHandler(config *Config, providers ProviderSource, log Logger) *Handler {
	return &Handler{
		config:    config,
		providers: providers,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	draft, trace, err := h.Generate(ctx, input.Intent, input.Matched, input.Catalog, input.ProviderID)
	if err != nil {
		return &Output{Trace: trace}, err
	}
	return &Output{Draft: draft, Trace: trace}, nil
}

// GenerateDraft asks the provider for a draft built from the top candidates.
// Items naming any identifier in catalog get that entry's facts, whether or not
// the entry was offered to the model.
func (h *Handler) GenerateDraft(ctx context.Context, intent models.BusinessIntent, matched []models.MatchedService, catalog []models.CatalogService, providerID string) (*models.BOMDraft, error) {
	draft, _, err := h.Generate(ctx, intent, matched, catalog, providerID)
	return draft, err
}

// Generate is GenerateDraft plus the stage trace of the run.
func (h *Handler) Generate(ctx context.Context, intent models.BusinessIntent, matched []models.MatchedService, catalog []models.CatalogService, providerID string) (*models.BOMDraft, *Trace, error) {
	trace := newTrace()
	log := h.logger.With(map[string]interface{}{"provider": providerID})

	listed := candidates(matched, h.config.CandidateCap)
	prompt, err := BuildPrompt(intent, listed)
	if err != nil {
		trace.fail(err.Error())
		return nil, trace, apperrors.NewInternalError(err)
	}
	estimated := EstimateTokens(systemInstruction, prompt)
	if ceiling := h.config.PromptTokenCeiling; ceiling > 0 && estimated > ceiling {
		trace.fail(fmt.Sprintf("estimated %d tokens exceeds ceiling %d", estimated, ceiling))
		log.Warn("prompt too large", map[string]interface{}{
			"estimatedTokens": estimated,
			"ceiling":         ceiling,
		})
		return nil, trace, apperrors.NewPromptTooLargeError(estimated, ceiling, ErrPromptTooLarge)
	}
	trace.advance(StagePromptBuilt)

	provider, err := h.providers.Get(ctx, providerID)
	if err != nil {
		trace.fail(err.Error())
		return nil, trace, err
	}

	raw, err := h.complete(ctx, provider, prompt, trace)
	if err != nil {
		trace.fail(err.Error())
		log.Error("completion failed", map[string]interface{}{"error": err.Error()})
		return nil, trace, err
	}
	trace.advance(StageResponseReceived)

	doc, err := ParseDocument(raw)
	if err != nil {
		trace.fail(err.Error())
		log.Error("failed to parse draft", map[string]interface{}{
			"error":       err.Error(),
			"rawResponse": raw,
		})
		return nil, trace, apperrors.NewDraftParseError(raw, err)
	}
	trace.advance(StageParsed)

	items, dropped, err := shallowValidate(doc, listed, catalog)
	if err != nil {
		trace.fail(err.Error())
		log.Error("draft failed shallow validation", map[string]interface{}{
			"error":       err.Error(),
			"rawResponse": raw,
		})
		return nil, trace, apperrors.NewDraftParseError(raw, err)
	}
	trace.advance(StageValidated)

	log.Info("draft generated", map[string]interface{}{
		"candidates":      len(listed),
		"estimatedTokens": estimated,
		"items":           len(items),
		"dropped":         dropped,
	})
	return &models.BOMDraft{Items: items, Provider: providerID}, trace, nil
}

func (h *Handler) complete(ctx context.Context, provider llm.Provider, prompt string, trace *Trace) (string, error) {
	callCtx := ctx
	if h.config.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.config.CompletionTimeout)
		defer cancel()
	}

	trace.advance(StageServiceCalled)
	start := time.Now()
	raw, err := provider.Complete(callCtx, llm.Request{
		System:      systemInstruction,
		Prompt:      prompt,
		Temperature: llm.Temperature(h.config.Temperature),
		MaxTokens:   h.config.MaxTokens,
		JSON:        true,
	})
	metrics.StageDuration.WithLabelValues("completion").Observe(time.Since(start).Seconds())

	switch {
	case err == nil && strings.TrimSpace(raw) == "":
		err = llm.ErrEmptyResponse
	case err == nil:
		metrics.CompletionCalls.WithLabelValues(provider.ID(), "ok").Inc()
		return raw, nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		metrics.CompletionCalls.WithLabelValues(provider.ID(), "timeout").Inc()
		return "", apperrors.NewCompletionTimeoutError(provider.ID(), err)
	}
	metrics.CompletionCalls.WithLabelValues(provider.ID(), "error").Inc()
	return "", apperrors.NewCompletionServiceError(provider.ID(), err)
}

// shallowValidate requires an items array and keeps items that carry an
// identifier, a description and a quantity. A bare top-level array is read as
// the items array. Every item whose identifier is in catalog or listed is
// enriched from that entry.
func shallowValidate(doc interface{}, listed []models.MatchedService, catalog []models.CatalogService) ([]models.BOMLineItem, int, error) {
	if arr, ok := doc.([]interface{}); ok {
		doc = map[string]interface{}{"items": arr}
	}
	if fieldErrors := draftSchema.Validate(doc); len(fieldErrors) > 0 {
		return nil, 0, fmt.Errorf("%w: %s: %s", ErrMissingItems, fieldErrors[0].Field, fieldErrors[0].Message)
	}

	known := make(map[string]models.CatalogService, len(catalog)+len(listed))
	for _, svc := range catalog {
		known[strings.ToUpper(svc.Identifier)] = svc
	}
	for _, m := range listed {
		known[strings.ToUpper(m.Identifier)] = m.CatalogService
	}

	rawItems := doc.(map[string]interface{})["items"].([]interface{})
	items := make([]models.BOMLineItem, 0, len(rawItems))
	dropped := 0
	for _, r := range rawItems {
		item, ok := toLineItem(r.(map[string]interface{}))
		if !ok {
			dropped++
			continue
		}
		if svc, found := known[item.Identifier]; found {
			enrich(&item, svc)
		}
		items = append(items, item)
	}
	return items, dropped, nil
}

func toLineItem(raw map[string]interface{}) (models.BOMLineItem, bool) {
	id := strings.ToUpper(firstString(raw, "identifier", "partNumber", "sku"))
	desc := firstString(raw, "description", "displayName", "name")
	qty, hasQty := firstDecimal(raw, "quantity", "qty")
	if id == "" || desc == "" || !hasQty || qty.IsNegative() {
		return models.BOMLineItem{}, false
	}

	item := models.BOMLineItem{
		Identifier:  id,
		Description: desc,
		Quantity:    qty,
		BillingUnit: firstString(raw, "billingUnit", "metric", "metricName", "unit"),
		Category:    firstString(raw, "category", "serviceCategory"),
		Notes:       firstString(raw, "notes", "note"),
	}
	if price, ok := firstDecimal(raw, "unitPrice", "price"); ok {
		item.UnitPrice = price
	}
	return item, true
}

// enrich fills catalog facts the model may omit. The catalog price is authoritative.
func enrich(item *models.BOMLineItem, svc models.CatalogService) {
	item.SKUType = svc.SKUType
	item.UnitPrice = svc.Pricing.UnitPrice
	if item.Category == "" {
		item.Category = svc.Category
	}
	if item.BillingUnit == "" {
		item.BillingUnit = svc.Pricing.BillingUnit
	}
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func firstDecimal(raw map[string]interface{}, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				return d, true
			}
		case float64:
			return decimal.NewFromFloat(v), true
		case string:
			cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
			if d, err := decimal.NewFromString(cleaned); err == nil {
				return d, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
