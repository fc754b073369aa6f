// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/common/metrics"
	"oci-bom-generator/internal/common/observability"
	"oci-bom-generator/internal/models"
	generatedraft "oci-bom-generator/internal/workers/bom/generate-draft"
	renderworkbook "oci-bom-generator/internal/workers/bom/render-workbook"
	validatedraft "oci-bom-generator/internal/workers/bom/validate-draft"
	fetchcatalog "oci-bom-generator/internal/workers/catalog/fetch-catalog"
	matchservices "oci-bom-generator/internal/workers/catalog/match-services"
	analyzerequirements "oci-bom-generator/internal/workers/constraints/analyze-requirements"
	extractconstraints "oci-bom-generator/internal/workers/constraints/extract-constraints"
	translateintent "oci-bom-generator/internal/workers/constraints/translate-intent"
	savedprompts "oci-bom-generator/internal/workers/prompts/saved-prompts"
)

const (
	StageExtract   = "extract"
	StageTranslate = "translate"
	StageAnalyze   = "analyze"
	StageCatalog   = "catalog"
	StageMatch     = "match"
	StageGenerate  = "generate"
	StageValidate  = "validate"
	StageRender    = "render"
	StageSave      = "save"
)

// Stages holds one handler per pipeline step. Prompts may be nil.
type Stages struct {
	Extractor  *extractconstraints.Handler
	Translator *translateintent.Handler
	Analyzer   *analyzerequirements.Handler
	Catalog    *fetchcatalog.Handler
	Matcher    *matchservices.Handler
	Drafter    *generatedraft.Handler
	Validator  *validatedraft.Handler
	Renderer   *renderworkbook.Handler
	Prompts    *savedprompts.Handler
}

type Options struct {
	DefaultProvider string
	DefaultCurrency string
	AutoSave        bool
}

// Pipeline runs requirement text through every stage up to the workbook.
type Pipeline struct {
	stages  Stages
	options Options
	obs     *observability.Observability
	logger  logger.Logger
}

func New(stages Stages, options Options, obs *observability.Observability, log logger.Logger) *Pipeline {
	if options.DefaultCurrency == "" {
		options.DefaultCurrency = "USD"
	}
	return &Pipeline{
		stages:  stages,
		options: options,
		obs:     obs,
		logger:  log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

func (p *Pipeline) Stages() Stages {
	return p.stages
}

// Interpret runs the deterministic stages: extraction, translation and analysis.
func (p *Pipeline) Interpret(ctx context.Context, requirements string, answers map[string]string) Interpretation {
	text := analyzerequirements.ComposeText(requirements, answers)
	out := Interpretation{Text: text}

	_ = p.stage(ctx, StageExtract, func(ctx context.Context) error {
		res, err := p.stages.Extractor.Execute(ctx, &extractconstraints.Input{Text: text})
		if err != nil {
			return err
		}
		out.Constraints = res.Constraints
		return nil
	})
	_ = p.stage(ctx, StageTranslate, func(ctx context.Context) error {
		res, err := p.stages.Translator.Execute(ctx, &translateintent.Input{Text: text, Constraints: out.Constraints})
		if err != nil {
			return err
		}
		out.Intent, out.Summary = res.Intent, res.Summary
		return nil
	})
	_ = p.stage(ctx, StageAnalyze, func(ctx context.Context) error {
		res, err := p.stages.Analyzer.Execute(ctx, &analyzerequirements.Input{
			Text:            text,
			FollowUpAnswers: answers,
			Intent:          out.Intent,
		})
		if err != nil {
			return err
		}
		out.Analysis = res.Analysis
		return nil
	})
	return out
}

// Generate produces a validated BOM workbook, or follow-up questions when the
// requirements are too vague to match services.
func (p *Pipeline) Generate(ctx context.Context, req models.GenerateRequest) (result *Result, err error) {
	metrics.RequestsActive.Inc()
	defer metrics.RequestsActive.Dec()
	defer func() {
		outcome := "success"
		switch {
		case err != nil:
			outcome = string(apperrors.Normalize(err).Code)
		case result != nil && result.NeedsFollowUp:
			outcome = "follow_up"
		}
		metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	}()

	providerID := req.LLMProvider
	if providerID == "" {
		providerID = p.options.DefaultProvider
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = p.options.DefaultCurrency
	}
	log := p.logger.With(map[string]interface{}{"provider": providerID})

	interp := p.Interpret(ctx, req.Requirements, req.FollowUpAnswers)
	result = &Result{Interpretation: interp}
	if interp.Analysis.NeedsFollowUp {
		log.Info("follow-up questions needed", map[string]interface{}{
			"missing": interp.Analysis.Missing,
		})
		result.NeedsFollowUp = true
		result.Questions = interp.Analysis.Questions
		return result, nil
	}

	var services []models.CatalogService
	_ = p.stage(ctx, StageCatalog, func(ctx context.Context) error {
		res, err := p.stages.Catalog.Execute(ctx, &fetchcatalog.Input{})
		if err != nil {
			return err
		}
		services = res.Services
		return nil
	})

	_ = p.stage(ctx, StageMatch, func(ctx context.Context) error {
		res, err := p.stages.Matcher.Execute(ctx, &matchservices.Input{Services: services, Intent: interp.Intent})
		if err != nil {
			return err
		}
		result.Matched = res.Matched
		return nil
	})
	if len(result.Matched) == 0 {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "requirements", Message: "no catalog services match the requirements"},
		})
	}

	var draft *models.BOMDraft
	err = p.stage(ctx, StageGenerate, func(ctx context.Context) error {
		res, genErr := p.stages.Drafter.Execute(ctx, &generatedraft.Input{
			Intent:     interp.Intent,
			Matched:    result.Matched,
			Catalog:    services,
			ProviderID: providerID,
		})
		if genErr != nil {
			return genErr
		}
		draft = res.Draft
		return nil
	})
	if err != nil {
		log.Error("draft generation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	summary := interp.Summary
	draft.ComplianceSummary = &models.ComplianceSummary{
		Rejected:          []models.RejectedItem{},
		ConstraintSummary: &summary,
	}
	err = p.stage(ctx, StageValidate, func(ctx context.Context) error {
		res, valErr := p.stages.Validator.Execute(ctx, &validatedraft.Input{
			Draft:       draft,
			Constraints: interp.Constraints,
			Catalog:     services,
		})
		if valErr != nil {
			return valErr
		}
		result.Draft = res.Draft
		return nil
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	err = p.stage(ctx, StageRender, func(ctx context.Context) error {
		res, renderErr := p.stages.Renderer.Execute(ctx, &renderworkbook.Input{Draft: result.Draft, Currency: currency})
		if renderErr != nil {
			return renderErr
		}
		result.Workbook = res.Workbook
		return nil
	})
	if err != nil {
		log.Error("render failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if p.options.AutoSave && p.stages.Prompts != nil {
		result.SavedPromptID = p.autoSave(ctx, req, providerID)
	}

	log.Info("bom generated", map[string]interface{}{
		"items":    len(result.Draft.Items),
		"rejected": len(result.Draft.ComplianceSummary.Rejected),
		"filename": result.Workbook.Filename,
	})
	return result, nil
}

// autoSave stores the prompt. A failed save is logged and never fails the request.
func (p *Pipeline) autoSave(ctx context.Context, req models.GenerateRequest, providerID string) string {
	var id string
	err := p.stage(ctx, StageSave, func(ctx context.Context) error {
		saved, err := p.stages.Prompts.Create(ctx, savedprompts.CreateInput{
			Requirements:    req.Requirements,
			FollowUpAnswers: req.FollowUpAnswers,
			LLMProvider:     providerID,
		})
		if err != nil {
			return err
		}
		id = saved.ID
		return nil
	})
	if err != nil {
		p.logger.Warn("failed to auto-save prompt", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return id
}

// stage times fn, records it under name and wraps it in a span.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	start := time.Now()
	spanCtx, end := p.startSpan(ctx, name)
	err := fn(spanCtx)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	end(err)
	metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordStage(ctx, name, elapsed, status)
	}
	return err
}

func (p *Pipeline) startSpan(ctx context.Context, name string) (context.Context, func(error)) {
	if p.obs == nil {
		return ctx, func(error) {}
	}
	spanCtx, span := p.obs.StartSpan(ctx, "pipeline."+name, attribute.String("stage", name))
	return spanCtx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
