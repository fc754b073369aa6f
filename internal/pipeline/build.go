// internal/pipeline/build.go
package pipeline

import (
	"oci-bom-generator/internal/common/cache"
	"oci-bom-generator/internal/common/config"
	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/common/observability"
	"oci-bom-generator/internal/compliance"
	"oci-bom-generator/internal/taxonomy"
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

// Dependencies are the shared resources the stages are built on.
type Dependencies struct {
	Taxonomy  *taxonomy.Taxonomy
	Cache     cache.Cache
	Providers generatedraft.ProviderSource
	Prompts   *savedprompts.Handler
	Obs       *observability.Observability
}

// BuildStages creates every stage handler with settings taken from cfg.
func BuildStages(cfg *config.Config, deps Dependencies, log logger.Logger) Stages {
	tax := deps.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	engine := compliance.NewEngine(tax)

	catalogCfg := fetchcatalog.LoadConfig()
	catalogCfg.BaseURL = cfg.Catalog.BaseURL
	catalogCfg.Timeout = config.GetDuration(cfg.Catalog.Timeout)
	catalogCfg.CacheTTL = config.GetDuration(cfg.Catalog.CacheTTL)
	if cfg.Catalog.UserAgent != "" {
		catalogCfg.UserAgent = cfg.Catalog.UserAgent
	}

	matchCfg := matchservices.LoadConfig()
	matchCfg.MaxResults = cfg.Pipeline.MaxResults

	draftCfg := generatedraft.LoadConfig()
	draftCfg.CandidateCap = cfg.Pipeline.CandidateCap
	draftCfg.PromptTokenCeiling = cfg.Pipeline.PromptTokenCeiling
	draftCfg.CompletionTimeout = config.GetDuration(cfg.Pipeline.CompletionTimeout)

	return Stages{
		Extractor:  extractconstraints.NewHandler(extractconstraints.LoadConfig(), tax, ExtractLogger{log}),
		Translator: translateintent.NewHandler(translateintent.LoadConfig(), tax, TranslateLogger{log}),
		Analyzer:   analyzerequirements.NewHandler(analyzerequirements.LoadConfig(), AnalyzeLogger{log}),
		Catalog:    fetchcatalog.NewHandler(catalogCfg, tax, deps.Cache, CatalogLogger{log}),
		Matcher:    matchservices.NewHandler(matchCfg, tax, engine, MatchLogger{log}),
		Drafter:    generatedraft.NewHandler(draftCfg, deps.Providers, DraftLogger{log}),
		Validator:  validatedraft.NewHandler(engine, ValidateLogger{log}),
		Renderer:   renderworkbook.NewHandler(renderworkbook.LoadConfig(), RenderLogger{log}),
		Prompts:    deps.Prompts,
	}
}

// Build wires a ready pipeline from configuration.
func Build(cfg *config.Config, deps Dependencies, log logger.Logger) *Pipeline {
	return New(BuildStages(cfg, deps, log), Options{
		DefaultProvider: cfg.LLM.DefaultProvider,
		AutoSave:        cfg.SavedPrompts.AutoSave,
	}, deps.Obs, log)
}
