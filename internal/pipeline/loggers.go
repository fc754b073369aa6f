// internal/pipeline/loggers.go
package pipeline

import (
	"oci-bom-generator/internal/common/logger"
	generatedraft "oci-bom-generator/internal/workers/bom/generate-draft"
	renderworkbook "oci-bom-generator/internal/workers/bom/render-workbook"
	validatedraft "oci-bom-generator/internal/workers/bom/validate-draft"
	fetchcatalog "oci-bom-generator/internal/workers/catalog/fetch-catalog"
	matchservices "oci-bom-generator/internal/workers/catalog/match-services"
	analyzerequirements "oci-bom-generator/internal/workers/constraints/analyze-requirements"
	extractconstraints "oci-bom-generator/internal/workers/constraints/extract-constraints"
	translateintent "oci-bom-generator/internal/workers/constraints/translate-intent"
	parsedocument "oci-bom-generator/internal/workers/documents/parse-document"
	savedprompts "oci-bom-generator/internal/workers/prompts/saved-prompts"
)

// Logger adapters for stages that declare their own Logger interfaces.

type ExtractLogger struct{ logger.Logger }

func (a ExtractLogger) With(fields map[string]interface{}) extractconstraints.Logger {
	return ExtractLogger{a.Logger.With(fields)}
}

type TranslateLogger struct{ logger.Logger }

func (a TranslateLogger) With(fields map[string]interface{}) translateintent.Logger {
	return TranslateLogger{a.Logger.With(fields)}
}

type AnalyzeLogger struct{ logger.Logger }

func (a AnalyzeLogger) With(fields map[string]interface{}) analyzerequirements.Logger {
	return AnalyzeLogger{a.Logger.With(fields)}
}

type CatalogLogger struct{ logger.Logger }

func (a CatalogLogger) With(fields map[string]interface{}) fetchcatalog.Logger {
	return CatalogLogger{a.Logger.With(fields)}
}

type MatchLogger struct{ logger.Logger }

func (a MatchLogger) With(fields map[string]interface{}) matchservices.Logger {
	return MatchLogger{a.Logger.With(fields)}
}

type DraftLogger struct{ logger.Logger }

func (a DraftLogger) With(fields map[string]interface{}) generatedraft.Logger {
	return DraftLogger{a.Logger.With(fields)}
}

type ValidateLogger struct{ logger.Logger }

func (a ValidateLogger) With(fields map[string]interface{}) validatedraft.Logger {
	return ValidateLogger{a.Logger.With(fields)}
}

type RenderLogger struct{ logger.Logger }

func (a RenderLogger) With(fields map[string]interface{}) renderworkbook.Logger {
	return RenderLogger{a.Logger.With(fields)}
}

type DocumentLogger struct{ logger.Logger }

func (a DocumentLogger) With(fields map[string]interface{}) parsedocument.Logger {
	return DocumentLogger{a.Logger.With(fields)}
}

type PromptsLogger struct{ logger.Logger }

func (a PromptsLogger) With(fields map[string]interface{}) savedprompts.Logger {
	return PromptsLogger{a.Logger.With(fields)}
}
