// Package errors provides the error taxonomy shared by the BOM pipeline and its HTTP surface.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownProvider     ErrorCode = "UNKNOWN_PROVIDER"
	ErrCodeUnsupportedDocument ErrorCode = "UNSUPPORTED_DOCUMENT"
	ErrCodeDocumentTooLarge    ErrorCode = "DOCUMENT_TOO_LARGE"

	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"

	ErrCodePromptTooLarge          ErrorCode = "PROMPT_TOO_LARGE"
	ErrCodeCompletionServiceFailed ErrorCode = "COMPLETION_SERVICE_FAILED"
	ErrCodeCompletionTimeout       ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeProviderNotConfigured   ErrorCode = "PROVIDER_NOT_CONFIGURED"
	ErrCodeDraftParseFailed        ErrorCode = "DRAFT_PARSE_FAILED"
	ErrCodeRenderFailed            ErrorCode = "RENDER_FAILED"

	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// FieldError is one failed field check from request validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Retryable   bool                   `json:"retryable"`
	FieldErrors []FieldError           `json:"fieldErrors,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Cause       error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(fields []FieldError) *StandardError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return &StandardError{
		Code:        ErrCodeValidationFailed,
		Message:     "Validation failed",
		Details:     strings.Join(parts, "; "),
		FieldErrors: fields,
		Timestamp:   time.Now().UTC(),
	}
}

// NewUnknownProviderError reports a provider id outside the registry.
func NewUnknownProviderError(providerID string) *StandardError {
	return &StandardError{
		Code:    ErrCodeUnknownProvider,
		Message: "Validation failed",
		Details: fmt.Sprintf("unknown llm provider %q", providerID),
		FieldErrors: []FieldError{{
			Field:   "llmProvider",
			Message: fmt.Sprintf("unknown provider %q", providerID),
		}},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedDocumentError reports an upload that cannot be turned into text.
func NewUnsupportedDocumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedDocument,
		Message:   "Unsupported document",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewDocumentTooLargeError(size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentTooLarge,
		Message:   "Document too large",
		Details:   fmt.Sprintf("size %d exceeds limit %d bytes", size, limit),
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError is internal only; the catalog provider converts it to a fallback.
func NewCatalogUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Service catalog unavailable",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewPromptTooLargeError reports an estimated prompt size above the ceiling.
func NewPromptTooLargeError(estimated, ceiling int, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodePromptTooLarge,
		Message:   "Prompt too large",
		Details:   fmt.Sprintf("estimated %d tokens exceeds ceiling of %d", estimated, ceiling),
		Metadata:  map[string]interface{}{"estimatedTokens": estimated, "ceiling": ceiling},
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewCompletionServiceError wraps a failure reported by an LLM provider.
func NewCompletionServiceError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionServiceFailed,
		Message:   fmt.Sprintf("Completion service '%s' error", provider),
		Details:   errDetails(err),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewCompletionTimeoutError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionTimeout,
		Message:   fmt.Sprintf("Completion service '%s' timeout", provider),
		Details:   errDetails(err),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewProviderNotConfiguredError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderNotConfigured,
		Message:   fmt.Sprintf("Completion service '%s' is not configured", provider),
		Details:   "missing api key",
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftParseError keeps the raw completion text in metadata for logging only.
func NewDraftParseError(raw string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftParseFailed,
		Message:   "Failed to parse the generated bill of materials",
		Details:   errDetails(cause),
		Metadata:  map[string]interface{}{"rawResponse": raw},
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

func NewRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Failed to render the workbook",
		Details:   errDetails(err),
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

func NewStorageError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   fmt.Sprintf("Storage operation '%s' failed", operation),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   errDetails(err),
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether a caller may retry after this code.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeCompletionServiceFailed,
		ErrCodeCompletionTimeout,
		ErrCodeStorageFailed,
		ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UNKNOWN") || strings.Contains(codeStr, "DOCUMENT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "COMPLETION") || strings.Contains(codeStr, "PROMPT") || strings.Contains(codeStr, "PROVIDER"):
		return "LLM"
	case strings.Contains(codeStr, "DRAFT") || strings.Contains(codeStr, "RENDER"):
		return "BOM"
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "NOT_FOUND"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
