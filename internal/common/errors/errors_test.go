package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	entries []map[string]interface{}
}

func (c *captureLogger) Error(msg string, fields map[string]interface{}) {
	c.entries = append(c.entries, fields)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError([]FieldError{{Field: "requirements", Message: "too short"}}), http.StatusBadRequest},
		{"unknown provider", NewUnknownProviderError("llama"), http.StatusBadRequest},
		{"prompt too large", NewPromptTooLargeError(200000, 150000, nil), http.StatusRequestEntityTooLarge},
		{"completion failure", NewCompletionServiceError("openai", stderrors.New("503 upstream")), http.StatusBadGateway},
		{"completion timeout", NewCompletionTimeoutError("openai", stderrors.New("deadline")), http.StatusGatewayTimeout},
		{"draft parse", NewDraftParseError("not json", nil), http.StatusInternalServerError},
		{"not found", NewNotFoundError("saved prompt", "x"), http.StatusNotFound},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped standard error", fmt.Errorf("stage: %w", NewPromptTooLargeError(1, 0, nil)), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestToResponse_ValidationCarriesFieldDetails(t *testing.T) {
	resp := ToResponse(NewValidationError([]FieldError{
		{Field: "requirements", Message: "must be at least 10 characters"},
		{Field: "currency", Message: "must be one of USD, EUR, GBP, JPY, CAD, AUD"},
	}))

	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Error)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "requirements", resp.Details[0].Field)
}

func TestToResponse_DraftParseHidesRawText(t *testing.T) {
	raw := "```json {broken: ```"
	resp := ToResponse(NewDraftParseError(raw, stderrors.New("unexpected end of input")))

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "broken")
	assert.Equal(t, ErrCodeDraftParseFailed, resp.Code)
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	sentinel := stderrors.New("COMPLETION_FAILED")
	err := NewCompletionServiceError("claude", fmt.Errorf("%w: status 500", sentinel))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.Contains(t, err.Error(), "COMPLETION_SERVICE_FAILED")
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &captureLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()

	h.Handle(rec, "req-1", NewDraftParseError("raw body", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "raw body")

	require.Len(t, log.entries, 1)
	assert.Equal(t, "req-1", log.entries[0]["requestId"])
	assert.Equal(t, "raw body", log.entries[0]["rawResponse"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "LLM", GetErrorCategory(ErrCodePromptTooLarge))
	assert.Equal(t, "BOM", GetErrorCategory(ErrCodeDraftParseFailed))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCatalogUnavailable))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeCompletionTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationFailed))
}
