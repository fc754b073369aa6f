// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// ErrorHandler turns pipeline errors into HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Code    ErrorCode    `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch Normalize(err).Code {
	case ErrCodeValidationFailed, ErrCodeUnknownProvider, ErrCodeUnsupportedDocument:
		return http.StatusBadRequest
	case ErrCodePromptTooLarge, ErrCodeDocumentTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeCompletionServiceFailed:
		return http.StatusBadGateway
	case ErrCodeCompletionTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeProviderNotConfigured:
		return http.StatusServiceUnavailable
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ToResponse builds the client-facing body. Raw completion text and internal
// details never leave the server for parse and internal failures.
func ToResponse(err error) ErrorResponse {
	stdErr := Normalize(err)
	resp := ErrorResponse{
		Success: false,
		Error:   stdErr.Message,
		Code:    stdErr.Code,
	}

	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeUnknownProvider:
		resp.Error = "Validation failed"
		resp.Details = stdErr.FieldErrors
	case ErrCodeDraftParseFailed:
		resp.Message = "The model returned a response that could not be read as a bill of materials"
	case ErrCodeInternal, ErrCodeStorageFailed, ErrCodeRenderFailed:
		resp.Message = "An internal error occurred"
	default:
		resp.Message = stdErr.Details
	}
	return resp
}

// Handle logs err and writes the mapped response.
func (h *ErrorHandler) Handle(w http.ResponseWriter, requestID string, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr)

	fields := map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"status":        status,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if h.logger != nil {
		h.logger.Error("Request failed", fields)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ToResponse(stdErr))
}
