// internal/workers/documents/parse-document/handler.go
package parsedocument

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/llm"
	"oci-bom-generator/internal/common/validation"
)

const (
	TaskType = "parse-document"
)

var ErrEmptyDocument = errors.New("EMPTY_DOCUMENT")

const visionInstruction = "Extract all text content from this document. Preserve the structure " +
	"including tables, lists and headings. Return only the extracted text without commentary."

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// ProviderSource resolves the provider used to read PDFs and images.
type ProviderSource interface {
	Get(ctx context.Context, id string) (llm.Provider, error)
}

type Handler struct {
	config    *Config
	providers ProviderSource
	logger    Logger
}

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
	if input == nil || len(input.Data) == 0 {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "document", Message: "no file uploaded"},
		})
	}
	if size := int64(len(input.Data)); size > h.config.MaxBytes {
		return nil, apperrors.NewDocumentTooLargeError(size, h.config.MaxBytes)
	}

	ext := strings.ToLower(filepath.Ext(input.Filename))
	kind, ok := extensions[ext]
	if !ok {
		return nil, apperrors.NewUnsupportedDocumentError(
			fmt.Sprintf("file type %q is not supported", ext))
	}

	content, err := h.extract(ctx, kind, ext, input.Data)
	if err != nil {
		h.logger.Warn("document extraction failed", map[string]interface{}{
			"filename": input.Filename,
			"error":    err.Error(),
		})
		var appErr *apperrors.StandardError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.NewUnsupportedDocumentError(err.Error())
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "document", Message: ErrEmptyDocument.Error()},
		})
	}

	out := &Output{Filename: input.Filename, DocumentType: kind}
	if runes := []rune(content); len(runes) > h.config.MaxChars {
		content = string(runes[:h.config.MaxChars])
		out.Truncated = true
	}
	if validation.Suspicious(content) {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "document", Message: "document contains disallowed content"},
		})
	}
	out.Content = content

	h.logger.Info("document parsed", map[string]interface{}{
		"filename":     input.Filename,
		"documentType": kind,
		"characters":   len([]rune(content)),
		"truncated":    out.Truncated,
	})
	return out, nil
}

func (h *Handler) extract(ctx context.Context, kind DocumentType, ext string, data []byte) (string, error) {
	switch kind {
	case DocumentText:
		return extractText(data), nil
	case DocumentExcel:
		return extractExcel(data)
	case DocumentWord:
		return extractWord(data, h.config.MaxChars)
	case DocumentPDF:
		return h.readWithVision(ctx, llm.Attachment{MIMEType: "application/pdf", Data: data})
	case DocumentImage:
		return h.readWithVision(ctx, llm.Attachment{MIMEType: imageMIME[ext], Data: data})
	}
	return "", fmt.Errorf("no extractor for %s", kind)
}

func (h *Handler) readWithVision(ctx context.Context, att llm.Attachment) (string, error) {
	if h.providers == nil {
		return "", apperrors.NewUnsupportedDocumentError("no multimodal provider available for " + att.MIMEType)
	}
	p, err := h.providers.Get(ctx, h.config.VisionProvider)
	if err != nil {
		return "", apperrors.NewUnsupportedDocumentError(
			fmt.Sprintf("%s requires provider %q: %v", att.MIMEType, h.config.VisionProvider, err))
	}
	if !llm.SupportsAttachments(p) {
		return "", apperrors.NewUnsupportedDocumentError(
			fmt.Sprintf("provider %q cannot read %s", p.ID(), att.MIMEType))
	}
	text, err := p.Complete(ctx, llm.Request{
		Prompt:      visionInstruction,
		Temperature: llm.Temperature(0),
		Attachments: []llm.Attachment{att},
	})
	if err != nil {
		return "", apperrors.NewCompletionServiceError(p.ID(), err)
	}
	return text, nil
}

// Parse turns an uploaded file into requirements text.
func (h *Handler) Parse(ctx context.Context, filename string, data []byte) (*Output, error) {
	return h.execute(ctx, &Input{Filename: filename, Data: data})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
