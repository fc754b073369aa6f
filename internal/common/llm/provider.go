// internal/common/llm/provider.go
package llm

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse       = errors.New("EMPTY_COMPLETION")
	ErrAttachmentsRejected = errors.New("ATTACHMENTS_NOT_SUPPORTED")
)

// Attachment is binary input such as a PDF page or an image.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request is one completion call. System carries the rules, Prompt the task.
// A nil Temperature uses the provider's configured default.
type Request struct {
	System      string
	Prompt      string
	Temperature *float64
	MaxTokens   int
	JSON        bool
	Attachments []Attachment
}

// Temperature returns a request temperature. Zero asks for deterministic output.
func Temperature(v float64) *float64 {
	return &v
}

// Provider is a completion service the pipeline can call.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Multimodal providers accept Attachments.
type Multimodal interface {
	Provider
	SupportsAttachments() bool
}

// SupportsAttachments reports whether p can read binary attachments.
func SupportsAttachments(p Provider) bool {
	m, ok := p.(Multimodal)
	return ok && m.SupportsAttachments()
}
