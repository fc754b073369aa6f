// internal/common/llm/gemini.go
package llm

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// Gemini wraps the official genai client. It is the only provider that reads attachments.
type Gemini struct {
	cli         *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewGemini(ctx context.Context, settings Settings) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: settings.Endpoint}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Gemini{
		cli:         cli,
		model:       settings.Model,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
	}, nil
}

func (g *Gemini) ID() string                { return "gemini" }
func (g *Gemini) SupportsAttachments() bool { return true }

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	for _, a := range req.Attachments {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: a.MIMEType, Data: a.Data}})
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(pickTemperature(req.Temperature, g.temperature))),
		MaxOutputTokens: int32(pickMaxTokens(req.MaxTokens, g.maxTokens)),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: gemini", ErrEmptyResponse)
	}
	return sb.String(), nil
}
