// internal/common/llm/openai_compat.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httpclient "oci-bom-generator/internal/common/http"
)

// OpenAICompatible speaks the chat-completions protocol shared by OpenAI, xAI and DeepSeek.
type OpenAICompatible struct {
	id          string
	http        *httpclient.Client
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
}

func NewOpenAICompatible(id string, http *httpclient.Client, settings Settings) *OpenAICompatible {
	return &OpenAICompatible{
		id:          id,
		http:        http,
		apiKey:      settings.APIKey,
		model:       settings.Model,
		endpoint:    settings.Endpoint,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
	}
}

func (c *OpenAICompatible) ID() string { return c.id }

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAICompatible) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Attachments) > 0 {
		return "", fmt.Errorf("%w: %s", ErrAttachmentsRejected, c.id)
	}

	body := chatRequest{
		Model:       c.model,
		Temperature: pickTemperature(req.Temperature, c.temperature),
		MaxTokens:   pickMaxTokens(req.MaxTokens, c.maxTokens),
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSON && c.id == "openai" {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	data, err := c.http.PostJSON(ctx, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.id, err)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.id, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyResponse, c.id)
	}
	return out.Choices[0].Message.Content, nil
}

func pickTemperature(req *float64, def float64) float64 {
	if req != nil {
		return *req
	}
	return def
}

func pickMaxTokens(req, def int) int {
	if req > 0 {
		return req
	}
	return def
}
