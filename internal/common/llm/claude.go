// internal/common/llm/claude.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httpclient "oci-bom-generator/internal/common/http"
)

const anthropicVersion = "2023-06-01"

// Claude calls the Anthropic messages API.
type Claude struct {
	http        *httpclient.Client
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
}

func NewClaude(http *httpclient.Client, settings Settings) *Claude {
	return &Claude{
		http:        http,
		apiKey:      settings.APIKey,
		model:       settings.Model,
		endpoint:    settings.Endpoint,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
	}
}

func (c *Claude) ID() string { return "claude" }

type messagesRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Claude) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Attachments) > 0 {
		return "", fmt.Errorf("%w: claude", ErrAttachmentsRejected)
	}

	body := messagesRequest{
		Model:       c.model,
		System:      req.System,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   pickMaxTokens(req.MaxTokens, c.maxTokens),
		Temperature: pickTemperature(req.Temperature, c.temperature),
	}

	data, err := c.http.PostJSON(ctx, c.endpoint, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}, body)
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}

	var out messagesResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("claude: decode response: %w", err)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: claude", ErrEmptyResponse)
	}
	return sb.String(), nil
}
