// internal/common/llm/provider_test.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oci-bom-generator/internal/common/config"
	apperrors "oci-bom-generator/internal/common/errors"
	httpclient "oci-bom-generator/internal/common/http"
	"oci-bom-generator/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestOpenAICompatible_Complete(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		response       string
		expectError    bool
		validateOutput func(t *testing.T, out string, err error)
	}{
		{
			name:     "returns first choice",
			status:   http.StatusOK,
			response: `{"choices":[{"message":{"content":"{\"items\":[]}"}}]}`,
			validateOutput: func(t *testing.T, out string, err error) {
				assert.Equal(t, `{"items":[]}`, out)
			},
		},
		{
			name:        "empty choices",
			status:      http.StatusOK,
			response:    `{"choices":[]}`,
			expectError: true,
			validateOutput: func(t *testing.T, out string, err error) {
				assert.True(t, errors.Is(err, ErrEmptyResponse))
			},
		},
		{
			name:        "upstream failure keeps status",
			status:      http.StatusBadGateway,
			response:    `upstream down`,
			expectError: true,
			validateOutput: func(t *testing.T, out string, err error) {
				var se *httpclient.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusBadGateway, se.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				body := decodeBody(t, r)
				assert.Equal(t, "gpt-4o", body["model"])
				msgs := body["messages"].([]interface{})
				require.Len(t, msgs, 2)
				assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
				assert.NotNil(t, body["response_format"])
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			p := NewOpenAICompatible("openai", httpclient.NewClient(time.Second), Settings{
				APIKey: "sk-test", Model: "gpt-4o", Endpoint: srv.URL, Temperature: 0.3, MaxTokens: 100,
			})
			out, err := p.Complete(context.Background(), Request{System: "rules", Prompt: "task", JSON: true})
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			tt.validateOutput(t, out, err)
		})
	}
}

func TestOpenAICompatible_Temperature(t *testing.T) {
	tests := []struct {
		name     string
		request  *float64
		expected float64
	}{
		{name: "unset uses the configured default", request: nil, expected: 0.3},
		{name: "explicit zero is sent as zero", request: Temperature(0), expected: 0},
		{name: "explicit value wins", request: Temperature(0.9), expected: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent interface{}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sent = decodeBody(t, r)["temperature"]
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
			}))
			defer srv.Close()

			p := NewOpenAICompatible("openai", httpclient.NewClient(time.Second), Settings{
				APIKey: "sk-test", Model: "gpt-4o", Endpoint: srv.URL, Temperature: 0.3,
			})
			_, err := p.Complete(context.Background(), Request{Prompt: "task", Temperature: tt.request})

			require.NoError(t, err)
			require.NotNil(t, sent, "temperature is always sent")
			assert.InDelta(t, tt.expected, sent, 1e-9)
		})
	}
}

func TestOpenAICompatible_RejectsAttachments(t *testing.T) {
	p := NewOpenAICompatible("deepseek", httpclient.NewClient(time.Second), Settings{APIKey: "k"})
	_, err := p.Complete(context.Background(), Request{Prompt: "x", Attachments: []Attachment{{MIMEType: "application/pdf"}}})
	assert.True(t, errors.Is(err, ErrAttachmentsRejected))
	assert.False(t, SupportsAttachments(p))
}

func TestClaude_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ck-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		body := decodeBody(t, r)
		assert.Equal(t, "rules", body["system"])
		assert.EqualValues(t, 4000, body["max_tokens"])
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"items\":"},{"type":"text","text":"[]}"}]}`))
	}))
	defer srv.Close()

	p := NewClaude(httpclient.NewClient(time.Second), Settings{APIKey: "ck-test", Model: "claude", Endpoint: srv.URL, MaxTokens: 4000})
	out, err := p.Complete(context.Background(), Request{System: "rules", Prompt: "task"})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, out)
}

func TestGemini_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		assert.Equal(t, "gk-test", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"extracted text"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGemini(context.Background(), Settings{APIKey: "gk-test", Model: "gemini-2.5-pro", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	assert.True(t, SupportsAttachments(p))

	out, err := p.Complete(context.Background(), Request{
		Prompt:      "Extract all text",
		Attachments: []Attachment{{MIMEType: "image/png", Data: []byte{0x89, 0x50}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "extracted text", out)
}

func TestFactory_Get(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	f := NewFactory(reg, config.LLMConfig{Providers: map[string]config.LLMProviderConfig{
		"openai": {APIKey: "sk"},
		"claude": {APIKey: "ck", Model: "claude-custom"},
	}}, time.Second)

	_, err = f.Get(context.Background(), "llama")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownProvider, apperrors.Normalize(err).Code)

	_, err = f.Get(context.Background(), "grok")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProviderNotConfigured, apperrors.Normalize(err).Code)
	assert.False(t, f.Configured("grok"))

	p, err := f.Get(context.Background(), "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.ID())

	again, err := f.Get(context.Background(), "openai")
	require.NoError(t, err)
	assert.Same(t, p, again)

	c, err := f.Get(context.Background(), "claude")
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", c.(*Claude).model)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", c.(*Claude).endpoint)
}
