// internal/common/llm/factory.go
package llm

import (
	"context"
	"sync"
	"time"

	"oci-bom-generator/internal/common/config"
	apperrors "oci-bom-generator/internal/common/errors"
	httpclient "oci-bom-generator/internal/common/http"
	"oci-bom-generator/pkg/registry"
)

// Settings is the resolved configuration of one provider.
type Settings struct {
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float64
	MaxTokens   int
}

// Factory builds providers from the registry plus configured credentials.
// Built providers are reused across requests.
type Factory struct {
	registry *registry.ProviderRegistry
	settings map[string]config.LLMProviderConfig
	http     *httpclient.Client

	mu    sync.Mutex
	built map[string]Provider
}

func NewFactory(reg *registry.ProviderRegistry, cfg config.LLMConfig, timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Factory{
		registry: reg,
		settings: cfg.Providers,
		http:     httpclient.NewClient(timeout),
		built:    make(map[string]Provider),
	}
}

func (f *Factory) Registry() *registry.ProviderRegistry {
	return f.registry
}

// Configured reports whether id is known and has credentials.
func (f *Factory) Configured(id string) bool {
	if _, ok := f.registry.Get(id); !ok {
		return false
	}
	return f.settings[id].APIKey != ""
}

// Get returns the provider for id, or an UNKNOWN_PROVIDER / PROVIDER_NOT_CONFIGURED error.
func (f *Factory) Get(ctx context.Context, id string) (Provider, error) {
	desc, ok := f.registry.Get(id)
	if !ok {
		return nil, apperrors.NewUnknownProviderError(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.built[id]; ok {
		return p, nil
	}

	s := f.resolve(desc)
	if s.APIKey == "" {
		return nil, apperrors.NewProviderNotConfiguredError(id)
	}

	var p Provider
	switch desc.Protocol {
	case registry.ProtocolAnthropic:
		p = NewClaude(f.http, s)
	case registry.ProtocolGemini:
		g, err := NewGemini(ctx, s)
		if err != nil {
			return nil, apperrors.NewCompletionServiceError(id, err)
		}
		p = g
	default:
		p = NewOpenAICompatible(id, f.http, s)
	}
	f.built[id] = p
	return p, nil
}

// Register installs a ready provider under id, replacing any built one.
func (f *Factory) Register(id string, p Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built[id] = p
}

func (f *Factory) resolve(desc registry.Provider) Settings {
	cfg := f.settings[desc.ID]
	s := Settings{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Endpoint:    cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	if s.Model == "" {
		s.Model = desc.DefaultModel
	}
	if s.Endpoint == "" {
		s.Endpoint = desc.Endpoint
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 4000
	}
	return s
}
