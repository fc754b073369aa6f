// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed providers.json
var defaultProviders []byte

// LoadRegistry reads a registry file. An empty path yields the embedded default.
func LoadRegistry(path string) (*ProviderRegistry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Default() (*ProviderRegistry, error) {
	return Parse(defaultProviders)
}

func Parse(data []byte) (*ProviderRegistry, error) {
	var reg ProviderRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse provider registry: %w", err)
	}
	seen := make(map[string]bool, len(reg.Providers))
	for _, p := range reg.Providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider registry: entry without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("provider registry: duplicate id %q", p.ID)
		}
		switch p.Protocol {
		case ProtocolOpenAI, ProtocolAnthropic, ProtocolGemini:
		default:
			return nil, fmt.Errorf("provider registry: %s has unknown protocol %q", p.ID, p.Protocol)
		}
		seen[p.ID] = true
	}
	return &reg, nil
}

func (r *ProviderRegistry) Get(id string) (Provider, bool) {
	for _, p := range r.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// IDs returns provider ids in declaration order.
func (r *ProviderRegistry) IDs() []string {
	ids := make([]string, 0, len(r.Providers))
	for _, p := range r.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *ProviderRegistry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.Providers))
	for _, p := range r.Providers {
		out = append(out, Summary{ID: p.ID, Name: p.Name, Cost: p.Cost})
	}
	return out
}
