// pkg/registry/schema.go
package registry

// Protocols a provider can speak.
const (
	ProtocolOpenAI    = "openai"
	ProtocolAnthropic = "anthropic"
	ProtocolGemini    = "gemini"
)

type ProviderRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Providers   []Provider `json:"providers"`
}

type Provider struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Cost         string `json:"cost"`
	Protocol     string `json:"protocol"`
	DefaultModel string `json:"defaultModel"`
	Endpoint     string `json:"endpoint,omitempty"`
	Multimodal   bool   `json:"multimodal,omitempty"`
}

// Summary is the public listing shape served to clients.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost string `json:"cost"`
}
