// internal/workers/bom/generate-draft/config.go
package generatedraft

import "time"

type Config struct {
	CandidateCap       int
	PromptTokenCeiling int
	CompletionTimeout  time.Duration
	Temperature        float64
	MaxTokens          int
}

func LoadConfig() *Config {
	return &Config{
		CandidateCap:       15,
		PromptTokenCeiling: 150000,
		CompletionTimeout:  120 * time.Second,
		Temperature:        0.2,
		MaxTokens:          4000,
	}
}
