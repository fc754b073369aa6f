// internal/workers/prompts/saved-prompts/config.go
package savedprompts

import "time"

type Config struct {
	Timeout        time.Duration
	MaxTags        int
	MaxSuggestions int
	// PhraseLength is the number of words in a suggested phrase.
	PhraseLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		MaxTags:        5,
		MaxSuggestions: 10,
		PhraseLength:   3,
	}
}
