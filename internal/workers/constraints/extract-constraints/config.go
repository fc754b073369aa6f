// internal/workers/constraints/extract-constraints/config.go
package extractconstraints

type Config struct {
	StopWords []string
	Rules     []Rule
	// MinKeywordLength drops shorter tokens from keyword sets.
	MinKeywordLength int
}

func LoadConfig() *Config {
	return &Config{
		StopWords:        DefaultStopWords(),
		Rules:            DefaultRules(),
		MinKeywordLength: 2,
	}
}
