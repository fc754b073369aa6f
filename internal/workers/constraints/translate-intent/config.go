// internal/workers/constraints/translate-intent/config.go
package translateintent

type Config struct {
	// IgnoreExcludedPhrases removes exclusion clauses from the text before mapping,
	// so an excluded service does not add its own category.
	IgnoreExcludedPhrases bool
}

func LoadConfig() *Config {
	return &Config{
		IgnoreExcludedPhrases: true,
	}
}
