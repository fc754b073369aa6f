// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Database      DatabaseConfig      `mapstructure:"database"`
	SavedPrompts  SavedPromptsConfig  `mapstructure:"saved_prompts"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int   `mapstructure:"port"`
	OpsPort        int   `mapstructure:"ops_port"`
	ReadTimeout    int   `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int   `mapstructure:"write_timeout"` // milliseconds
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// CatalogConfig drives the service catalog provider and its cache.
type CatalogConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL  int    `mapstructure:"cache_ttl"` // milliseconds
	Cache     string `mapstructure:"cache"`     // memory | redis
	CacheSize int    `mapstructure:"cache_size"`
	UserAgent string `mapstructure:"user_agent"`
}

type PipelineConfig struct {
	PromptTokenCeiling int `mapstructure:"prompt_token_ceiling"`
	CandidateCap       int `mapstructure:"candidate_cap"`
	MaxResults         int `mapstructure:"max_results"`
	CompletionTimeout  int `mapstructure:"completion_timeout"` // milliseconds
	AnalysisTimeout    int `mapstructure:"analysis_timeout"`   // milliseconds
}

// LLMConfig holds one entry per completion provider, keyed by provider id.
type LLMConfig struct {
	DefaultProvider string                       `mapstructure:"default_provider"`
	RegistryPath    string                       `mapstructure:"registry_path"`
	Providers       map[string]LLMProviderConfig `mapstructure:"providers"`
}

type LLMProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	MaxConnections  int    `mapstructure:"max_connections"`
	MaxIdle         int    `mapstructure:"max_idle"`
	SSLMode         string `mapstructure:"sslmode"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // milliseconds
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SavedPromptsConfig selects where saved prompts live.
type SavedPromptsConfig struct {
	Backend          string `mapstructure:"backend"` // memory | postgres
	SuggestionsIndex string `mapstructure:"suggestions_index"`
	AutoSave         bool   `mapstructure:"auto_save"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
