// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider ids known to the service. Keys in llm.providers use these.
const (
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderGemini   = "gemini"
	ProviderGrok     = "grok"
	ProviderDeepSeek = "deepseek"
)

// providerKeyEnv lists the environment variables consulted when a provider has no api_key.
var providerKeyEnv = map[string][]string{
	ProviderOpenAI:   {"OPENAI_API_KEY"},
	ProviderClaude:   {"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
	ProviderGemini:   {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ProviderGrok:     {"XAI_API_KEY", "GROK_API_KEY"},
	ProviderDeepSeek: {"DEEPSEEK_API_KEY"},
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v, env)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, os.Getenv("APP_ENVIRONMENT"))
}

// Default returns a configuration built only from defaults and the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.SavedPrompts.AutoSave = true
	cfg.RateLimit.Enabled = true
	applyDefaults(cfg)
	overrideEmptyConfig(cfg)
	return cfg
}

func finish(v *viper.Viper, env string) (*Config, error) {
	v.SetDefault("saved_prompts.auto_save", true)
	v.SetDefault("rate_limit.enabled", true)
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are still empty from well-known variables.
func overrideEmptyConfig(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = map[string]LLMProviderConfig{}
	}
	for id, names := range providerKeyEnv {
		p := cfg.LLM.Providers[id]
		if p.APIKey == "" {
			for _, name := range names {
				if val := os.Getenv(name); val != "" {
					p.APIKey = val
					break
				}
			}
		}
		cfg.LLM.Providers[id] = p
	}

	if val := os.Getenv("CATALOG_BASE_URL"); val != "" && cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = val
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
}

// providerDefaults mirrors the models and endpoints each provider is called with.
var providerDefaults = map[string]LLMProviderConfig{
	ProviderOpenAI:   {BaseURL: "https://api.openai.com/v1/chat/completions", Model: "gpt-4o"},
	ProviderClaude:   {BaseURL: "https://api.anthropic.com/v1/messages", Model: "claude-3-5-sonnet-20241022"},
	ProviderGemini:   {Model: "gemini-2.5-pro"},
	ProviderGrok:     {BaseURL: "https://api.x.ai/v1/chat/completions", Model: "grok-beta"},
	ProviderDeepSeek: {BaseURL: "https://api.deepseek.com/v1/chat/completions", Model: "deepseek-chat"},
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "oci-bom-generator"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "2.0.0"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.OpsPort == 0 {
		cfg.Server.OpsPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 180000
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 10 * 1024 * 1024
	}

	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = "https://apexapps.oracle.com/pls/apex/cetools/api/v1/products/"
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 15000
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 3600000
	}
	if cfg.Catalog.Cache == "" {
		cfg.Catalog.Cache = "memory"
	}
	if cfg.Catalog.CacheSize == 0 {
		cfg.Catalog.CacheSize = 64
	}
	if cfg.Catalog.UserAgent == "" {
		cfg.Catalog.UserAgent = "OCI-BOM-Generator/2.0"
	}

	if cfg.Pipeline.PromptTokenCeiling == 0 {
		cfg.Pipeline.PromptTokenCeiling = 150000
	}
	if cfg.Pipeline.CandidateCap == 0 {
		cfg.Pipeline.CandidateCap = 15
	}
	if cfg.Pipeline.MaxResults == 0 {
		cfg.Pipeline.MaxResults = 20
	}
	if cfg.Pipeline.CompletionTimeout == 0 {
		cfg.Pipeline.CompletionTimeout = 120000
	}
	if cfg.Pipeline.AnalysisTimeout == 0 {
		cfg.Pipeline.AnalysisTimeout = 30000
	}

	if cfg.LLM.DefaultProvider == "" {
		cfg.LLM.DefaultProvider = ProviderOpenAI
	}
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = map[string]LLMProviderConfig{}
	}
	for id, def := range providerDefaults {
		p := cfg.LLM.Providers[id]
		if p.BaseURL == "" {
			p.BaseURL = def.BaseURL
		}
		if p.Model == "" {
			p.Model = def.Model
		}
		if p.Temperature == 0 {
			p.Temperature = 0.3
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = 4000
		}
		cfg.LLM.Providers[id] = p
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.ConnMaxLifetime == 0 {
		cfg.Database.Postgres.ConnMaxLifetime = 300000
	}
	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.SavedPrompts.Backend == "" {
		cfg.SavedPrompts.Backend = "memory"
	}

	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 2
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		if cfg.App.Environment == "production" {
			cfg.Logging.Format = "json"
		} else {
			cfg.Logging.Format = "console"
		}
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if cfg.Server.OpsPort <= 0 || cfg.Server.OpsPort > 65535 {
		return fmt.Errorf("server.ops_port must be between 1 and 65535")
	}
	if cfg.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}

	switch cfg.Catalog.Cache {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when catalog.cache is redis")
		}
	default:
		return fmt.Errorf("catalog.cache must be memory or redis, got %q", cfg.Catalog.Cache)
	}

	switch cfg.SavedPrompts.Backend {
	case "memory":
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("saved_prompts.backend must be memory or postgres, got %q", cfg.SavedPrompts.Backend)
	}

	if cfg.SavedPrompts.SuggestionsIndex != "" && cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required for saved_prompts.suggestions_index")
	}

	if cfg.Pipeline.CandidateCap < 1 || cfg.Pipeline.MaxResults < 1 {
		return fmt.Errorf("pipeline.candidate_cap and pipeline.max_results must be positive")
	}

	if _, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; !ok {
		return fmt.Errorf("llm.default_provider %q is not configured", cfg.LLM.DefaultProvider)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
