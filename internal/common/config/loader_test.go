package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: bom-test
catalog:
  timeout: 5000
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bom-test", cfg.App.Name)
	assert.Equal(t, 5000, cfg.Catalog.Timeout)
	assert.Equal(t, 3600000, cfg.Catalog.CacheTTL)
	assert.Equal(t, "memory", cfg.Catalog.Cache)
	assert.Equal(t, 150000, cfg.Pipeline.PromptTokenCeiling)
	assert.Equal(t, 15, cfg.Pipeline.CandidateCap)
	assert.Equal(t, 20, cfg.Pipeline.MaxResults)
	assert.Equal(t, 120000, cfg.Pipeline.CompletionTimeout)
	assert.Equal(t, "gpt-4o", cfg.LLM.Providers[ProviderOpenAI].Model)
	assert.Equal(t, 4000, cfg.LLM.Providers[ProviderClaude].MaxTokens)
	assert.InDelta(t, 0.3, cfg.LLM.Providers[ProviderGemini].Temperature, 1e-9)
	assert.True(t, cfg.SavedPrompts.AutoSave)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_DEEPSEEK_KEY", "ds-secret")
	path := writeConfig(t, `
llm:
  providers:
    deepseek:
      api_key: ${TEST_DEEPSEEK_KEY}
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ds-secret", cfg.LLM.Providers[ProviderDeepSeek].APIKey)
}

func TestLoadFromFile_ProviderKeyFromEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "claude-secret")
	path := writeConfig(t, "app:\n  name: x\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "claude-secret", cfg.LLM.Providers[ProviderClaude].APIKey)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "redis cache without address",
			mutate:  func(c *Config) { c.Catalog.Cache = "redis"; c.Database.Redis.Address = "" },
			wantErr: "database.redis.address",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Catalog.Cache = "memcached" },
			wantErr: "catalog.cache",
		},
		{
			name:    "postgres backend without host",
			mutate:  func(c *Config) { c.SavedPrompts.Backend = "postgres" },
			wantErr: "database.postgres.host",
		},
		{
			name:    "suggestions index without elasticsearch",
			mutate:  func(c *Config) { c.SavedPrompts.SuggestionsIndex = "saved-prompts" },
			wantErr: "elasticsearch",
		},
		{
			name:    "unknown default provider",
			mutate:  func(c *Config) { c.LLM.DefaultProvider = "llama" },
			wantErr: "llm.default_provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.Redis.Address = ""
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
