// internal/app/bootstrap_test.go
package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oci-bom-generator/internal/common/cache"
	"oci-bom-generator/internal/common/config"
	"oci-bom-generator/internal/common/logger"
	fetchcatalog "oci-bom-generator/internal/workers/catalog/fetch-catalog"
)

// ==========================
// Bootstrap
// ==========================

func TestBootstrap(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T, cfg *config.Config)
		opts           Options
		expectError    bool
		validateOutput func(t *testing.T, rt *Runtime)
	}{
		{
			name: "offline uses the embedded catalog and memory backends",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Catalog.Cache = "redis"
				cfg.SavedPrompts.Backend = "postgres"
			},
			opts: Options{Offline: true},
			validateOutput: func(t *testing.T, rt *Runtime) {
				assert.IsType(t, &cache.MemoryCache{}, rt.Cache)
				assert.Empty(t, rt.Config.Catalog.BaseURL)
				assert.Empty(t, rt.Ready(context.Background()))

				services := rt.Pipeline.Stages().Catalog.GetAllServices(context.Background())
				assert.Len(t, services, len(fetchcatalog.FallbackServices()))

				saved, err := rt.Prompts.List(context.Background())
				require.NoError(t, err)
				assert.Empty(t, saved)
			},
		},
		{
			name: "redis catalog cache",
			setup: func(t *testing.T, cfg *config.Config) {
				mr := miniredis.RunT(t)
				cfg.Catalog.Cache = "redis"
				cfg.Database.Redis.Address = mr.Addr()
			},
			validateOutput: func(t *testing.T, rt *Runtime) {
				assert.IsType(t, &cache.RedisCache{}, rt.Cache)
				checks := rt.Ready(context.Background())
				require.Contains(t, checks, "redis")
				assert.NoError(t, checks["redis"])
			},
		},
		{
			name: "unreachable redis fails startup",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Catalog.Cache = "redis"
				cfg.Database.Redis.Address = "127.0.0.1:1"
			},
			expectError: true,
		},
		{
			name: "unreachable suggestions index is optional",
			setup: func(t *testing.T, cfg *config.Config) {
				es := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusServiceUnavailable)
				}))
				t.Cleanup(es.Close)
				cfg.SavedPrompts.SuggestionsIndex = "saved-prompts"
				cfg.Database.Elasticsearch.URL = es.URL
			},
			validateOutput: func(t *testing.T, rt *Runtime) {
				assert.NotContains(t, rt.Ready(context.Background()), "elasticsearch")
				suggestions, err := rt.Prompts.Suggestions(context.Background(), "data")
				require.NoError(t, err)
				assert.Empty(t, suggestions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Catalog.BaseURL = ""
			if tt.setup != nil {
				tt.setup(t, cfg)
			}
			opts := tt.opts
			opts.MaxRetries = 1
			opts.RetryDelay = time.Millisecond
			opts.Registerer = prometheus.NewRegistry()

			rt, err := Bootstrap(context.Background(), cfg, logger.NewTestLogger(t), opts)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(rt.Close)

			assert.NotNil(t, rt.Pipeline)
			assert.NotNil(t, rt.Documents)
			assert.NotNil(t, rt.Registry)
			if tt.validateOutput != nil {
				tt.validateOutput(t, rt)
			}
		})
	}
}

// ==========================
// Retry
// ==========================

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond, log, "dial")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), func() error {
			attempts++
			return errors.New("connection refused")
		}, 3, time.Millisecond, log, "dial")
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Contains(t, err.Error(), "dial failed after 3 attempts")
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		attempts := 0
		err := retryWithBackoff(ctx, func() error {
			attempts++
			return errors.New("connection refused")
		}, 5, time.Hour, log, "dial")
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}
