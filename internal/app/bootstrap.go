// internal/app/bootstrap.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"oci-bom-generator/internal/common/cache"
	"oci-bom-generator/internal/common/config"
	"oci-bom-generator/internal/common/database"
	"oci-bom-generator/internal/common/llm"
	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/common/observability"
	"oci-bom-generator/internal/pipeline"
	parsedocument "oci-bom-generator/internal/workers/documents/parse-document"
	savedprompts "oci-bom-generator/internal/workers/prompts/saved-prompts"
	"oci-bom-generator/pkg/registry"
)

const cachePrefix = "oci-bom:"

// Options tune Bootstrap.
type Options struct {
	// Offline skips every network backend: the embedded catalog, the in-memory
	// cache and the in-memory prompt store are used instead.
	Offline    bool
	MaxRetries int
	RetryDelay time.Duration
	Registerer prometheus.Registerer
}

// Runtime holds every long-lived component of the service.
type Runtime struct {
	Config    *config.Config
	Obs       *observability.Observability
	Registry  *registry.ProviderRegistry
	Providers *llm.Factory
	Cache     cache.Cache
	Prompts   *savedprompts.Handler
	Documents *parsedocument.Handler
	Pipeline  *pipeline.Pipeline

	logger  logger.Logger
	checks  map[string]func(ctx context.Context) error
	closers []func() error
}

// Bootstrap connects the configured backends and assembles the pipeline.
func Bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Runtime, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 10
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.Offline {
		cfg.Catalog.BaseURL = ""
		cfg.Catalog.Cache = "memory"
		cfg.SavedPrompts.Backend = "memory"
		cfg.SavedPrompts.SuggestionsIndex = ""
	}

	rt := &Runtime{
		Config: cfg,
		logger: log,
		checks: make(map[string]func(ctx context.Context) error),
	}

	rt.Obs = observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		Registerer:     opts.Registerer,
	})
	rt.closers = append(rt.closers, func() error { rt.Obs.Shutdown(); return nil })

	reg, err := registry.LoadRegistry(cfg.LLM.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load provider registry: %w", err)
	}
	rt.Registry = reg
	rt.Providers = llm.NewFactory(reg, cfg.LLM, config.GetDuration(cfg.Pipeline.CompletionTimeout))

	if err := rt.initCache(ctx, opts); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.initPrompts(ctx, opts); err != nil {
		rt.Close()
		return nil, err
	}

	rt.Documents = parsedocument.NewHandler(parsedocument.LoadConfig(), rt.Providers, pipeline.DocumentLogger{Logger: log})
	rt.Pipeline = pipeline.Build(cfg, pipeline.Dependencies{
		Cache:     rt.Cache,
		Providers: rt.Providers,
		Prompts:   rt.Prompts,
		Obs:       rt.Obs,
	}, log)

	log.Info("runtime ready", map[string]interface{}{
		"offline":         opts.Offline,
		"catalogCache":    cfg.Catalog.Cache,
		"promptBackend":   cfg.SavedPrompts.Backend,
		"defaultProvider": cfg.LLM.DefaultProvider,
		"providers":       reg.IDs(),
	})
	return rt, nil
}

func (rt *Runtime) initCache(ctx context.Context, opts Options) error {
	cfg := rt.Config
	if cfg.Catalog.Cache != "redis" {
		mem, err := cache.NewMemoryCache(cfg.Catalog.CacheSize, nil)
		if err != nil {
			return fmt.Errorf("create memory cache: %w", err)
		}
		rt.Cache = mem
		return nil
	}

	var rdb *database.RedisClient
	err := retryWithBackoff(ctx, func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, opts.MaxRetries, opts.RetryDelay, rt.logger, "Redis connection")
	if err != nil {
		return err
	}
	rt.logger.Info("Redis connected successfully", nil)

	rt.Cache = cache.NewRedisCache(rdb.Client, cachePrefix)
	rt.track(rdb)
	return nil
}

func (rt *Runtime) initPrompts(ctx context.Context, opts Options) error {
	cfg := rt.Config
	promptsCfg := savedprompts.LoadConfig()
	log := pipeline.PromptsLogger{Logger: rt.logger}

	var store savedprompts.Store = savedprompts.NewMemoryStore()
	if cfg.SavedPrompts.Backend == "postgres" {
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, opts.MaxRetries, opts.RetryDelay, rt.logger, "PostgreSQL connection")
		if err != nil {
			return err
		}
		rt.logger.Info("PostgreSQL connected successfully", nil)
		rt.track(pg)

		pgStore := savedprompts.NewPostgresStore(pg.DB)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("create saved prompts schema: %w", err)
		}
		store = pgStore
	}

	var suggester savedprompts.Suggester
	if index := cfg.SavedPrompts.SuggestionsIndex; index != "" {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			return es.EnsureIndex(ctx, index, savedprompts.IndexMapping)
		}, opts.MaxRetries, opts.RetryDelay, rt.logger, "Elasticsearch connection")
		if err != nil {
			rt.logger.Warn("suggestions index unavailable, using stored prompts", map[string]interface{}{
				"error": err.Error(),
				"index": index,
			})
		} else {
			rt.logger.Info("Elasticsearch connected successfully", map[string]interface{}{"index": index})
			rt.track(es)
			suggester = savedprompts.NewElasticIndex(es.Client, index, promptsCfg.PhraseLength)
		}
	}

	rt.Prompts = savedprompts.NewHandler(promptsCfg, store, suggester, log)
	return nil
}

// track registers b for readiness checks and shutdown.
func (rt *Runtime) track(b database.Backend) {
	rt.checks[b.Name()] = b.Ping
	rt.closers = append(rt.closers, b.Close)
}

// Ready pings every connected backend.
func (rt *Runtime) Ready(ctx context.Context) map[string]error {
	results := make(map[string]error, len(rt.checks))
	for name, check := range rt.checks {
		results[name] = check(ctx)
	}
	return results
}

// Close releases backends in reverse order of creation.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Error("failed to close resource", map[string]interface{}{"error": err.Error()})
		}
	}
	rt.closers = nil
}
