// internal/workers/catalog/fetch-catalog/handler.go
package fetchcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"oci-bom-generator/internal/common/cache"
	apperrors "oci-bom-generator/internal/common/errors"
	httpclient "oci-bom-generator/internal/common/http"
	"oci-bom-generator/internal/common/metrics"
	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

const (
	TaskType = "fetch-catalog"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config       *Config
	taxonomy     *taxonomy.Taxonomy
	client       *httpclient.Client
	cache        cache.Cache
	group        singleflight.Group
	defaultPrice decimal.Decimal
	logger       Logger
}

type loadResult struct {
	services []models.CatalogService
	source   Source
}

func NewHandler(config *Config, tax *taxonomy.Taxonomy, c cache.Cache, log Logger) *Handler {
	price, err := decimal.NewFromString(config.DefaultUnitPrice)
	if err != nil {
		price = decimal.RequireFromString("0.05")
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Handler{
		config:       config,
		taxonomy:     tax,
		client:       httpclient.NewClient(config.Timeout).WithUserAgent(userAgent),
		cache:        c,
		defaultPrice: price,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		services []models.CatalogService
		source   Source
	)
	if input != nil && input.Refresh {
		res := h.refresh(ctx)
		services, source = res.services, res.source
	} else {
		services, source = h.load(ctx)
	}
	out := &Output{
		Services:   services,
		Categories: categoriesOf(services),
		Source:     source,
	}
	h.logger.Info("catalog served", map[string]interface{}{
		"source":     string(source),
		"services":   len(services),
		"categories": len(out.Categories),
	})
	return out, nil
}

// GetAllServices returns the cached catalog, refreshing it when stale.
// It never fails: any remote problem yields the embedded catalog.
func (h *Handler) GetAllServices(ctx context.Context) []models.CatalogService {
	services, _ := h.load(ctx)
	return services
}

// GetCategories returns the distinct catalog category labels, sorted.
func (h *Handler) GetCategories(ctx context.Context) []string {
	return categoriesOf(h.GetAllServices(ctx))
}

func (h *Handler) load(ctx context.Context) ([]models.CatalogService, Source) {
	if services, ok := h.fromCache(ctx); ok {
		metrics.CatalogLoads.WithLabelValues(string(SourceCache)).Inc()
		return services, SourceCache
	}
	res := h.refresh(ctx)
	return res.services, res.source
}

// refresh collapses concurrent reloads into one remote call.
func (h *Handler) refresh(ctx context.Context) loadResult {
	v, _, _ := h.group.Do(CacheKey, func() (interface{}, error) {
		return h.fetchAndStore(context.WithoutCancel(ctx)), nil
	})
	res := v.(loadResult)
	return loadResult{
		services: append([]models.CatalogService(nil), res.services...),
		source:   res.source,
	}
}

func (h *Handler) fetchAndStore(ctx context.Context) loadResult {
	start := time.Now()
	res := loadResult{source: SourceRemote}

	services, err := h.fetchRemote(ctx)
	if err != nil {
		catalogErr := apperrors.NewCatalogUnavailableError(err)
		h.logger.Warn("catalog unavailable, using embedded catalog", map[string]interface{}{
			"error":      catalogErr.Error(),
			"durationMs": time.Since(start).Milliseconds(),
		})
		services = FallbackServices()
		res.source = SourceFallback
	}
	res.services = services
	metrics.CatalogLoads.WithLabelValues(string(res.source)).Inc()

	h.store(ctx, services)

	h.logger.Info("catalog loaded", map[string]interface{}{
		"source":     string(res.source),
		"services":   len(services),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return res
}

func (h *Handler) fetchRemote(ctx context.Context) ([]models.CatalogService, error) {
	if h.config.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	body, err := h.client.GetBytes(ctx, h.config.BaseURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	records, err := splitPayload(body)
	if err != nil {
		return nil, err
	}

	services := make([]models.CatalogService, 0, len(records))
	skipped := 0
	for _, raw := range records {
		svc, err := normalizeRecord(raw, h.taxonomy, h.defaultPrice)
		if err != nil {
			skipped++
			continue
		}
		services = append(services, svc)
	}
	if skipped > 0 {
		h.logger.Warn("catalog records excluded", map[string]interface{}{
			"excluded": skipped,
			"kept":     len(services),
		})
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: no valid records", ErrEmptyPayload)
	}
	return services, nil
}

func (h *Handler) fromCache(ctx context.Context) ([]models.CatalogService, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, ok := h.cache.Get(ctx, CacheKey)
	if !ok {
		return nil, false
	}
	var services []models.CatalogService
	if err := json.Unmarshal(data, &services); err != nil || len(services) == 0 {
		return nil, false
	}
	return services, true
}

func (h *Handler) store(ctx context.Context, services []models.CatalogService) {
	if h.cache == nil {
		return
	}
	data, err := json.Marshal(services)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, CacheKey, data, h.config.CacheTTL); err != nil {
		h.logger.Warn("catalog cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func categoriesOf(services []models.CatalogService) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, s := range services {
		c := strings.TrimSpace(s.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
