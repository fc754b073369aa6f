// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_requests_total",
			Help: "Total number of BOM generation requests by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bom_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"stage"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_catalog_loads_total",
			Help: "Catalog loads by source (cache, remote, fallback)",
		},
		[]string{"source"},
	)

	CompletionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_completion_calls_total",
			Help: "Completion service calls by provider and status",
		},
		[]string{"provider", "status"},
	)

	ItemsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bom_items_rejected_total",
			Help: "Draft line items rejected by post-generation validation",
		},
	)

	RequestsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bom_requests_active",
			Help: "Number of BOM requests in flight",
		},
	)

	BackendPings = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bom_backend_ping_seconds",
			Help:    "Backend health check latency by backend and outcome",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "outcome"},
	)
)
