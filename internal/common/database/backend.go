// internal/common/database/backend.go
package database

import (
	"context"
	"time"

	"oci-bom-generator/internal/common/metrics"
)

// Backend is a connected store the runtime health-checks and releases on shutdown.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*PostgresClient)(nil)
	_ Backend = (*RedisClient)(nil)
	_ Backend = (*ElasticsearchClient)(nil)
)

func observePing(backend string, start time.Time, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BackendPings.WithLabelValues(backend, outcome).Observe(time.Since(start).Seconds())
	return err
}
