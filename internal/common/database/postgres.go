// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"oci-bom-generator/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient holds the connection pool backing saved prompts.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a lazily-connecting pool sized from cfg. Call Ping to
// confirm the server is reachable.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("postgres host and database are required")
	}
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	lifetime := config.GetDuration(cfg.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(lifetime)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Name() string { return "postgres" }

func (c *PostgresClient) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.DB.PingContext(ctx)
	if err != nil {
		err = fmt.Errorf("postgres ping failed: %w", err)
	}
	return observePing(c.Name(), start, err)
}

func (c *PostgresClient) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
