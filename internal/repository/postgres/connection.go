package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/pkg/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a new PostgreSQL connection pool, retrying the initial
// ping with exponential backoff.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	retryCfg := retry.DefaultConfig()
	if cfg.ConnectRetries > 0 {
		retryCfg.MaxAttempts = cfg.ConnectRetries
	}
	retryCfg.OnRetry = func(n uint, err error) {
		logger.Warn().Err(err).Uint("attempt", n+1).Msg("PostgreSQL not reachable yet")
	}
	if err := retry.Do(ctx, retryCfg, func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
