package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/storenotify/internal/controller"
	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/storenotify/internal/infrastructure/redis"
	"github.com/cassiomorais/storenotify/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string, role config.Role) (*App, error) {
	cfg, err := config.Load(role)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout).
		With().Str("service", serviceName).Str("instance", cfg.InstanceID).Logger()
	logger.Info().Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)
	logger.Info().Msg("Metrics initialized")

	pool, err := postgres.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	redisClient, err := infraRedis.NewClient(ctx, &cfg.Redis, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("Connected to Redis")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Metrics: metrics,
	}, nil
}

// HealthChecks returns the readiness checks for the app's connections.
func (a *App) HealthChecks() []controller.HealthCheck {
	return []controller.HealthCheck{
		{Name: "database", Ping: a.Pool.Ping},
		{Name: "redis", Ping: func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }},
	}
}

func (a *App) Close() {
	a.Redis.Close()
	a.Pool.Close()
}
