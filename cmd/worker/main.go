package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	notificationApp "github.com/cassiomorais/storenotify/internal/application/notification"
	outboxApp "github.com/cassiomorais/storenotify/internal/application/outbox"
	"github.com/cassiomorais/storenotify/internal/bootstrap"
	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/cassiomorais/storenotify/internal/infrastructure/rabbitmq"
	infraRedis "github.com/cassiomorais/storenotify/internal/infrastructure/redis"
	"github.com/cassiomorais/storenotify/internal/repository/postgres"
	"github.com/cassiomorais/storenotify/internal/trigger"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "storenotify-worker", "storenotify_worker", config.RoleWorker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	cfg := app.Config

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(app.Pool)
	notificationRepo := postgres.NewNotificationRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)
	streamProducer := infraRedis.NewStreamProducer(app.Redis)

	guardedStore := notificationApp.NewBreakerStore(notificationRepo, cfg.Dispatch.BreakerTimeout,
		func(name string, from, to gobreaker.State) {
			app.Metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			app.Logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		})

	// --- Use cases ---
	dispatchLogger := observability.ForComponent(app.Logger, "storenotify-worker", "dispatcher")
	resolver := notificationApp.NewRecipientResolver(userRepo, cfg.Dispatch.AdminRole)
	dispatcher := notificationApp.NewDispatcher(userRepo, resolver, guardedStore, notificationApp.DispatcherConfig{
		WriteTimeout:   cfg.Dispatch.WriteTimeout,
		MaxConcurrency: cfg.Dispatch.MaxConcurrency,
	}, dispatchLogger)

	triggerLogger := observability.ForComponent(app.Logger, "storenotify-worker", "trigger")
	orderHandler := trigger.NewOrderCreatedHandler(dispatcher, streamProducer, app.Metrics, cfg.Worker.DispatchTimeout, triggerLogger)

	relay := outboxApp.NewRelay(outboxRepo, txManager, streamProducer, cfg.Worker.OutboxBatchSize, app.Metrics,
		observability.ForComponent(app.Logger, "storenotify-worker", "outbox"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Order-created trigger.
	g.Go(func() error {
		return runTrigger(gCtx, app, orderHandler, triggerLogger)
	})

	// 2. Outbox relay (polls outbox table and publishes to Redis Streams).
	g.Go(func() error {
		return relay.Run(gCtx, cfg.Worker.OutboxPollInterval)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runTrigger(ctx context.Context, app *bootstrap.App, h *trigger.OrderCreatedHandler, logger zerolog.Logger) error {
	cfg := app.Config
	switch cfg.Trigger.Source {
	case config.TriggerSourceAMQP:
		consumer, err := rabbitmq.NewConsumer(cfg.Trigger.AMQPURL)
		if err != nil {
			return fmt.Errorf("connect to amqp: %w", err)
		}
		defer consumer.Close()

		logger.Info().
			Str("exchange", cfg.Trigger.Exchange).
			Str("queue", cfg.Trigger.Queue).
			Str("routing_key", cfg.Trigger.RoutingKey).
			Msg("Worker started, listening for order events over AMQP...")
		return trigger.RunAMQP(ctx, consumer, trigger.AMQPBinding{
			Exchange:   cfg.Trigger.Exchange,
			Queue:      cfg.Trigger.Queue,
			RoutingKey: cfg.Trigger.RoutingKey,
		}, h, app.Metrics)

	default:
		consumer := infraRedis.NewStreamConsumer(
			app.Redis,
			infraRedis.OrderCreatedStream,
			cfg.Worker.ConsumerGroup,
			cfg.InstanceID,
			cfg.Worker.BatchSize,
			cfg.Worker.BlockDuration,
		)
		if err := consumer.CreateGroup(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to create consumer group")
		}

		logger.Info().
			Str("stream", infraRedis.OrderCreatedStream).
			Str("group", cfg.Worker.ConsumerGroup).
			Str("consumer", cfg.InstanceID).
			Msg("Worker started, listening for order events...")
		return trigger.RunRedis(ctx, consumer, h, app.Metrics, logger)
	}
}
