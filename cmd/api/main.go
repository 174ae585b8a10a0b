package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	callbackApp "github.com/cassiomorais/storenotify/internal/application/callback"
	"github.com/cassiomorais/storenotify/internal/bootstrap"
	"github.com/cassiomorais/storenotify/internal/controller"
	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/cassiomorais/storenotify/internal/repository/postgres"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "storenotify-api", "storenotify", config.RoleAPI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	callbackRepo := postgres.NewCallbackRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Use cases ---
	callbackLogger := observability.ForComponent(app.Logger, "storenotify-api", "callback")
	settleUC := callbackApp.NewSettleUseCase(callbackRepo, outboxRepo, txManager, callbackLogger)
	callbackHandler := callbackApp.NewHandler(app.Config.Callback.Key2, settleUC, callbackLogger)

	// --- Build router ---
	deps := controller.RouterDeps{
		CallbackHandler: callbackHandler,
		HealthChecks:    app.HealthChecks(),
		Metrics:         app.Metrics,
		Callback:        app.Config.Callback,
		CORSConfig:      app.Config.Server.CORS,
		Logger:          callbackLogger,
	}
	if app.Config.Observability.EnableMetrics {
		deps.MetricsHandler = controller.DefaultMetricsHandler()
	}
	router := controller.NewRouter(deps)

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().
			Str("addr", addr).
			Str("callback_route", app.Config.Callback.CallbackRoute()).
			Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
