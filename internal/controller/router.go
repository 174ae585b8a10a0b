package controller

import (
	"net/http"
	"time"

	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/storenotify/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	CallbackHandler CallbackHandler
	HealthChecks    []HealthCheck
	Metrics         *observability.Metrics
	// MetricsHandler serves /metrics; nil disables the endpoint.
	MetricsHandler http.Handler
	Callback       config.CallbackConfig
	CORSConfig     config.CORSConfig
	Logger         zerolog.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	healthH := NewHealthController(deps.HealthChecks...)
	callbackH := NewCallbackController(deps.CallbackHandler, deps.Callback.MaxBodyBytes, deps.Metrics, deps.Logger)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	callbackRoute := r.With()
	if deps.Callback.RequestsPerMinute > 0 {
		callbackRoute = r.With(customMW.RateLimit(deps.Callback.RequestsPerMinute))
	}
	callbackRoute.Post(deps.Callback.CallbackRoute(), callbackH.Receive)

	return r
}

// DefaultMetricsHandler exposes the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}
