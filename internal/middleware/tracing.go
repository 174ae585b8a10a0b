package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tracing starts a server span per request, named by method and path,
// e.g. "POST /api/zalopay-callback".
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "http.request",
			otelhttp.WithSpanNameFormatter(spanName),
		)
	}
}

// spanName runs before routing, so it usually falls back to the raw path.
func spanName(_ string, r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return r.Method + " " + rctx.RoutePattern()
	}
	return r.Method + " " + r.URL.Path
}
