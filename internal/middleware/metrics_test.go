package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newRouter(m *observability.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Post("/api/zalopay-callback", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"return_code":1}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func TestMetrics_RecordsRoutePatternAndStatus(t *testing.T) {
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	r := newRouter(m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/zalopay-callback", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/zalopay-callback", "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health/ready", "503")))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	r := newRouter(m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
}

func TestMetrics_NilMetricsPassThrough(t *testing.T) {
	r := newRouter(nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/zalopay-callback", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusAccepted)
	sw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusAccepted, sw.statusCode)
}
