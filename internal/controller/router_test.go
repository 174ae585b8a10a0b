package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	callbackApp "github.com/cassiomorais/storenotify/internal/application/callback"
	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/cassiomorais/storenotify/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callbackResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}

func newTestRouter(t *testing.T, checks ...HealthCheck) (http.Handler, *observability.Metrics, *testutil.MockCallbackRepository) {
	t.Helper()
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	callbacks := testutil.NewMockCallbackRepository()
	settle := callbackApp.NewSettleUseCase(callbacks, testutil.NewMockOutboxRepository(), testutil.NewMockTransactionManager(), zerolog.Nop())

	r := NewRouter(RouterDeps{
		CallbackHandler: callbackApp.NewHandler(testutil.TestCallbackSecret, settle, zerolog.Nop()),
		HealthChecks:    checks,
		Metrics:         metrics,
		Callback: config.CallbackConfig{
			Path:         "zalopay-callback",
			MaxBodyBytes: 4096,
		},
		CORSConfig: config.CORSConfig{AllowedOrigins: []string{"*"}},
		Logger:     zerolog.Nop(),
	})
	return r, metrics, callbacks
}

func postCallback(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, callbackResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/zalopay-callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp callbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCallback_ValidSignature(t *testing.T) {
	r, metrics, callbacks := newTestRouter(t)

	p := testutil.NewSignedPayload(testutil.NewCallbackData("230101_000001", 50000), testutil.TestCallbackSecret)
	body, _ := json.Marshal(p)

	w, resp := postCallback(t, r, string(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.ReturnCode)
	assert.Equal(t, "success", resp.ReturnMessage)
	assert.Equal(t, 1, callbacks.Count())
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CallbacksTotal.WithLabelValues("accepted")))
}

func TestCallback_BadSignature(t *testing.T) {
	r, metrics, callbacks := newTestRouter(t)

	p := testutil.NewSignedPayload(testutil.NewCallbackData("230101_000002", 50000), "wrong-secret")
	body, _ := json.Marshal(p)

	w, resp := postCallback(t, r, string(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, resp.ReturnCode)
	assert.Equal(t, "mac not equal", resp.ReturnMessage)
	assert.Zero(t, callbacks.Count())
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CallbacksTotal.WithLabelValues("rejected")))
}

func TestCallback_UndecodableEnvelope(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, resp := postCallback(t, r, "data=abc&mac=def")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, resp.ReturnCode)
}

func TestCallback_BodyTooLarge(t *testing.T) {
	r, _, _ := newTestRouter(t)

	big := `{"data":"` + strings.Repeat("x", 8192) + `","mac":"00"}`
	w, resp := postCallback(t, r, big)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, resp.ReturnCode)
}

func TestCallback_SignedButInvalidJSON(t *testing.T) {
	r, _, _ := newTestRouter(t)

	p := testutil.NewSignedPayload("not-json", testutil.TestCallbackSecret)
	body, _ := json.Marshal(p)

	_, resp := postCallback(t, r, string(body))
	assert.Equal(t, 0, resp.ReturnCode)
	assert.NotContains(t, resp.ReturnMessage, p.MAC)
}

func TestHealth_Readiness(t *testing.T) {
	healthy := HealthCheck{Name: "database", Ping: func(ctx context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("refused") }}

	r, _, _ := newTestRouter(t, healthy)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())

	r, _, _ = newTestRouter(t, healthy, down)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not ready","reason":"redis unavailable"}`, w.Body.String())
}

func TestHealth_Liveness(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", bytes.NewReader(nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestRouter_UnknownRoute_JSONError(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"resource not found","code":"not_found"}`, w.Body.String())
}

func TestRouter_WrongMethodOnCallback_JSONError(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/zalopay-callback", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"method not allowed","code":"method_not_allowed"}`, w.Body.String())
}
