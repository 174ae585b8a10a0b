package controller

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck is one dependency checked by the readiness endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthController struct {
	checks []HealthCheck
}

func NewHealthController(checks ...HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

func (h *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "alive"})
}

func (h *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "not ready",
				Reason: c.Name + " unavailable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}
