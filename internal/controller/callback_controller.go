package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// CallbackHandler runs a gateway callback to its result.
type CallbackHandler interface {
	Handle(ctx context.Context, p callback.Payload) callback.Result
}

// CallbackController serves the payment gateway callback endpoint. The
// gateway reads the outcome from the body, so the status is always 200.
type CallbackController struct {
	handler      CallbackHandler
	maxBodyBytes int64
	metrics      *observability.Metrics
	logger       zerolog.Logger
}

func NewCallbackController(handler CallbackHandler, maxBodyBytes int64, metrics *observability.Metrics, logger zerolog.Logger) *CallbackController {
	return &CallbackController{
		handler:      handler,
		maxBodyBytes: maxBodyBytes,
		metrics:      metrics,
		logger:       logger,
	}
}

func (c *CallbackController) Receive(w http.ResponseWriter, r *http.Request) {
	if c.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, c.maxBodyBytes)
	}

	var res callback.Result
	var p callback.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		// Without a readable envelope there is no MAC to check.
		c.logger.Warn().Err(err).Msg("Undecodable callback envelope")
		res = callback.Rejected()
	} else {
		res = c.handler.Handle(r.Context(), p)
	}

	if c.metrics != nil {
		c.metrics.CallbacksTotal.WithLabelValues(string(res.State)).Inc()
	}
	writeJSON(w, http.StatusOK, res)
}
