package callback

import (
	"context"
	"fmt"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handler verifies, parses and acknowledges gateway callbacks.
type Handler struct {
	secret   []byte
	settler  Settler
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates a Handler keyed with the gateway's callback secret.
// settler may be nil, in which case accepted callbacks are only logged.
func NewHandler(secret string, settler Settler, logger zerolog.Logger) *Handler {
	return &Handler{
		secret:   []byte(secret),
		settler:  settler,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle runs one callback to a terminal state. It never returns an error;
// the outcome is carried in the Result written back to the gateway.
func (h *Handler) Handle(ctx context.Context, p callback.Payload) callback.Result {
	auth, ok := p.Authenticate(h.secret)
	if !ok {
		h.logger.Warn().Err(domainErrors.ErrAuthenticationFailed).Int("data_len", len(p.Data)).Msg("Callback rejected")
		return callback.Rejected()
	}

	vc, err := auth.Parse()
	if err != nil {
		h.logger.Warn().Err(fmt.Errorf("%w: %w", domainErrors.ErrMalformedPayload, err)).Msg("Callback data is not valid JSON")
		return callback.ParseFailed(err.Error())
	}
	if err := h.validate.Struct(vc); err != nil {
		msg := fmt.Sprintf("invalid callback data: %v", err)
		h.logger.Warn().Str("app_trans_id", vc.AppTransID).Msg(msg)
		return callback.ParseFailed(msg)
	}

	log := h.logger.With().Str("app_trans_id", vc.AppTransID).Logger()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("payment.app_trans_id", vc.AppTransID))

	if h.settler != nil {
		if err := h.settler.Settle(ctx, vc); err != nil {
			log.Error().Err(err).Msg("Failed to settle callback")
			return callback.SettleFailed(vc.AppTransID, err.Error())
		}
	}

	log.Info().
		Int64("zp_trans_id", vc.ZPTransID).
		Int64("amount", vc.Amount).
		Msg("Payment callback accepted")
	return callback.Accepted(vc.AppTransID)
}
