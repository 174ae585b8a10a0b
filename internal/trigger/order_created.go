// Package trigger feeds order-created events into the notification
// dispatcher. Every message is handled exactly once from the source's point
// of view: handlers never ask for redelivery.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/cassiomorais/storenotify/internal/domain/order"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Dispatcher fans an order out to its recipients.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev order.Event) (*notification.DispatchReport, error)
}

// DeadLetterPublisher parks messages an operator may want to replay.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, body []byte, reason string) error
}

// OrderCreatedHandler decodes order-created messages and dispatches them.
type OrderCreatedHandler struct {
	dispatcher Dispatcher
	dlq        DeadLetterPublisher
	validate   *validator.Validate
	metrics    *observability.Metrics
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewOrderCreatedHandler creates a handler. dlq and metrics may be nil.
func NewOrderCreatedHandler(
	dispatcher Dispatcher,
	dlq DeadLetterPublisher,
	metrics *observability.Metrics,
	timeout time.Duration,
	logger zerolog.Logger,
) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		dispatcher: dispatcher,
		dlq:        dlq,
		validate:   validator.New(),
		metrics:    metrics,
		timeout:    timeout,
		logger:     logger,
	}
}

// Handle processes one message body. The returned error is informational:
// callers acknowledge the message regardless.
func (h *OrderCreatedHandler) Handle(ctx context.Context, body []byte) error {
	var ev order.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		err = fmt.Errorf("%w: %w", domainErrors.ErrInvalidInput, err)
		h.deadLetter(ctx, body, err)
		return err
	}
	if err := h.validate.Struct(ev); err != nil {
		err = validationError(err)
		h.deadLetter(ctx, body, err)
		return err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	report, err := h.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrPurchaserNotFound):
			h.recordDispatch("purchaser_not_found", nil)
		default:
			h.recordDispatch("error", nil)
			h.deadLetter(ctx, body, err)
		}
		return err
	}

	h.recordDispatch(string(report.Status), report)
	if report.Failed() > 0 {
		h.logger.Warn().
			Str("order_id", ev.ID).
			Strs("failed_recipients", report.FailedRecipients()).
			Msg("Some order notifications were not written")
	}
	return nil
}

// validationError reports the first failing field as a ValidationError that
// also matches ErrValidationFailed.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return errors.Join(domainErrors.ErrValidationFailed,
			domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed"))
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrValidationFailed, err)
}

func (h *OrderCreatedHandler) deadLetter(ctx context.Context, body []byte, cause error) {
	h.logger.Error().Err(cause).Msg("Order event could not be dispatched")
	if h.dlq == nil {
		return
	}
	// The dispatch context may already be expired.
	dlqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := h.dlq.PublishToDLQ(dlqCtx, body, cause.Error()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to publish order event to DLQ")
	}
}

func (h *OrderCreatedHandler) recordDispatch(status string, report *notification.DispatchReport) {
	if h.metrics == nil {
		return
	}
	h.metrics.DispatchesTotal.WithLabelValues(status).Inc()
	if report == nil {
		return
	}
	h.metrics.DispatchDuration.Observe(report.Duration.Seconds())
	h.metrics.NotificationWrites.WithLabelValues("success").Add(float64(report.Succeeded))
	h.metrics.NotificationWrites.WithLabelValues("failure").Add(float64(report.Failed()))
}
