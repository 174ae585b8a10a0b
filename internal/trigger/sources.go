package trigger

import (
	"context"
	"time"

	infraRedis "github.com/cassiomorais/storenotify/internal/infrastructure/redis"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	SourceRedis = "redis"
	SourceAMQP  = "amqp"
)

const readErrorBackoff = 1 * time.Second

// StreamReader is the consumer-group side of a Redis stream.
type StreamReader interface {
	Read(ctx context.Context) ([]redis.XMessage, error)
	Ack(ctx context.Context, messageID string) error
	Stream() string
}

// RunRedis consumes order events from a Redis stream until ctx is done.
func RunRedis(ctx context.Context, reader StreamReader, h *OrderCreatedHandler, metrics *observability.Metrics, logger zerolog.Logger) error {
	logger = logger.With().Str("stream", reader.Stream()).Logger()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := reader.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error().Err(err).Msg("Failed to read from stream")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readErrorBackoff):
			}
			continue
		}

		for _, msg := range msgs {
			body, _ := msg.Values[infraRedis.PayloadField].(string)
			handleOne(ctx, SourceRedis, []byte(body), h, metrics)
			if err := reader.Ack(ctx, msg.ID); err != nil {
				logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to ack order event")
			}
		}
	}
}

// AMQPConsumer delivers message bodies from a bound queue.
type AMQPConsumer interface {
	Consume(ctx context.Context, exchange, queueName, routingKey string, handle func(ctx context.Context, body []byte)) error
}

// AMQPBinding names the queue an AMQP source reads.
type AMQPBinding struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// RunAMQP consumes order events from an AMQP queue until ctx is done.
func RunAMQP(ctx context.Context, consumer AMQPConsumer, b AMQPBinding, h *OrderCreatedHandler, metrics *observability.Metrics) error {
	return consumer.Consume(ctx, b.Exchange, b.Queue, b.RoutingKey, func(ctx context.Context, body []byte) {
		handleOne(ctx, SourceAMQP, body, h, metrics)
	})
}

func handleOne(ctx context.Context, source string, body []byte, h *OrderCreatedHandler, metrics *observability.Metrics) {
	status := "success"
	if err := h.Handle(ctx, body); err != nil {
		status = "error"
	}
	if metrics != nil {
		metrics.WorkerMessagesProcessed.WithLabelValues(source, status).Inc()
	}
}
