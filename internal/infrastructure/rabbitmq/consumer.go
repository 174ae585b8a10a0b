package rabbitmq

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads one topic binding from a durable queue.
type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	parsed, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return "", fmt.Errorf("invalid AMQP scheme: %s", parsed.Scheme)
	}
	return clean, nil
}

func NewConsumer(amqpURL string) (*Consumer, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	return &Consumer{conn: conn, ch: ch}, nil
}

// Consume declares exchange and queue, binds routingKey and calls handle for
// every delivery until ctx is done or the channel closes. Deliveries are
// acked after handle returns, whatever it returned.
func (c *Consumer) Consume(ctx context.Context, exchange, queueName, routingKey string, handle func(ctx context.Context, body []byte)) error {
	if err := c.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	q, err := c.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	if err := c.ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queueName, err)
	}

	msgs, err := c.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed")
			}
			handle(ctx, d.Body)
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("ack delivery: %w", err)
			}
		}
	}
}

func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
