package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// OrderCreatedStream carries order-created events from the order store.
	OrderCreatedStream = "orders:created"
	// OrderDLQStream keeps order events whose dispatch failed at the
	// dispatch level, for operator replay.
	OrderDLQStream = "orders:dlq"
	// PaymentEventsStream receives events relayed from the outbox.
	PaymentEventsStream = "payments:events"

	// PayloadField is the stream field holding the JSON body.
	PayloadField = "payload"
)

type StreamProducer struct {
	client *redis.Client
}

func NewStreamProducer(client *redis.Client) *StreamProducer {
	return &StreamProducer{client: client}
}

// PublishEvent appends an integration event to PaymentEventsStream.
func (p *StreamProducer) PublishEvent(ctx context.Context, aggregateID, eventType string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: PaymentEventsStream,
		Values: map[string]any{
			"aggregate_id": aggregateID,
			"event_type":   eventType,
			PayloadField:   string(payload),
			"timestamp":    time.Now().Unix(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// PublishToDLQ parks a message body together with the failure reason.
func (p *StreamProducer) PublishToDLQ(ctx context.Context, body []byte, reason string) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: OrderDLQStream,
		Values: map[string]any{
			"reason":     reason,
			PayloadField: string(body),
			"timestamp":  time.Now().Unix(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}
	return nil
}

type StreamConsumer struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	batchSize     int64
	blockDuration time.Duration
}

func NewStreamConsumer(
	client *redis.Client,
	stream string,
	group string,
	consumer string,
	batchSize int64,
	blockDuration time.Duration,
) *StreamConsumer {
	return &StreamConsumer{
		client:        client,
		stream:        stream,
		group:         group,
		consumer:      consumer,
		batchSize:     batchSize,
		blockDuration: blockDuration,
	}
}

// CreateGroup creates the consumer group, and the stream if needed.
func (c *StreamConsumer) CreateGroup(ctx context.Context) error {
	const busyGroupMsg = "BUSYGROUP"
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), busyGroupMsg) {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (c *StreamConsumer) Read(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    c.batchSize,
		Block:    c.blockDuration,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []redis.XMessage
	for _, s := range streams {
		messages = append(messages, s.Messages...)
	}
	return messages, nil
}

func (c *StreamConsumer) Ack(ctx context.Context, messageID string) error {
	if err := c.client.XAck(ctx, c.stream, c.group, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	return nil
}

// Stream returns the stream name the consumer reads.
func (c *StreamConsumer) Stream() string {
	return c.stream
}
