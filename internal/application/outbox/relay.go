package outbox

import (
	"context"
	"time"

	"github.com/cassiomorais/storenotify/internal/domain/outbox"
	"github.com/cassiomorais/storenotify/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// TransactionManager defines the interface for transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher delivers an outbox entry to the event stream.
type EventPublisher interface {
	PublishEvent(ctx context.Context, aggregateID, eventType string, data map[string]any) error
}

// Relay moves pending outbox entries to the event stream.
type Relay struct {
	repo      outbox.Repository
	txManager TransactionManager
	publisher EventPublisher
	batchSize int
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

func NewRelay(
	repo outbox.Repository,
	txManager TransactionManager,
	publisher EventPublisher,
	batchSize int,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Relay {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Relay{
		repo:      repo,
		txManager: txManager,
		publisher: publisher,
		batchSize: batchSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run polls the outbox every interval until ctx is done.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if _, err := r.RelayBatch(ctx); err != nil {
			r.logger.Error().Err(err).Msg("Outbox processor error")
		}
	}
}

// RelayBatch publishes one batch of pending entries and returns how many
// were published.
func (r *Relay) RelayBatch(ctx context.Context) (int, error) {
	published := 0
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		entries, err := r.repo.ClaimPending(txCtx, r.batchSize)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := r.publisher.PublishEvent(ctx, entry.AggregateID, entry.EventType, entry.Payload); err != nil {
				r.logger.Error().Err(err).Str("outbox_id", entry.ID.String()).Msg("Failed to publish outbox event")
				r.record("failure")
				if err := r.repo.RecordFailure(txCtx, entry.ID); err != nil {
					return err
				}
				continue
			}
			if err := r.repo.MarkPublished(txCtx, entry.ID); err != nil {
				return err
			}
			r.record("success")
			published++
		}
		return nil
	})
	return published, err
}

func (r *Relay) record(result string) {
	if r.metrics != nil {
		r.metrics.OutboxPublished.WithLabelValues(result).Inc()
	}
}
