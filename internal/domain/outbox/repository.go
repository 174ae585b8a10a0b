package outbox

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores payment.confirmed entries written by callback settlement
// and drained by the worker's relay.
type Repository interface {
	// Append records entry in the caller's settlement transaction.
	Append(ctx context.Context, entry *Entry) error

	// ClaimPending locks up to limit pending entries, oldest first, for the
	// relay transaction in ctx. Rows claimed by another relay are skipped.
	ClaimPending(ctx context.Context, limit int) ([]*Entry, error)

	MarkPublished(ctx context.Context, id uuid.UUID) error

	// RecordFailure counts a failed publish. The entry turns failed once
	// RetryCount reaches MaxRetries and is no longer claimed.
	RecordFailure(ctx context.Context, id uuid.UUID) error
}
