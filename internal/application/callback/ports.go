package callback

import (
	"context"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	"github.com/cassiomorais/storenotify/internal/domain/outbox"
)

// Settler acts on an accepted callback. Implementations must treat
// AppTransID as an idempotency key: the gateway redelivers callbacks.
type Settler interface {
	Settle(ctx context.Context, vc *callback.VerifiedCallback) error
}

// TransactionManager defines the interface for transaction management.
// This is an application-layer port, not a domain concern.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxWriter defines the interface for writing to the transactional outbox.
type OutboxWriter interface {
	Append(ctx context.Context, entry *outbox.Entry) error
}
