package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Event types relayed from the outbox.
const (
	EventPaymentConfirmed = "payment.confirmed"
)

// Entry is a pending integration event written in the same transaction as
// the state change it describes. AggregateID is the gateway's transaction
// id, which is not a UUID.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       map[string]any
	Status        Status
	RetryCount    int
	MaxRetries    int
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

func NewEntry(aggregateType, aggregateID, eventType string, payload map[string]any) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		Status:        StatusPending,
		RetryCount:    0,
		MaxRetries:    5,
		CreatedAt:     time.Now(),
	}
}
