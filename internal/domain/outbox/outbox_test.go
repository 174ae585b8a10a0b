package outbox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	payload := map[string]any{
		"app_trans_id": "240101_000123",
		"amount":       int64(150000),
	}

	entry := NewEntry("payment_callback", "240101_000123", EventPaymentConfirmed, payload)

	require.NotNil(t, entry)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "payment_callback", entry.AggregateType)
	assert.Equal(t, "240101_000123", entry.AggregateID)
	assert.Equal(t, EventPaymentConfirmed, entry.EventType)
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, StatusPending, entry.Status)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Equal(t, 5, entry.MaxRetries)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Nil(t, entry.PublishedAt)
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	a := NewEntry("payment_callback", "x", EventPaymentConfirmed, nil)
	b := NewEntry("payment_callback", "x", EventPaymentConfirmed, nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Payload)
}
