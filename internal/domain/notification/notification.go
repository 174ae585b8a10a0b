package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category tags understood by the storefront clients.
const (
	CategoryOrder = "Đơn hàng"
)

// Recipient is a user who should receive a notification.
type Recipient struct {
	UserID string
}

// Record is one in-app notification addressed to a single recipient.
// Records are written once and never updated by this service.
type Record struct {
	ID          uuid.UUID
	RecipientID string
	OrderID     string
	Title       string
	Message     string
	Category    string
	CreatedAt   time.Time
	IsRead      bool
}

// Repository is the notification store. Insert is a plain insert: calling it
// twice for the same order and recipient produces two records.
type Repository interface {
	// Insert stores r. Implementations may overwrite r.CreatedAt with the
	// store's own clock.
	Insert(ctx context.Context, r *Record) error
}
