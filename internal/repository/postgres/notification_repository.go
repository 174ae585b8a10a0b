package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Insert writes one notification. created_at is assigned by the database.
func (r *NotificationRepository) Insert(ctx context.Context, n *notification.Record) error {
	err := r.db(ctx).QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, order_id, title, message, type, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING created_at`,
		n.ID, n.RecipientID, n.OrderID, n.Title, n.Message, n.Category, n.IsRead,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification for %s: %w", n.RecipientID, err)
	}
	return nil
}
