package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CallbackRepository implements callback.SettlementRepository.
type CallbackRepository struct {
	pool *pgxpool.Pool
}

// NewCallbackRepository creates a new CallbackRepository.
func NewCallbackRepository(pool *pgxpool.Pool) *CallbackRepository {
	return &CallbackRepository{pool: pool}
}

func (r *CallbackRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// RecordCallback inserts the callback unless one with the same app_trans_id
// already exists.
func (r *CallbackRepository) RecordCallback(ctx context.Context, vc *callback.VerifiedCallback) (bool, error) {
	tag, err := r.db(ctx).Exec(ctx,
		`INSERT INTO payment_callbacks (app_trans_id, zp_trans_id, app_id, app_user, amount, server_time, channel, raw_data, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (app_trans_id) DO NOTHING`,
		vc.AppTransID, vc.ZPTransID, vc.AppID, vc.AppUser, vc.Amount, vc.ServerTime, vc.Channel, vc.Raw,
	)
	if err != nil {
		return false, fmt.Errorf("insert payment callback: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
