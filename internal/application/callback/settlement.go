package callback

import (
	"context"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/outbox"
	"github.com/rs/zerolog"
)

const aggregatePayment = "payment"

// SettleUseCase records accepted callbacks and queues a payment.confirmed
// event for downstream services. Both writes share one transaction, and a
// redelivered callback produces neither.
type SettleUseCase struct {
	callbacks callback.SettlementRepository
	outbox    OutboxWriter
	txManager TransactionManager
	logger    zerolog.Logger
}

func NewSettleUseCase(
	callbacks callback.SettlementRepository,
	outboxWriter OutboxWriter,
	txManager TransactionManager,
	logger zerolog.Logger,
) *SettleUseCase {
	return &SettleUseCase{
		callbacks: callbacks,
		outbox:    outboxWriter,
		txManager: txManager,
		logger:    logger,
	}
}

func (uc *SettleUseCase) Settle(ctx context.Context, vc *callback.VerifiedCallback) error {
	return uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		inserted, err := uc.callbacks.RecordCallback(txCtx, vc)
		if err != nil {
			return domainErrors.Upstream("record callback", err)
		}
		if !inserted {
			uc.logger.Debug().Str("app_trans_id", vc.AppTransID).Msg("Duplicate callback, already settled")
			return nil
		}

		entry := outbox.NewEntry(aggregatePayment, vc.AppTransID, outbox.EventPaymentConfirmed, map[string]any{
			"app_trans_id":     vc.AppTransID,
			"zp_trans_id":      vc.ZPTransID,
			"app_id":           vc.AppID,
			"app_user":         vc.AppUser,
			"amount":           vc.Amount,
			"server_time":      vc.ServerTime,
			"channel":          vc.Channel,
			"merchant_user_id": vc.MerchantUserID,
		})
		if err := uc.outbox.Append(txCtx, entry); err != nil {
			return domainErrors.Upstream("queue payment event", err)
		}
		return nil
	})
}
