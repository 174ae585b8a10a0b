package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/cassiomorais/storenotify/internal/domain/order"
	"github.com/cassiomorais/storenotify/internal/domain/user"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	orderTitle       = "Đơn hàng mới"
	unknownPurchaser = "Unknown"
)

// Resolver returns the recipients of an order notification.
type Resolver interface {
	Resolve(ctx context.Context) ([]notification.Recipient, error)
}

// DispatcherConfig bounds the fan-out.
type DispatcherConfig struct {
	// WriteTimeout applies to each recipient's write separately.
	WriteTimeout time.Duration
	// MaxConcurrency caps in-flight writes; 0 means unbounded.
	MaxConcurrency int
}

// Dispatcher writes one notification per administrator for a new order.
// Writes are independent: a failed write is reported and never undoes or
// cancels the others.
type Dispatcher struct {
	users    user.Repository
	resolver Resolver
	store    notification.Repository
	cfg      DispatcherConfig
	logger   zerolog.Logger
}

func NewDispatcher(
	users user.Repository,
	resolver Resolver,
	store notification.Repository,
	cfg DispatcherConfig,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:    users,
		resolver: resolver,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Dispatch notifies every administrator about ev. It returns an error only
// when the purchaser does not exist or an upstream store cannot be read;
// per-recipient failures are listed in the report.
func (d *Dispatcher) Dispatch(ctx context.Context, ev order.Event) (*notification.DispatchReport, error) {
	start := time.Now()
	log := d.logger.With().Str("order_id", ev.ID).Logger()

	name, err := d.users.GetDisplayName(ctx, ev.PurchaserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			log.Warn().Str("purchaser_id", ev.PurchaserID).Msg("Purchaser not found, skipping order notification")
			return nil, fmt.Errorf("order %s: %w", ev.ID, domainErrors.ErrPurchaserNotFound)
		}
		log.Error().Err(err).Msg("Failed to load purchaser")
		return nil, domainErrors.Upstream("load purchaser", err)
	}
	if name == "" {
		name = unknownPurchaser
	}

	recipients, err := d.resolver.Resolve(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve notification recipients")
		return nil, err
	}

	report := &notification.DispatchReport{
		OrderID:  ev.ID,
		Targeted: len(recipients),
	}
	if len(recipients) == 0 {
		log.Info().Msg("No administrators to notify")
		report.Status = notification.DispatchNoRecipients
		report.Duration = time.Since(start)
		return report, nil
	}

	msg := orderMessage(ev, name)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if d.cfg.MaxConcurrency > 0 {
		g.SetLimit(d.cfg.MaxConcurrency)
	}

	for _, rcpt := range recipients {
		g.Go(func() error {
			rec := &notification.Record{
				ID:          uuid.New(),
				RecipientID: rcpt.UserID,
				OrderID:     ev.ID,
				Title:       orderTitle,
				Message:     msg,
				Category:    notification.CategoryOrder,
				IsRead:      false,
			}

			err := d.write(ctx, rec)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("recipient_id", rcpt.UserID).Msg("Failed to write notification")
				report.Failures = append(report.Failures, notification.WriteFailure{
					RecipientID: rcpt.UserID,
					Err:         fmt.Errorf("%w: %w", domainErrors.ErrNotificationWriteFailed, err),
				})
				return nil
			}
			report.Records = append(report.Records, rec)
			report.Succeeded++
			return nil
		})
	}
	// Goroutines never return errors; failures live in the report.
	_ = g.Wait()

	report.Status = notification.DispatchCompleted
	if len(report.Failures) > 0 {
		report.Status = notification.DispatchPartialFailure
	}
	report.Duration = time.Since(start)

	log.Info().
		Str("status", string(report.Status)).
		Int("targeted", report.Targeted).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed()).
		Dur("duration", report.Duration).
		Msg("Order notification dispatched")

	return report, nil
}

func (d *Dispatcher) write(ctx context.Context, rec *notification.Record) error {
	if d.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.WriteTimeout)
		defer cancel()
	}
	return d.store.Insert(ctx, rec)
}

func orderMessage(ev order.Event, purchaser string) string {
	return fmt.Sprintf("Đơn hàng #%s từ khách hàng %s với tổng giá trị %s.",
		ev.ShortID(), purchaser, FormatVND(ev.TotalAmount))
}
