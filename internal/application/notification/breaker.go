package notification

import (
	"context"
	"time"

	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore guards a notification store with a circuit breaker so a
// failing store is not hammered by every fan-out. While open, writes fail
// immediately with gobreaker.ErrOpenState.
type BreakerStore struct {
	next    notification.Repository
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerStore wraps next. onStateChange may be nil.
func NewBreakerStore(next notification.Repository, openTimeout time.Duration, onStateChange func(name string, from, to gobreaker.State)) *BreakerStore {
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	return &BreakerStore{
		next: next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "notification-store",
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 10 && failureRatio >= 0.6
			},
			OnStateChange: onStateChange,
		}),
	}
}

func (s *BreakerStore) Insert(ctx context.Context, r *notification.Record) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.next.Insert(ctx, r)
	})
	return err
}

// State reports the breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}
