package notification_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	notificationApp "github.com/cassiomorais/storenotify/internal/application/notification"
	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/cassiomorais/storenotify/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(users *testutil.MockUserRepository, store notification.Repository, cfg notificationApp.DispatcherConfig) *notificationApp.Dispatcher {
	resolver := notificationApp.NewRecipientResolver(users, "admin")
	return notificationApp.NewDispatcher(users, resolver, store, cfg, zerolog.Nop())
}

func defaultConfig() notificationApp.DispatcherConfig {
	return notificationApp.DispatcherConfig{WriteTimeout: time.Second, MaxConcurrency: 4}
}

func TestDispatch_SingleAdmin_MessageFormat(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	users.AddUser("admin-1", "Lan", "admin")
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("abc12345XYZ", "buyer-1", 150000))
	require.NoError(t, err)

	assert.Equal(t, notification.DispatchCompleted, report.Status)
	assert.Equal(t, 1, report.Targeted)
	assert.Equal(t, 1, report.Succeeded)

	records := store.RecordsFor("admin-1")
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Đơn hàng mới", rec.Title)
	assert.Equal(t, "Đơn hàng #abc12345 từ khách hàng Minh với tổng giá trị 150.000 ₫.", rec.Message)
	assert.Equal(t, "Đơn hàng", rec.Category)
	assert.Equal(t, "abc12345XYZ", rec.OrderID)
	assert.False(t, rec.IsRead)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestDispatch_AllAdminsNotified(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		users.AddUser(id, id, "admin")
	}
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0001", "buyer-1", 99000))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Succeeded)
	assert.Len(t, report.Records, 5)
	assert.Empty(t, report.Failures)
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		assert.Len(t, store.RecordsFor(id), 1, "recipient %s", id)
	}
	assert.Empty(t, store.RecordsFor("buyer-1"))
}

func TestDispatch_OneWriteFails_OthersKept(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	users.AddUser("a1", "A1", "admin")
	users.AddUser("a2", "A2", "admin")
	users.AddUser("a3", "A3", "admin")

	store := testutil.NewMockNotificationRepository()
	store.InsertFunc = func(ctx context.Context, r *notification.Record) error {
		if r.RecipientID == "a2" {
			return errors.New("connection reset")
		}
		return nil
	}

	d := newDispatcher(users, store, defaultConfig())
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0002", "buyer-1", 10000))
	require.NoError(t, err)

	assert.Equal(t, notification.DispatchPartialFailure, report.Status)
	assert.Equal(t, 3, report.Targeted)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, []string{"a2"}, report.FailedRecipients())
	assert.ErrorIs(t, report.Failures[0].Err, domainErrors.ErrNotificationWriteFailed)

	assert.Len(t, store.Records(), 2)
	assert.Len(t, store.RecordsFor("a1"), 1)
	assert.Len(t, store.RecordsFor("a3"), 1)
	assert.Empty(t, store.RecordsFor("a2"))
}

func TestDispatch_WriteTimeout_CountsAsFailure(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	users.AddUser("slow", "Slow", "admin")
	users.AddUser("fast", "Fast", "admin")

	store := testutil.NewMockNotificationRepository()
	store.InsertFunc = func(ctx context.Context, r *notification.Record) error {
		if r.RecipientID == "slow" {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	cfg := notificationApp.DispatcherConfig{WriteTimeout: 20 * time.Millisecond}
	d := newDispatcher(users, store, cfg)
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0003", "buyer-1", 1))
	require.NoError(t, err)

	assert.Equal(t, notification.DispatchPartialFailure, report.Status)
	assert.Equal(t, []string{"slow"}, report.FailedRecipients())
	assert.ErrorIs(t, report.Failures[0].Err, context.DeadlineExceeded)
	assert.Len(t, store.RecordsFor("fast"), 1)
}

func TestDispatch_NoRecipients(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0004", "buyer-1", 5000))
	require.NoError(t, err)

	assert.Equal(t, notification.DispatchNoRecipients, report.Status)
	assert.Zero(t, report.Targeted)
	assert.Zero(t, report.Succeeded)
	assert.Empty(t, store.Records())
}

func TestDispatch_PurchaserNotFound(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("a1", "A1", "admin")
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0005", "ghost", 5000))

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domainErrors.ErrPurchaserNotFound)
	assert.Empty(t, store.Records())
}

func TestDispatch_EmptyPurchaserName_FallsBackToUnknown(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "", "customer")
	users.AddUser("a1", "A1", "admin")
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	_, err := d.Dispatch(context.Background(), testutil.NewTestOrder("abcdefghij", "buyer-1", 1234567))
	require.NoError(t, err)

	records := store.RecordsFor("a1")
	require.Len(t, records, 1)
	assert.Equal(t, "Đơn hàng #abcdefgh từ khách hàng Unknown với tổng giá trị 1.234.567 ₫.", records[0].Message)
}

func TestDispatch_UserStoreDown(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.GetDisplayNameFunc = func(ctx context.Context, id string) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	_, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0006", "buyer-1", 1))

	assert.ErrorIs(t, err, domainErrors.ErrUpstreamUnavailable)
	assert.Empty(t, store.Records())
}

func TestDispatch_ResolverDown(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	users.ListIDsByRoleFunc = func(ctx context.Context, role string) ([]string, error) {
		return nil, errors.New("timeout")
	}
	store := testutil.NewMockNotificationRepository()

	d := newDispatcher(users, store, defaultConfig())
	_, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0007", "buyer-1", 1))

	assert.ErrorIs(t, err, domainErrors.ErrUpstreamUnavailable)
	assert.Empty(t, store.Records())
}

func TestDispatch_RespectsConcurrencyLimit(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.AddUser("buyer-1", "Minh", "customer")
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"} {
		users.AddUser(id, id, "admin")
	}

	var inFlight, peak atomic.Int32
	store := testutil.NewMockNotificationRepository()
	store.InsertFunc = func(ctx context.Context, r *notification.Record) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	cfg := notificationApp.DispatcherConfig{WriteTimeout: time.Second, MaxConcurrency: 2}
	d := newDispatcher(users, store, cfg)
	report, err := d.Dispatch(context.Background(), testutil.NewTestOrder("order-0008", "buyer-1", 1))
	require.NoError(t, err)

	assert.Equal(t, 8, report.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
