package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/cassiomorais/storenotify/internal/domain/outbox"
	"github.com/google/uuid"
)

// --- User Repository Mock ---

// MockUserRepository is a mock implementation of user.Repository.
type MockUserRepository struct {
	mu    sync.Mutex
	names map[string]string
	roles map[string]string

	GetDisplayNameFunc func(ctx context.Context, id string) (string, error)
	ListIDsByRoleFunc  func(ctx context.Context, role string) ([]string, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		names: make(map[string]string),
		roles: make(map[string]string),
	}
}

// AddUser pre-populates the mock with a user.
func (m *MockUserRepository) AddUser(id, name, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[id] = name
	m.roles[id] = role
}

func (m *MockUserRepository) GetDisplayName(ctx context.Context, id string) (string, error) {
	if m.GetDisplayNameFunc != nil {
		return m.GetDisplayNameFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[id]
	if !ok {
		return "", domainErrors.ErrUserNotFound
	}
	return name, nil
}

func (m *MockUserRepository) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	if m.ListIDsByRoleFunc != nil {
		return m.ListIDsByRoleFunc(ctx, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, r := range m.roles {
		if r == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// --- Notification Repository Mock ---

// MockNotificationRepository is a mock implementation of notification.Repository.
type MockNotificationRepository struct {
	mu      sync.Mutex
	records []*notification.Record

	InsertFunc func(ctx context.Context, r *notification.Record) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Insert(ctx context.Context, r *notification.Record) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.CreatedAt = time.Now()
	m.records = append(m.records, r)
	return nil
}

// Records returns a copy of every stored record.
func (m *MockNotificationRepository) Records() []*notification.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*notification.Record, len(m.records))
	copy(out, m.records)
	return out
}

// RecordsFor returns the records addressed to recipientID.
func (m *MockNotificationRepository) RecordsFor(recipientID string) []*notification.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.Record
	for _, r := range m.records {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out
}

// --- Callback Repository Mock ---

// MockCallbackRepository is a mock implementation of callback.SettlementRepository.
type MockCallbackRepository struct {
	mu        sync.Mutex
	callbacks map[string]*callback.VerifiedCallback

	RecordCallbackFunc func(ctx context.Context, vc *callback.VerifiedCallback) (bool, error)
}

func NewMockCallbackRepository() *MockCallbackRepository {
	return &MockCallbackRepository{callbacks: make(map[string]*callback.VerifiedCallback)}
}

func (m *MockCallbackRepository) RecordCallback(ctx context.Context, vc *callback.VerifiedCallback) (bool, error) {
	if m.RecordCallbackFunc != nil {
		return m.RecordCallbackFunc(ctx, vc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.callbacks[vc.AppTransID]; ok {
		return false, nil
	}
	m.callbacks[vc.AppTransID] = vc
	return true, nil
}

// Count returns the number of distinct callbacks recorded.
func (m *MockCallbackRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.callbacks)
}

// --- Transaction Manager Mock ---

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is a mock implementation of outbox.Repository.
type MockOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*outbox.Entry
	order   []uuid.UUID

	AppendFunc        func(ctx context.Context, entry *outbox.Entry) error
	MarkPublishedFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{entries: make(map[uuid.UUID]*outbox.Entry)}
}

func (m *MockOutboxRepository) Append(ctx context.Context, entry *outbox.Entry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MockOutboxRepository) ClaimPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*outbox.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if e.Status == outbox.StatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		now := time.Now()
		e.Status = outbox.StatusPublished
		e.PublishedAt = &now
	}
	return nil
}

func (m *MockOutboxRepository) RecordFailure(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.RetryCount++
		if e.RetryCount >= e.MaxRetries {
			e.Status = outbox.StatusFailed
		}
	}
	return nil
}

// Entries returns every entry in insertion order.
func (m *MockOutboxRepository) Entries() []*outbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*outbox.Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out
}
