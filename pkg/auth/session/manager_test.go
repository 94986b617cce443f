package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	redisclient "github.com/lopeshyago/fusionbackapp/pkg/redis"
)

type mockStore struct {
	mu   sync.Mutex
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{ttls: make(map[string]time.Duration)}
}

func (m *mockStore) SetFlag(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) HasKey(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.ttls[key]
	return ok, nil
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, key: redisclient.Keyspace("test").Revoked}
}

func TestManagerRevokeAndCheck(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	revoked, err := manager.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected fresh token to be valid, revoked=%v err=%v", revoked, err)
	}

	if err := manager.Revoke(ctx, " jti-1 ", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if store.ttls["test:revoked:jti-1"] != time.Hour {
		t.Fatalf("expected revocation to live for the token ttl, got %v", store.ttls)
	}

	revoked, err = manager.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected token to be revoked, revoked=%v err=%v", revoked, err)
	}
}

func TestManagerRevokeExpiredIsNoop(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	if err := manager.Revoke(context.Background(), "jti-2", 0); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(store.ttls) != 0 {
		t.Fatalf("expected no entry for expired token, got %v", store.ttls)
	}
	if err := manager.Revoke(context.Background(), " ", time.Minute); !errors.Is(err, errMissingJTI) {
		t.Fatalf("expected blank jti to be rejected, got %v", err)
	}
}

func TestManagerPropagatesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("redis down")
	manager := newTestManager(store)
	if _, err := manager.IsRevoked(context.Background(), "jti-3"); !errors.Is(err, store.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if err := manager.Revoke(context.Background(), "jti-3", time.Minute); !errors.Is(err, store.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestNewManagerRequiresClient(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Fatal("expected nil client to be rejected")
	}
}
