// Package session tracks revoked access tokens so logout takes effect before expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/lopeshyago/fusionbackapp/pkg/redis"
)

var errMissingJTI = errors.New("token id is required")

type flagStore interface {
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
	HasKey(ctx context.Context, key string) (bool, error)
}

// RevocationChecker is the read side consumed by the auth middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Manager keeps a denylist entry per revoked jti until the token would have
// expired anyway.
type Manager struct {
	store flagStore
	key   func(jti string) string
}

func NewManager(client *redisclient.Client) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Manager{store: client, key: client.Keys().Revoked}, nil
}

// Revoke denylists jti for ttl. Tokens already past expiry are skipped.
func (m *Manager) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return errMissingJTI
	}
	if ttl <= 0 {
		return nil
	}
	if err := m.store.SetFlag(ctx, m.key(jti), ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked treats a blank jti as never revoked; signature checks reject such
// tokens earlier.
func (m *Manager) IsRevoked(ctx context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, nil
	}
	revoked, err := m.store.HasKey(ctx, m.key(jti))
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}
