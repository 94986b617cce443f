// Package testutil builds migrated, file-backed SQLite stores for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/migrate"
	"github.com/stretchr/testify/require"
)

// NewDB opens a fresh database under t.TempDir() with every migration applied.
func NewDB(t *testing.T) *db.Client {
	t.Helper()
	ctx := context.Background()

	client, err := db.New(ctx, config.DBConfig{
		Path:        filepath.Join(t.TempDir(), "fusion.db"),
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	_, err = migrate.Ensure(ctx, sqlDB)
	require.NoError(t, err)
	return client
}

// TestPasswordConfig keeps argon2 cheap enough for unit tests.
func TestPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

// TestJWTConfig returns a signing configuration usable in tests.
func TestJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "fusion-test", ExpirationMinutes: 60}
}
