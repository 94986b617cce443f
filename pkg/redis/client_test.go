package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCommands()
	client := &Client{cmd: mock, keys: "test"}

	for i, want := range []bool{true, true, false} {
		allowed, count, err := client.FixedWindowAllow(ctx, "auth:login:ip:1.2.3.4", 2, time.Minute)
		if err != nil {
			t.Fatalf("hit %d: unexpected error: %v", i+1, err)
		}
		if allowed != want || count != int64(i+1) {
			t.Fatalf("hit %d: allowed=%v count=%d", i+1, allowed, count)
		}
	}
	if len(mock.expires) != 1 {
		t.Fatalf("expected the window to be armed once, got %d expire calls", len(mock.expires))
	}
	if got := mock.expires["test:rate_limit:auth:login:ip:1.2.3.4"]; got != time.Minute {
		t.Fatalf("unexpected window ttl %v", got)
	}
}

func TestFixedWindowAllowSurfacesErrors(t *testing.T) {
	mock := newMockCommands()
	mock.err = errors.New("connection refused")
	client := &Client{cmd: mock}

	if _, _, err := client.FixedWindowAllow(context.Background(), "scope", 1, time.Second); err == nil {
		t.Fatal("expected store error")
	}
}

func TestFlags(t *testing.T) {
	ctx := context.Background()
	mock := newMockCommands()
	client := &Client{cmd: mock}

	key := client.Keys().Revoked("jti-1")
	if err := client.SetFlag(ctx, key, 10*time.Minute); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if mock.ttls[key] != 10*time.Minute {
		t.Fatalf("expected ttl to be passed through, got %v", mock.ttls[key])
	}
	ok, err := client.HasKey(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected flag present, ok=%v err=%v", ok, err)
	}
	ok, err = client.HasKey(ctx, client.Keys().Revoked("other"))
	if err != nil || ok {
		t.Fatalf("expected missing flag, ok=%v err=%v", ok, err)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.HasKey(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on uninitialized client should be a no-op, got %v", err)
	}
}

func TestKeyspace(t *testing.T) {
	cases := []struct {
		keys Keyspace
		got  string
		want string
	}{
		{DefaultKeyspace, DefaultKeyspace.RateLimit("auth:login:ip:1.2.3.4"), "fusion:rate_limit:auth:login:ip:1.2.3.4"},
		{"staging", Keyspace("staging").Revoked("abc"), "staging:revoked:abc"},
		{"", Keyspace("").Revoked("abc"), "fusion:revoked:abc"},
		{"fusion", Keyspace("fusion").Revoked(" "), "fusion:revoked"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("keyspace %q: expected %s got %s", tc.keys, tc.want, tc.got)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 5, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 5 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options db=%d pool=%d dial=%v", opts.DB, opts.PoolSize, opts.DialTimeout)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	if err != nil {
		t.Fatalf("address config: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 3 {
		t.Fatalf("unexpected options addr=%s db=%d", opts.Addr, opts.DB)
	}

	if _, err := optionsFromConfig(config.RedisConfig{URL: "://bad"}); err == nil {
		t.Fatal("expected malformed url to fail")
	}
}

type mockCommands struct {
	data    map[string]int64
	ttls    map[string]time.Duration
	expires map[string]time.Duration
	err     error
}

func newMockCommands() *mockCommands {
	return &mockCommands{
		data:    make(map[string]int64),
		ttls:    make(map[string]time.Duration),
		expires: make(map[string]time.Duration),
	}
}

func (m *mockCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func (m *mockCommands) Set(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = 1
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", m.err)
}

func (m *mockCommands) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, m.err)
}

func (m *mockCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.data[key]++
	return redis.NewIntResult(m.data[key], nil)
}

func (m *mockCommands) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expires[key] = ttl
	return redis.NewBoolResult(true, m.err)
}
