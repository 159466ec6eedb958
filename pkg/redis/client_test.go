package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCountInWindow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for want := int64(1); want <= 3; want++ {
		count, err := client.CountInWindow(ctx, "auth:login:ip:1.2.3.4", 15*time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Fatalf("expected counter %d got %d", want, count)
		}
	}
	if got := mock.incr["wd:rate_limit:auth:login:ip:1.2.3.4"]; got != 3 {
		t.Fatalf("counter stored under unexpected key, got %d", got)
	}
	if len(mock.expireCalls) != 1 || mock.expireCalls[0].ttl != 15*time.Minute {
		t.Fatalf("expected a single window start, got %+v", mock.expireCalls)
	}
	if _, err := (&Client{}).CountInWindow(ctx, "x", time.Second); err == nil {
		t.Fatal("expected uninitialized client error")
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, client.AccessSessionKey("jti-1"), "refresh", 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, err := client.Get(ctx, "wd:session:access:jti-1")
	if err != nil || token != "refresh" {
		t.Fatalf("unexpected get result %q %v", token, err)
	}

	if err := client.Del(ctx, "wd:session:access:jti-1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "wd:session:access:jti-1"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}

	ok, err := client.SetNX(ctx, client.LockKey("sweep"), "owner", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first setnx to win: %v %v", ok, err)
	}
	ok, _ = client.SetNX(ctx, client.LockKey("sweep"), "other", time.Minute)
	if ok {
		t.Fatal("expected second setnx to lose")
	}
}

func TestDelIfValueOnlyRemovesOwnedKey(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.LockKey("booking-sweep")
	mock.data[key] = "worker-a"

	deleted, err := client.DelIfValue(ctx, key, "worker-b")
	if err != nil || deleted {
		t.Fatalf("foreign owner must not delete: %v %v", deleted, err)
	}
	if _, ok := mock.data[key]; !ok {
		t.Fatal("lock dropped by foreign owner")
	}
	deleted, err = client.DelIfValue(ctx, key, "worker-a")
	if err != nil || !deleted {
		t.Fatalf("owner delete failed: %v %v", deleted, err)
	}
	if _, err := (&Client{}).DelIfValue(ctx, key, "x"); err == nil {
		t.Fatal("expected uninitialized client error")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without raw client should be a no-op: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "wd:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "wd:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.LockKey("booking_lifecycle"); got != "wd:lock:booking_lifecycle" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.AccessSessionKey("jti"); got != "wd:session:access:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.IdempotencyKey("scope", ""); got != "wd:idempotency:scope" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Eval understands the two scripts the client sends.
func (m *mockCmdable) Eval(_ context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, fmt.Errorf("unexpected script arity"))
	}
	key := keys[0]
	switch script {
	case compareAndDelete:
		if v, ok := m.data[key]; ok && v == fmt.Sprint(args[0]) {
			delete(m.data, key)
			return redis.NewCmdResult(int64(1), nil)
		}
		return redis.NewCmdResult(int64(0), nil)
	case incrWindow:
		m.incr[key]++
		if ms, _ := args[0].(int64); m.incr[key] == 1 && ms > 0 {
			m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: time.Duration(ms) * time.Millisecond})
		}
		return redis.NewCmdResult(m.incr[key], nil)
	}
	return redis.NewCmdResult(nil, fmt.Errorf("unexpected script"))
}
