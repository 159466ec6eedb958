package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func testManager(t *testing.T) (*Manager, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	m, err := newManager(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	require.NoError(t, err)
	return m, store
}

func TestGenerateStoresDigestOnly(t *testing.T) {
	m, store := testManager(t)
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)
	stored := store.data[store.AccessSessionKey("jti-1")]
	assert.NotEqual(t, token, stored)
	assert.Equal(t, digest(token), stored)
	assert.Equal(t, time.Hour, store.ttls[store.AccessSessionKey("jti-1")])

	ok, err := m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRotateIsSingleUse(t *testing.T) {
	m, store := testManager(t)
	ctx := context.Background()
	token, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, "jti-1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	newID, newToken, err := m.Rotate(ctx, "jti-1", token)
	require.NoError(t, err)
	assert.NotEqual(t, "jti-1", newID)
	assert.NotContains(t, store.data, store.AccessSessionKey("jti-1"))
	assert.Equal(t, digest(newToken), store.data[store.AccessSessionKey(newID)])

	_, _, err = m.Rotate(ctx, "jti-1", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeAndHasSession(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	_, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, "jti-1"))
	ok, err := m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, m.Revoke(ctx, " "))
	_, err = m.HasSession(ctx, "")
	assert.Error(t, err)
}

func TestStoreFailuresSurface(t *testing.T) {
	m, store := testManager(t)
	store.err = errors.New("connection refused")

	_, err := m.HasSession(context.Background(), "jti-1")
	assert.ErrorContains(t, err, "connection refused")
	_, _, err = m.Rotate(context.Background(), "jti-1", "token")
	assert.ErrorContains(t, err, "connection refused")
}

func TestNewManagerRejectsShortRefreshTTL(t *testing.T) {
	_, err := newManager(newMemoryStore(), config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30})
	assert.Error(t, err)
	_, err = NewManager(nil, config.JWTConfig{})
	assert.Error(t, err)
}
