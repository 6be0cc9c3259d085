package redisstate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, "test:"), mr
}

func TestRedisSessionStore_RevokeAndCheck(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "abc", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("test:session:abc:revoked"))

	ttl := mr.TTL("test:session:abc:revoked")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "unexpected ttl %s", ttl)

	// 过期后 key 自动消失
	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisSessionStore_ExpiredSessionIsNotStored(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("test:session:old:revoked"))
}

func TestRedisSessionStore_EmptyID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Revoke(ctx, "", time.Now().Add(time.Hour)))
	revoked, err := store.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisSessionStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}

func TestNewRedisSessionStore_NilClient(t *testing.T) {
	assert.Panics(t, func() { NewRedisSessionStore(nil, "") })
}
