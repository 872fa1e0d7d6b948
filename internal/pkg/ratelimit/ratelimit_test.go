package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenRefill(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	current := time.Unix(1700000000, 0)
	l.now = func() time.Time { return current }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "ip:1.2.3.4")
	assert.False(t, ok)

	// Other keys have their own bucket
	ok, _ = l.Allow(ctx, "ip:5.6.7.8")
	assert.True(t, ok)

	// One token every 20s
	current = current.Add(20 * time.Second)
	ok, _ = l.Allow(ctx, "ip:1.2.3.4")
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(1, time.Second)
	current := time.Unix(1700000000, 0)
	l.now = func() time.Time { return current }

	l.limiters["stale"] = &entry{lastSeen: current.Add(-time.Hour)}
	l.limiters["fresh"] = &entry{lastSeen: current}
	l.sweep(current)

	assert.NotContains(t, l.limiters, "stale")
	assert.Contains(t, l.limiters, "fresh")
}

func newRedisLimiter(t *testing.T, requests int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, requests, window), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	l, mr := newRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "signin:ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "signin:ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("rl:signin:ip:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "signin:ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ErrorWhenUnavailable(t *testing.T) {
	l, mr := newRedisLimiter(t, 2, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisLimiter_NilClient(t *testing.T) {
	_, err := NewRedisLimiter(nil, 1, time.Second).Allow(context.Background(), "k")
	assert.Error(t, err)
}
