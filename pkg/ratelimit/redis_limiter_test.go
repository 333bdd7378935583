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

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())

	return client
}

func TestRedisRateLimiter_AllowWithinBurst(t *testing.T) {
	client := setupTestRedis(t)

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         3,
		WindowSize:        time.Minute,
	}

	limiter := NewRedisRateLimiter(client, config)

	// First 3 requests fit in the burst
	for i := 0; i < 3; i++ {
		allowed, resetTime, err := limiter.Allow("client-1", "some-endpoint")
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, time.Duration(0), resetTime)
	}

	// 4th request exceeds the burst
	allowed, resetTime, err := limiter.Allow("client-1", "some-endpoint")
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, resetTime, time.Duration(0))
}

func TestRedisRateLimiter_ClientsAreIndependent(t *testing.T) {
	client := setupTestRedis(t)

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         1,
		WindowSize:        time.Minute,
	}

	limiter := NewRedisRateLimiter(client, config)

	allowed, _, err := limiter.Allow("client-a", "ep")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("client-a", "ep")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different client still has its own budget
	allowed, _, err = limiter.Allow("client-b", "ep")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_DisabledAllowsEverything(t *testing.T) {
	client := setupTestRedis(t)

	config := DefaultConfig()
	config.Enabled = false

	limiter := NewRedisRateLimiter(client, config)

	for i := 0; i < 100; i++ {
		allowed, _, err := limiter.Allow("client-1", "ep")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_CustomLimitsPersist(t *testing.T) {
	client := setupTestRedis(t)

	limiter := NewRedisRateLimiter(client, DefaultConfig())
	custom := RateLimit{RequestsPerMinute: 1, BurstSize: 1, WindowSize: time.Minute}

	require.NoError(t, limiter.SetCustomLimit("vip-client", "ep", custom))

	// A fresh limiter sharing the same Redis picks the custom limit back up
	fresh := NewRedisRateLimiter(client, DefaultConfig())
	require.NoError(t, fresh.LoadCustomLimits())

	limits := fresh.GetLimits("vip-client")
	assert.Equal(t, custom, limits["ep"])
}

func TestRedisRateLimiter_Stats(t *testing.T) {
	client := setupTestRedis(t)

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         1,
		WindowSize:        time.Minute,
	}

	limiter := NewRedisRateLimiter(client, config)

	limiter.Allow("client-1", "ep")
	limiter.Allow("client-1", "ep")

	stats := limiter.GetStats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.BlockedRequests)
}
