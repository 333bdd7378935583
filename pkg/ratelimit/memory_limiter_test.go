package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_AllowWithinBurst(t *testing.T) {
	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         3,
		WindowSize:        time.Minute,
	}

	limiter := NewMemoryRateLimiter(config)

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow("client-1", "some-endpoint")
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, resetTime, err := limiter.Allow("client-1", "some-endpoint")
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, resetTime, time.Duration(0))
}

func TestMemoryRateLimiter_EndpointCategories(t *testing.T) {
	limiter := NewMemoryRateLimiter(DefaultConfig())

	// Login is the tightest category: burst of 2
	allowed, _, err := limiter.Allow("client-1", "POST:/api/v1/auth/login")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("client-1", "POST:/api/v1/auth/login")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("client-1", "POST:/api/v1/auth/login")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryRateLimiter_CustomLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(DefaultConfig())
	custom := RateLimit{RequestsPerMinute: 1, BurstSize: 1, WindowSize: time.Minute}

	require.NoError(t, limiter.SetCustomLimit("vip-client", "ep", custom))

	limits := limiter.GetLimits("vip-client")
	assert.Equal(t, custom, limits["ep"])

	allowed, _, err := limiter.Allow("vip-client", "ep")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("vip-client", "ep")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryRateLimiter_DisabledAllowsEverything(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	limiter := NewMemoryRateLimiter(config)

	for i := 0; i < 100; i++ {
		allowed, _, err := limiter.Allow("client-1", "ep")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestMemoryRateLimiter_Stats(t *testing.T) {
	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         1,
		WindowSize:        time.Minute,
	}

	limiter := NewMemoryRateLimiter(config)

	limiter.Allow("client-1", "ep")
	limiter.Allow("client-1", "ep")

	stats := limiter.GetStats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.BlockedRequests)
}
