package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/pkg/ratelimit"
)

func setupTestMiddleware(t *testing.T) (*gin.Engine, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	err = client.Ping(context.Background()).Err()
	require.NoError(t, err)

	config := ratelimit.DefaultConfig()
	config.RedisKeyPrefix = "test_ratelimit:"
	config.DefaultLimits["default"] = ratelimit.RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         2,
		WindowSize:        time.Minute,
	}
	config.DefaultLimits["auth_login"] = ratelimit.RateLimit{
		RequestsPerMinute: 1,
		BurstSize:         1,
		WindowSize:        time.Minute,
	}

	limiter := ratelimit.NewRedisRateLimiter(client, config)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter))

	router.GET("/api/v1/cars", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cars": []string{}})
	})

	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "login successful"})
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return router, cleanup
}

func TestRateLimitMiddleware_BasicFunctionality(t *testing.T) {
	router, cleanup := setupTestMiddleware(t)
	defer cleanup()

	req1 := httptest.NewRequest("GET", "/api/v1/cars", nil)
	req1.Header.Set("X-Forwarded-For", "192.168.1.1")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "300", w1.Header().Get("X-RateLimit-Limit")) // cars category

	req2 := httptest.NewRequest("GET", "/api/v1/cars", nil)
	req2.Header.Set("X-Forwarded-For", "192.168.1.1")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimitMiddleware_RateLimitExceeded(t *testing.T) {
	router, cleanup := setupTestMiddleware(t)
	defer cleanup()

	clientIP := "192.168.1.2"

	req1 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req1.Header.Set("X-Forwarded-For", clientIP)
	req1.Header.Set("User-Agent", "TestAgent/1.0")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "1", w1.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w1.Header().Get("X-RateLimit-Burst"))

	// Burst of 1 means the second request is blocked
	req2 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req2.Header.Set("X-Forwarded-For", clientIP)
	req2.Header.Set("User-Agent", "TestAgent/1.0")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.NotEmpty(t, w2.Header().Get("Retry-After"))
	assert.Contains(t, w2.Body.String(), "Rate limit exceeded")
}

func TestRateLimitMiddleware_DifferentClients(t *testing.T) {
	router, cleanup := setupTestMiddleware(t)
	defer cleanup()

	req1 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req1.Header.Set("X-Forwarded-For", "192.168.1.3")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)

	assert.Equal(t, http.StatusOK, w1.Code)

	// A different client has its own budget
	req2 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req2.Header.Set("X-Forwarded-For", "192.168.1.4")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimitMiddleware_Headers(t *testing.T) {
	router, cleanup := setupTestMiddleware(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/api/v1/cars", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Window"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Burst"))
}

func TestGetClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupContext   func(*gin.Context)
		expectedPrefix string
	}{
		{
			name: "authenticated user",
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user123")
			},
			expectedPrefix: "user:",
		},
		{
			name: "api key",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-API-Key", "api123")
			},
			expectedPrefix: "api:",
		},
		{
			name: "anonymous user",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-Forwarded-For", "192.168.1.1")
				c.Request.Header.Set("User-Agent", "TestAgent/1.0")
			},
			expectedPrefix: "anon:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/test", nil)

			tt.setupContext(c)

			clientID := getClientID(c)
			assert.Contains(t, clientID, tt.expectedPrefix)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/api/v1/cars", "/api/v1/cars"},
		{"/api/v1/cars/123", "/api/v1/cars/*"},
		{"/api/v1/cars/search", "/api/v1/cars/search"},
		{"/api/v1/bookings/64f1a2b3c4d5e6f7a8b9c0d1", "/api/v1/bookings/*"},
		{"/api/v1/bookings/64f1a2b3c4d5e6f7a8b9c0d1/cancel", "/api/v1/bookings/*/cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizePath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsID(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"64f1a2b3c4d5e6f7a8b9c0d1", true},
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"search", false},
		{"my-bookings", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := isID(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEndpointKey(t *testing.T) {
	assert.Equal(t, "auth_login", getEndpointKey("POST:/api/v1/auth/login"))
	assert.Equal(t, "cars_search", getEndpointKey("GET:/api/v1/cars/search"))
	assert.Equal(t, "cars_write", getEndpointKey("PATCH:/api/v1/cars/*"))
	assert.Equal(t, "bookings", getEndpointKey("GET:/api/v1/bookings/*"))
	assert.Equal(t, "default", getEndpointKey("GET:/api/v1/unknown"))
}
