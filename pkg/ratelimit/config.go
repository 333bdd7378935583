package ratelimit

import (
	"strings"
	"time"
)

// Config holds the configuration for rate limiting
type Config struct {
	// Default rate limits for different endpoint categories
	DefaultLimits map[string]RateLimit `json:"defaultLimits"`

	// Redis key prefix for rate limiting data
	RedisKeyPrefix string `json:"redisKeyPrefix"`

	// Cleanup interval for expired rate limit data
	CleanupInterval time.Duration `json:"cleanupInterval"`

	// Enable/disable rate limiting
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns a default rate limiting configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultLimits: map[string]RateLimit{
			// Authentication endpoints - more restrictive
			"auth":          {RequestsPerMinute: 10, BurstSize: 5, WindowSize: time.Minute},
			"auth_login":    {RequestsPerMinute: 5, BurstSize: 2, WindowSize: time.Minute},
			"auth_register": {RequestsPerMinute: 5, BurstSize: 2, WindowSize: time.Minute},

			// Catalog browsing - permissive, every filter change hits it
			"cars":        {RequestsPerMinute: 300, BurstSize: 60, WindowSize: time.Minute},
			"cars_search": {RequestsPerMinute: 300, BurstSize: 60, WindowSize: time.Minute},
			"cars_write":  {RequestsPerMinute: 20, BurstSize: 5, WindowSize: time.Minute},

			// Bookings - moderate limits
			"bookings":        {RequestsPerMinute: 60, BurstSize: 15, WindowSize: time.Minute},
			"bookings_create": {RequestsPerMinute: 10, BurstSize: 3, WindowSize: time.Minute},

			// User management - moderate limits
			"users": {RequestsPerMinute: 50, BurstSize: 10, WindowSize: time.Minute},

			// Health check - very permissive
			"health": {RequestsPerMinute: 1000, BurstSize: 100, WindowSize: time.Minute},

			// Default fallback
			"default": {RequestsPerMinute: 60, BurstSize: 15, WindowSize: time.Minute},
		},
		RedisKeyPrefix:  "ratelimit:",
		CleanupInterval: 5 * time.Minute,
		Enabled:         true,
	}
}

// GetEndpointKey maps a request path and method to a rate limit category
func (c *Config) GetEndpointKey(endpoint, method string) string {
	endpointMap := map[string]string{
		"POST:/api/v1/auth/login":    "auth_login",
		"POST:/api/v1/auth/register": "auth_register",
		"POST:/api/v1/auth/logout":   "auth",
		"POST:/api/v1/auth/refresh":  "auth",
		"GET:/api/v1/auth/profile":   "auth",

		"GET:/api/v1/cars":        "cars",
		"GET:/api/v1/cars/search": "cars_search",
		"GET:/api/v1/cars/*":      "cars",
		"POST:/api/v1/cars":       "cars_write",
		"PATCH:/api/v1/cars/*":    "cars_write",
		"DELETE:/api/v1/cars/*":   "cars_write",

		"GET:/api/v1/bookings":    "bookings",
		"POST:/api/v1/bookings":   "bookings_create",
		"GET:/api/v1/bookings/*":  "bookings",
		"PATCH:/api/v1/bookings/*": "bookings",

		"GET:/api/v1/users":  "users",
		"GET:/api/v1/health": "health",
	}

	// endpoint may already carry the method ("GET:/api/v1/cars")
	key := endpoint
	if method != "" {
		key = method + ":" + endpoint
	}
	if category, exists := endpointMap[key]; exists {
		return category
	}

	for pattern, category := range endpointMap {
		if matchesPattern(key, pattern) {
			return category
		}
	}

	return "default"
}

// matchesPattern checks if a key matches a pattern with a trailing wildcard
func matchesPattern(key, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return key == pattern
}
