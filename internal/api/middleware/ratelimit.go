package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rental-backend/pkg/ratelimit"
)

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(limiter ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for health checks in development
		if c.Request.URL.Path == "/api/v1/health" && gin.Mode() == gin.DebugMode {
			c.Next()
			return
		}

		clientID := getClientID(c)
		endpoint := getEndpointID(c)

		allowed, resetTime, err := limiter.Allow(clientID, endpoint)
		if err != nil {
			// Don't block requests when the rate limiter itself fails
			c.Header("X-RateLimit-Error", "Rate limiter unavailable")
			c.Next()
			return
		}

		// Get current limits for headers
		limits := limiter.GetLimits(clientID)
		endpointKey := getEndpointKey(endpoint)

		var currentLimit ratelimit.RateLimit
		if limit, exists := limits[endpointKey]; exists {
			currentLimit = limit
		} else if limit, exists := limits["default"]; exists {
			currentLimit = limit
		} else {
			currentLimit = ratelimit.RateLimit{
				RequestsPerMinute: 60,
				BurstSize:         15,
				WindowSize:        time.Minute,
			}
		}

		setRateLimitHeaders(c, currentLimit, allowed, resetTime)

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"message":    fmt.Sprintf("Too many requests. Try again in %v", resetTime),
				"code":       "RATE_LIMIT_EXCEEDED",
				"retryAfter": int(resetTime.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientID extracts a unique client identifier from the request
func getClientID(c *gin.Context) string {
	// Authenticated users get a per-account budget; everyone else shares
	// a per-IP one
	if userID, exists := c.Get("user_id"); exists {
		if uid, ok := userID.(string); ok && uid != "" {
			return fmt.Sprintf("user:%s", uid)
		}
	}

	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		return fmt.Sprintf("api:%s", apiKey)
	}

	ip := getClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	return fmt.Sprintf("anon:%s:%s", ip, hashString(userAgent))
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}

// hashString creates a short hash of a string for client identification
func hashString(s string) string {
	if s == "" {
		return "unknown"
	}

	hash := uint32(0)
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}

	out := fmt.Sprintf("%x", hash)
	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// getEndpointID builds the "METHOD:path" identifier the limiter keys on,
// with dynamic path segments collapsed so similar requests share a bucket
func getEndpointID(c *gin.Context) string {
	method := c.Request.Method
	path := normalizePath(c.Request.URL.Path)

	return fmt.Sprintf("%s:%s", method, path)
}

// normalizePath replaces dynamic segments with placeholders
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if isID(segment) {
			segments[i] = "*"
		}
	}

	return strings.Join(segments, "/")
}

// isID checks if a string looks like an ID
func isID(s string) bool {
	if s == "" {
		return false
	}

	// MongoDB ObjectID (24 hex characters)
	if len(s) == 24 {
		for _, c := range s {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
		return true
	}

	// UUID pattern
	if len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-' {
		return true
	}

	// Numeric ID
	if _, err := strconv.Atoi(s); err == nil {
		return true
	}

	return false
}

// getEndpointKey maps an endpoint to a rate limit category. Keep this in
// sync with the category map in ratelimit's config.
func getEndpointKey(endpoint string) string {
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

		"GET:/api/v1/bookings":     "bookings",
		"POST:/api/v1/bookings":    "bookings_create",
		"GET:/api/v1/bookings/*":   "bookings",
		"PATCH:/api/v1/bookings/*": "bookings",

		"GET:/api/v1/users":  "users",
		"GET:/api/v1/health": "health",
	}

	if category, exists := endpointMap[endpoint]; exists {
		return category
	}

	for pattern, category := range endpointMap {
		if matchesEndpointPattern(endpoint, pattern) {
			return category
		}
	}

	return "default"
}

// matchesEndpointPattern checks if an endpoint matches a pattern with wildcards
func matchesEndpointPattern(endpoint, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(endpoint, prefix)
	}
	return endpoint == pattern
}

// setRateLimitHeaders sets standard rate limiting headers
func setRateLimitHeaders(c *gin.Context, limit ratelimit.RateLimit, allowed bool, resetTime time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit.RequestsPerMinute))
	c.Header("X-RateLimit-Window", strconv.Itoa(int(limit.WindowSize.Seconds())))
	c.Header("X-RateLimit-Burst", strconv.Itoa(limit.BurstSize))

	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(resetTime.Seconds())))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetTime).Unix(), 10))
	}

	if gin.Mode() == gin.DebugMode {
		c.Header("X-RateLimit-Allowed", strconv.FormatBool(allowed))
		if resetTime > 0 {
			c.Header("X-RateLimit-Reset-Time", resetTime.String())
		}
	}
}
