package cache

import "time"

// CacheConfig holds configuration for cache TTL values and behavior
type CacheConfig struct {
	CarDataTTL     time.Duration `json:"carDataTTL"`     // individual catalog entries
	CarListTTL     time.Duration `json:"carListTTL"`     // full catalog listings
	BookingListTTL time.Duration `json:"bookingListTTL"` // admin booking overviews
	KeyPrefix      string        `json:"keyPrefix"`      // prefix for all cache keys
	TagPrefix      string        `json:"tagPrefix"`      // prefix for tag keys
}

// DefaultCacheConfig returns default cache configuration. The catalog is
// mostly static reference data, so TTLs are generous compared to live
// telemetry-style workloads.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		CarDataTTL:     5 * time.Minute,
		CarListTTL:     5 * time.Minute,
		BookingListTTL: 30 * time.Second,
		KeyPrefix:      "rental:",
		TagPrefix:      "tag:",
	}
}

// GetTTLForDataType returns appropriate TTL based on data type
func (c CacheConfig) GetTTLForDataType(dataType string) time.Duration {
	switch dataType {
	case "car":
		return c.CarDataTTL
	case "car_list":
		return c.CarListTTL
	case "booking_list":
		return c.BookingListTTL
	default:
		return c.CarDataTTL
	}
}
