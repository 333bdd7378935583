package cache

import (
	"time"

	"rental-backend/internal/models"
)

// CacheManager defines the interface for caching operations
type CacheManager interface {
	// Car operations
	GetCar(carID string) (*models.Car, error)
	SetCar(carID string, car *models.Car, ttl time.Duration) error
	InvalidateCar(carID string) error

	// Car list operations
	GetCarList(key string) ([]models.Car, error)
	SetCarList(key string, cars []models.Car, ttl time.Duration) error

	// Generic operations
	Get(key string, dest interface{}) error
	Set(key string, value interface{}, ttl time.Duration) error
	Delete(key string) error

	// Tag operations for intelligent invalidation
	TagKey(key string, tags ...string) error
	InvalidateByTag(tag string) error

	// Statistics and health
	GetCacheStats() CacheStats
	HealthCheck() error
	Close() error
}

// CacheStats provides cache performance metrics
type CacheStats struct {
	HitRate       float64 `json:"hitRate"`
	MissRate      float64 `json:"missRate"`
	MemoryUsage   int64   `json:"memoryUsage"`
	KeyCount      int     `json:"keyCount"`
	EvictionCount int     `json:"evictionCount"`
	TotalHits     int64   `json:"totalHits"`
	TotalMisses   int64   `json:"totalMisses"`
}
