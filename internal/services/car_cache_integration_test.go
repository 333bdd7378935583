package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental-backend/internal/catalog"
	"rental-backend/internal/models"
	"rental-backend/pkg/cache"
)

// MockCacheManager is a mock implementation of the CacheManager interface
type MockCacheManager struct {
	mock.Mock
}

func (m *MockCacheManager) GetCar(carID string) (*models.Car, error) {
	args := m.Called(carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCacheManager) SetCar(carID string, car *models.Car, ttl time.Duration) error {
	args := m.Called(carID, car, ttl)
	return args.Error(0)
}

func (m *MockCacheManager) InvalidateCar(carID string) error {
	args := m.Called(carID)
	return args.Error(0)
}

func (m *MockCacheManager) GetCarList(key string) ([]models.Car, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCacheManager) SetCarList(key string, cars []models.Car, ttl time.Duration) error {
	args := m.Called(key, cars, ttl)
	return args.Error(0)
}

func (m *MockCacheManager) Get(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheManager) Set(key string, value interface{}, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheManager) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheManager) TagKey(key string, tags ...string) error {
	args := m.Called(key, tags)
	return args.Error(0)
}

func (m *MockCacheManager) InvalidateByTag(tag string) error {
	args := m.Called(tag)
	return args.Error(0)
}

func (m *MockCacheManager) GetCacheStats() cache.CacheStats {
	args := m.Called()
	return args.Get(0).(cache.CacheStats)
}

func (m *MockCacheManager) HealthCheck() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockCacheManager) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Test cache-first strategy for GetCarByID with cache hit
func TestCarService_GetCarByID_CacheHit(t *testing.T) {
	mockCache := new(MockCacheManager)
	service := &CarService{
		cacheManager: mockCache,
		cacheConfig:  cache.DefaultCacheConfig(),
	}

	testCar := &models.Car{
		ID:       primitive.NewObjectID(),
		Name:     "Honda Civic",
		Type:     "Sedan",
		Category: models.CategoryEconomy,
		Price:    3000,
	}

	carID := testCar.ID.Hex()

	// Mock cache hit
	mockCache.On("GetCar", carID).Return(testCar, nil)

	result, err := service.GetCarByID(carID)

	assert.NoError(t, err)
	assert.Equal(t, testCar, result)
	mockCache.AssertExpectations(t)
}

// Test cache-first strategy for GetAllCars with cache hit
func TestCarService_GetAllCars_CacheHit(t *testing.T) {
	mockCache := new(MockCacheManager)
	service := &CarService{
		cacheManager: mockCache,
		cacheConfig:  cache.DefaultCacheConfig(),
	}

	testCars := []models.Car{
		{
			ID:       primitive.NewObjectID(),
			Name:     "Honda Civic",
			Category: models.CategoryEconomy,
			Price:    3000,
		},
		{
			ID:       primitive.NewObjectID(),
			Name:     "BMW 7 Series",
			Category: models.CategoryLuxury,
			Price:    12000,
		},
	}

	// Mock cache hit
	mockCache.On("GetCarList", "all_cars").Return(testCars, nil)

	result, err := service.GetAllCars()

	assert.NoError(t, err)
	assert.Equal(t, testCars, result)
	mockCache.AssertExpectations(t)
}

// SearchCars should run the catalog query over the cached fleet
func TestCarService_SearchCars_UsesCachedList(t *testing.T) {
	mockCache := new(MockCacheManager)
	service := &CarService{
		cacheManager: mockCache,
		cacheConfig:  cache.DefaultCacheConfig(),
	}

	testCars := []models.Car{
		{ID: primitive.NewObjectID(), Name: "Honda Civic", Type: "Sedan", Category: models.CategoryEconomy, Price: 3000},
		{ID: primitive.NewObjectID(), Name: "BMW 7 Series", Type: "Sedan", Category: models.CategoryLuxury, Price: 12000},
	}

	mockCache.On("GetCarList", "all_cars").Return(testCars, nil)

	criteria := catalog.FilterCriteria{
		Category: models.CategoryEconomy,
		Type:     catalog.Wildcard,
		PriceMax: 20000,
	}

	result, err := service.SearchCars(criteria, catalog.SortFeatured)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "Honda Civic", result[0].Name)
	mockCache.AssertExpectations(t)
}

// Test cache invalidation helper
func TestCarService_InvalidateCatalogCache(t *testing.T) {
	mockCache := new(MockCacheManager)
	service := &CarService{
		cacheManager: mockCache,
		cacheConfig:  cache.DefaultCacheConfig(),
	}

	testCar := &models.Car{
		ID:       primitive.NewObjectID(),
		Name:     "Honda Civic",
		Category: models.CategoryEconomy,
		Price:    3000,
	}

	carID := testCar.ID.Hex()

	mockCache.On("InvalidateCar", carID).Return(nil)
	mockCache.On("InvalidateByTag", "car:"+carID).Return(nil)
	mockCache.On("Delete", "rental:car_list:all_cars").Return(nil)

	service.invalidateCatalogCache(testCar)

	mockCache.AssertExpectations(t)
}

// Test cache fallback when cache is unavailable
func TestCarService_CacheFallback(t *testing.T) {
	service := &CarService{
		cacheManager: nil,
		cacheConfig:  cache.DefaultCacheConfig(),
	}

	service.SetCacheManager(nil)
	assert.Nil(t, service.cacheManager)

	customConfig := cache.CacheConfig{
		CarDataTTL: 60 * time.Second,
	}
	service.SetCacheConfig(customConfig)
	assert.Equal(t, customConfig, service.cacheConfig)
}

// Test cache configuration
func TestCarService_CacheConfiguration(t *testing.T) {
	service := &CarService{
		cacheConfig: cache.DefaultCacheConfig(),
	}

	mockCache := new(MockCacheManager)
	service.SetCacheManager(mockCache)
	assert.Equal(t, mockCache, service.cacheManager)

	customConfig := cache.CacheConfig{
		CarDataTTL: 60 * time.Second,
		CarListTTL: 5 * time.Minute,
	}
	service.SetCacheConfig(customConfig)
	assert.Equal(t, customConfig, service.cacheConfig)
}
