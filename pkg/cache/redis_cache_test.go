package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
	"rental-backend/pkg/redis"
)

func newTestManager(t *testing.T) (*RedisCacheManager, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	host, port, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)

	client := redis.NewClient(config.RedisConfig{Host: host, Port: port})
	t.Cleanup(func() { client.Close() })

	cfg := DefaultCacheConfig()
	cfg.KeyPrefix = "test:"
	cfg.TagPrefix = "test_tag:"

	return NewRedisCacheManager(client, cfg), mr
}

func testCar(name string) *models.Car {
	return &models.Car{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Type:     "Sedan",
		Category: models.CategoryEconomy,
		Price:    3000,
		Rating:   4.5,
	}
}

func TestRedisCacheManager_CarOperations(t *testing.T) {
	manager, _ := newTestManager(t)
	car := testCar("Honda Civic")
	carID := car.ID.Hex()

	t.Run("SetCar", func(t *testing.T) {
		err := manager.SetCar(carID, car, 30*time.Second)
		assert.NoError(t, err)
	})

	t.Run("GetCar", func(t *testing.T) {
		got, err := manager.GetCar(carID)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, car.Name, got.Name)
		assert.Equal(t, car.Price, got.Price)
		assert.Equal(t, car.Category, got.Category)
	})

	t.Run("GetCar_NotFound", func(t *testing.T) {
		got, err := manager.GetCar(primitive.NewObjectID().Hex())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateCar", func(t *testing.T) {
		err := manager.InvalidateCar(carID)
		assert.NoError(t, err)

		got, err := manager.GetCar(carID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisCacheManager_CarListOperations(t *testing.T) {
	manager, _ := newTestManager(t)
	cars := []models.Car{*testCar("Honda Civic"), *testCar("Toyota Camry")}

	err := manager.SetCarList("all_cars", cars, time.Minute)
	require.NoError(t, err)

	got, err := manager.GetCarList("all_cars")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Honda Civic", got[0].Name)
	assert.Equal(t, "Toyota Camry", got[1].Name)
}

func TestRedisCacheManager_TTLExpiration(t *testing.T) {
	manager, mr := newTestManager(t)
	car := testCar("TTL Car")
	carID := car.ID.Hex()

	err := manager.SetCar(carID, car, 100*time.Millisecond)
	require.NoError(t, err)

	got, err := manager.GetCar(carID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// miniredis only expires keys when the clock is advanced explicitly
	mr.FastForward(200 * time.Millisecond)

	got, err = manager.GetCar(carID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheManager_InvalidateByTag(t *testing.T) {
	manager, _ := newTestManager(t)
	car := testCar("Tagged Car")
	carID := car.ID.Hex()

	require.NoError(t, manager.SetCar(carID, car, time.Minute))
	require.NoError(t, manager.SetCarList("all_cars", []models.Car{*car}, time.Minute))

	err := manager.InvalidateByTag("car:" + carID)
	require.NoError(t, err)

	got, err := manager.GetCar(carID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	list, err := manager.GetCarList("all_cars")
	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestRedisCacheManager_Stats(t *testing.T) {
	manager, _ := newTestManager(t)
	car := testCar("Stats Car")

	require.NoError(t, manager.SetCar(car.ID.Hex(), car, time.Minute))

	_, err := manager.GetCar(car.ID.Hex())
	require.NoError(t, err)
	_, err = manager.GetCar(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	stats := manager.GetCacheStats()
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMisses)
	assert.Equal(t, 0.5, stats.HitRate)
}
