package services

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental-backend/internal/catalog"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
	"rental-backend/pkg/cache"
)

const allCarsCacheKey = "all_cars"

type CarService struct {
	carRepo      *repository.CarRepository
	cacheManager cache.CacheManager
	cacheConfig  cache.CacheConfig
}

func NewCarService(carRepo *repository.CarRepository) *CarService {
	return &CarService{
		carRepo:     carRepo,
		cacheConfig: cache.DefaultCacheConfig(),
	}
}

// SetCacheManager allows setting the cache manager for caching operations
func (s *CarService) SetCacheManager(cacheManager cache.CacheManager) {
	s.cacheManager = cacheManager
}

// SetCacheConfig allows setting custom cache configuration
func (s *CarService) SetCacheConfig(config cache.CacheConfig) {
	s.cacheConfig = config
}

type CreateCarRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Type     string          `json:"type" validate:"required,min=1,max=50"`
	Category string          `json:"category" validate:"required,oneof=Economy Standard Luxury Electric SUV 'Sports Car'"`
	Price    float64         `json:"price" validate:"required,gt=0"`
	Rating   float64         `json:"rating" validate:"omitempty,min=0,max=5"`
	Reviews  int             `json:"reviews" validate:"omitempty,min=0"`
	Location string          `json:"location,omitempty"`
	Image    string          `json:"image,omitempty"`
	Features []string        `json:"features,omitempty"`
	Specs    models.CarSpecs `json:"specs,omitempty"`
}

type UpdateCarRequest struct {
	Name     string           `json:"name,omitempty"`
	Type     string           `json:"type,omitempty"`
	Category string           `json:"category,omitempty" validate:"omitempty,oneof=Economy Standard Luxury Electric SUV 'Sports Car'"`
	Price    float64          `json:"price,omitempty" validate:"omitempty,gt=0"`
	Rating   float64          `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Reviews  int              `json:"reviews,omitempty" validate:"omitempty,min=0"`
	Location string           `json:"location,omitempty"`
	Image    string           `json:"image,omitempty"`
	Features []string         `json:"features,omitempty"`
	Specs    *models.CarSpecs `json:"specs,omitempty"`
}

func (s *CarService) GetAllCars() ([]models.Car, error) {
	// Try cache first if cache manager is available
	if s.cacheManager != nil {
		cachedCars, err := s.cacheManager.GetCarList(allCarsCacheKey)
		if err == nil && cachedCars != nil {
			return cachedCars, nil
		}
		if err != nil {
			fmt.Printf("Cache error for GetAllCars: %v\n", err)
		}
	}

	// Fallback to database
	cars, err := s.carRepo.FindAll()
	if err != nil {
		return nil, err
	}

	// Cache the result if cache manager is available
	if s.cacheManager != nil {
		ttl := s.cacheConfig.GetTTLForDataType("car_list")
		if cacheErr := s.cacheManager.SetCarList(allCarsCacheKey, cars, ttl); cacheErr != nil {
			fmt.Printf("Failed to cache all cars: %v\n", cacheErr)
		}
	}

	return cars, nil
}

func (s *CarService) GetCarByID(id string) (*models.Car, error) {
	// Try cache first if cache manager is available
	if s.cacheManager != nil {
		cachedCar, err := s.cacheManager.GetCar(id)
		if err == nil && cachedCar != nil {
			return cachedCar, nil
		}
		if err != nil {
			fmt.Printf("Cache error for GetCarByID(%s): %v\n", id, err)
		}
	}

	// Fallback to database
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// Cache the result if cache manager is available
	if s.cacheManager != nil {
		ttl := s.cacheConfig.GetTTLForDataType("car")
		if cacheErr := s.cacheManager.SetCar(id, car, ttl); cacheErr != nil {
			fmt.Printf("Failed to cache car %s: %v\n", id, cacheErr)
		}
	}

	return car, nil
}

// SearchCars runs a catalog query over the full fleet. The filtering and
// sorting happen in memory; the fleet itself is small and comes out of the
// list cache on the hot path.
func (s *CarService) SearchCars(criteria catalog.FilterCriteria, key catalog.SortKey) ([]models.Car, error) {
	cars, err := s.GetAllCars()
	if err != nil {
		return nil, err
	}

	return catalog.Query(cars, criteria, key), nil
}

func (s *CarService) CreateCar(req *CreateCarRequest) (*models.Car, error) {
	car := &models.Car{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Type:      req.Type,
		Category:  req.Category,
		Price:     req.Price,
		Rating:    req.Rating,
		Reviews:   req.Reviews,
		Available: true,
		Location:  req.Location,
		Image:     req.Image,
		Features:  req.Features,
		Specs:     req.Specs,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	createdCar, err := s.carRepo.Create(car)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		s.invalidateCatalogCache(createdCar)
	}

	return createdCar, nil
}

func (s *CarService) UpdateCar(id string, req *UpdateCarRequest) (*models.Car, error) {
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("car not found")
	}

	if req.Name != "" {
		car.Name = req.Name
	}
	if req.Type != "" {
		car.Type = req.Type
	}
	if req.Category != "" {
		car.Category = req.Category
	}
	if req.Price > 0 {
		car.Price = req.Price
	}
	if req.Rating > 0 {
		car.Rating = req.Rating
	}
	if req.Reviews > 0 {
		car.Reviews = req.Reviews
	}
	if req.Location != "" {
		car.Location = req.Location
	}
	if req.Image != "" {
		car.Image = req.Image
	}
	if req.Features != nil {
		car.Features = req.Features
	}
	if req.Specs != nil {
		car.Specs = *req.Specs
	}

	car.UpdatedAt = time.Now()

	updatedCar, err := s.carRepo.Update(id, car)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		s.invalidateCatalogCache(updatedCar)
	}

	return updatedCar, nil
}

// SetAvailability flips a car in or out of the rentable fleet without
// touching the rest of its record.
func (s *CarService) SetAvailability(id string, available bool) (*models.Car, error) {
	if err := s.carRepo.SetAvailability(id, available); err != nil {
		return nil, err
	}

	car, err := s.carRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		s.invalidateCatalogCache(car)
	}

	return car, nil
}

func (s *CarService) DeleteCar(id string) error {
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		return errors.New("car not found")
	}

	if err := s.carRepo.Delete(id); err != nil {
		return err
	}

	if s.cacheManager != nil {
		s.invalidateCatalogCache(car)
	}

	return nil
}

// invalidateCatalogCache drops the cached entry for a single car plus every
// list that could contain it. List keys are tagged with the car IDs they
// hold, so the tag sweep catches stale listings.
func (s *CarService) invalidateCatalogCache(car *models.Car) {
	carID := car.ID.Hex()

	if err := s.cacheManager.InvalidateCar(carID); err != nil {
		fmt.Printf("Failed to invalidate car cache for %s: %v\n", carID, err)
	}

	if err := s.cacheManager.InvalidateByTag(fmt.Sprintf("car:%s", carID)); err != nil {
		fmt.Printf("Failed to invalidate car tag for %s: %v\n", carID, err)
	}

	listCacheKey := fmt.Sprintf("%scar_list:%s", s.cacheConfig.KeyPrefix, allCarsCacheKey)
	if err := s.cacheManager.Delete(listCacheKey); err != nil {
		fmt.Printf("Failed to invalidate all cars cache: %v\n", err)
	}
}
