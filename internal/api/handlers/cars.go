package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rental-backend/internal/catalog"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type CarHandler struct {
	carService *services.CarService
	validator  *validator.Validate
}

func NewCarHandler(carService *services.CarService) *CarHandler {
	return &CarHandler{
		carService: carService,
		validator:  validator.New(),
	}
}

// GetCars retrieves the full catalog
func (h *CarHandler) GetCars(c *gin.Context) {
	cars, err := h.carService.GetAllCars()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve cars", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cars retrieved successfully", cars)
}

// SearchCars runs a filtered, sorted catalog query driven by query params.
// Omitted params fall back to the match-everything defaults the storefront
// starts with.
func (h *CarHandler) SearchCars(c *gin.Context) {
	criteria := catalog.FilterCriteria{
		Search:   c.Query("search"),
		Category: c.DefaultQuery("category", catalog.Wildcard),
		Type:     c.DefaultQuery("type", catalog.Wildcard),
		PriceMax: math.Inf(1),
	}

	if raw := c.Query("priceMax"); raw != "" {
		priceMax, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid priceMax parameter", err)
			return
		}
		criteria.PriceMax = priceMax
	}

	sortKey := catalog.SortKey(c.DefaultQuery("sort", string(catalog.SortFeatured)))

	cars, err := h.carService.SearchCars(criteria, sortKey)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to search cars", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cars retrieved successfully", cars)
}

// GetCar retrieves a specific car by ID
func (h *CarHandler) GetCar(c *gin.Context) {
	carID := c.Param("id")
	if carID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Car ID is required", nil)
		return
	}

	car, err := h.carService.GetCarByID(carID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Car not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car retrieved successfully", car)
}

// CreateCar adds a new car to the catalog
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req services.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	car, err := h.carService.CreateCar(&req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create car", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Car created successfully", car)
}

// UpdateCar updates an existing catalog entry
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID := c.Param("id")
	if carID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Car ID is required", nil)
		return
	}

	var req services.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	car, err := h.carService.UpdateCar(carID, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update car", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car updated successfully", car)
}

// SetAvailability toggles whether a car can be booked
func (h *CarHandler) SetAvailability(c *gin.Context) {
	carID := c.Param("id")
	if carID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Car ID is required", nil)
		return
	}

	var req struct {
		Available *bool `json:"available" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	car, err := h.carService.SetAvailability(carID, *req.Available)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update availability", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Availability updated successfully", car)
}

// DeleteCar removes a car from the catalog
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID := c.Param("id")
	if carID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Car ID is required", nil)
		return
	}

	err := h.carService.DeleteCar(carID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete car", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car deleted successfully", nil)
}
