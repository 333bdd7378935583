package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rental-backend/internal/pricing"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type BookingHandler struct {
	bookingService *services.BookingService
	validator      *validator.Validate
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator.New(),
	}
}

func requesterFromContext(c *gin.Context) (userID string, isAdmin bool) {
	if v, exists := c.Get("user_id"); exists {
		userID, _ = v.(string)
	}
	if v, exists := c.Get("role"); exists {
		role, _ := v.(string)
		isAdmin = role == "admin"
	}
	return userID, isAdmin
}

// GetQuote prices a rental without creating a booking
func (h *BookingHandler) GetQuote(c *gin.Context) {
	carID := c.Query("carId")
	if carID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "carId parameter is required", nil)
		return
	}

	quote, err := h.bookingService.ComputeQuote(carID, c.Query("pickupDate"), c.Query("returnDate"))
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Return date is before pickup date", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to compute quote", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote computed successfully", quote)
}

// CreateBooking books a car for the authenticated user
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, _ := requesterFromContext(c)
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(userID, &req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Return date is before pickup date", err)
			return
		}
		if errors.Is(err, services.ErrCarUnavailable) {
			utils.ErrorResponse(c, http.StatusConflict, "Car is not available", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create booking", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Booking created successfully", booking)
}

// GetMyBookings retrieves the authenticated user's bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, _ := requesterFromContext(c)
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookings, err := h.bookingService.GetUserBookings(userID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve bookings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// GetBooking retrieves a single booking, owner or admin only
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if bookingID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Booking ID is required", nil)
		return
	}

	userID, isAdmin := requesterFromContext(c)

	booking, err := h.bookingService.GetBooking(bookingID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, services.ErrNotBookingOwner) {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied", err)
			return
		}
		utils.ErrorResponse(c, http.StatusNotFound, "Booking not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// CancelBooking cancels a confirmed booking
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if bookingID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Booking ID is required", nil)
		return
	}

	userID, isAdmin := requesterFromContext(c)

	booking, err := h.bookingService.CancelBooking(bookingID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotBookingOwner):
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied", err)
		case errors.Is(err, services.ErrInvalidTransition):
			utils.ErrorResponse(c, http.StatusConflict, "Only confirmed bookings can be cancelled", err)
		case errors.Is(err, services.ErrBookingNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Booking not found", err)
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "Failed to cancel booking", err)
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking cancelled successfully", booking)
}

// GetAllBookings retrieves every booking, admin only
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		bookings, err := h.bookingService.GetBookingsByStatus(status)
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve bookings", err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", bookings)
		return
	}

	bookings, err := h.bookingService.GetAllBookings()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve bookings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// UpdateBookingStatus moves a booking through its lifecycle, admin only
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("id")
	if bookingID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Booking ID is required", nil)
		return
	}

	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	booking, err := h.bookingService.UpdateStatus(bookingID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransition):
			utils.ErrorResponse(c, http.StatusConflict, "Invalid status transition", err)
		case errors.Is(err, services.ErrBookingNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Booking not found", err)
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update booking status", err)
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking status updated successfully", booking)
}

// GetStatistics returns the admin dashboard summary
func (h *BookingHandler) GetStatistics(c *gin.Context) {
	stats, err := h.bookingService.GetStatistics()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
