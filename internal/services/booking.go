package services

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental-backend/internal/models"
	"rental-backend/internal/pricing"
	"rental-backend/internal/repository"
	"rental-backend/pkg/cache"
	"rental-backend/pkg/email"
)

const adminBookingsCacheKey = "admin_bookings"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotBookingOwner   = errors.New("booking belongs to another user")
	ErrCarUnavailable    = errors.New("car is not available for booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

type BookingService struct {
	bookingRepo  *repository.BookingRepository
	carRepo      *repository.CarRepository
	emailService *email.EmailService
	cacheManager cache.CacheManager
	cacheConfig  cache.CacheConfig
}

func NewBookingService(bookingRepo *repository.BookingRepository, carRepo *repository.CarRepository) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		cacheConfig: cache.DefaultCacheConfig(),
	}
}

// SetEmailService allows setting the email service for booking confirmations
func (s *BookingService) SetEmailService(emailService *email.EmailService) {
	s.emailService = emailService
}

// SetCacheManager allows setting the cache manager for caching operations
func (s *BookingService) SetCacheManager(cacheManager cache.CacheManager) {
	s.cacheManager = cacheManager
}

type CreateBookingRequest struct {
	CarID          string `json:"carId" validate:"required"`
	PickupDate     string `json:"pickupDate" validate:"required"`
	ReturnDate     string `json:"returnDate" validate:"required"`
	PickupLocation string `json:"pickupLocation" validate:"required"`
	ReturnLocation string `json:"returnLocation" validate:"required"`

	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address,omitempty"`

	CardNumber string `json:"cardNumber" validate:"required,min=13,max=19"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed active completed cancelled"`
}

// BookingStatistics is the admin dashboard summary.
type BookingStatistics struct {
	TotalBookings     int64   `json:"totalBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	ActiveBookings    int64   `json:"activeBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalCars         int64   `json:"totalCars"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalRentalDays   int64   `json:"totalRentalDays"`
	AverageTotal      float64 `json:"averageTotal"`
}

// parseBookingDate accepts both HTML date-input values ("2026-08-28") and
// full RFC 3339 timestamps.
func parseBookingDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ComputeQuote prices a rental of the given car over the given period
// without creating anything.
func (s *BookingService) ComputeQuote(carID, pickupDate, returnDate string) (pricing.Quote, error) {
	car, err := s.carRepo.FindByID(carID)
	if err != nil {
		return pricing.Quote{}, err
	}

	var pickup, ret time.Time
	if pickupDate != "" {
		if pickup, err = parseBookingDate(pickupDate); err != nil {
			return pricing.Quote{}, errors.New("invalid pickup date")
		}
	}
	if returnDate != "" {
		if ret, err = parseBookingDate(returnDate); err != nil {
			return pricing.Quote{}, errors.New("invalid return date")
		}
	}

	return pricing.Compute(car.Price, pickup, ret)
}

func (s *BookingService) CreateBooking(userID string, req *CreateBookingRequest) (*models.Booking, error) {
	car, err := s.carRepo.FindByID(req.CarID)
	if err != nil {
		return nil, errors.New("car not found")
	}

	if !car.Available {
		return nil, ErrCarUnavailable
	}

	pickup, err := parseBookingDate(req.PickupDate)
	if err != nil {
		return nil, errors.New("invalid pickup date")
	}
	ret, err := parseBookingDate(req.ReturnDate)
	if err != nil {
		return nil, errors.New("invalid return date")
	}

	quote, err := pricing.Compute(car.Price, pickup, ret)
	if err != nil {
		return nil, err
	}
	if quote.Days < 1 {
		return nil, errors.New("rental period must be at least one day")
	}

	booking := &models.Booking{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Car: models.BookingCar{
			ID:       car.ID.Hex(),
			Name:     car.Name,
			Type:     car.Type,
			Category: car.Category,
			Price:    car.Price,
			Image:    car.Image,
		},
		PickupDate: pickup,
		ReturnDate: ret,
		Locations: models.BookingLocations{
			Pickup: req.PickupLocation,
			Return: req.ReturnLocation,
		},
		Customer: models.CustomerInfo{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
		},
		Payment: models.PaymentSummary{
			DailyRate:    quote.DailyRate,
			Subtotal:     quote.Subtotal,
			Tax:          quote.Tax,
			Total:        quote.Total,
			CardLastFour: req.CardNumber[len(req.CardNumber)-4:],
		},
		TotalDays:   quote.Days,
		Status:      models.BookingStatusConfirmed,
		BookingDate: time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	created, err := s.bookingRepo.Create(booking)
	if err != nil {
		return nil, err
	}

	s.invalidateBookingListCache()

	// Confirmation email is best effort; the booking stands either way
	if s.emailService != nil {
		if err := s.sendConfirmationEmail(created); err != nil {
			fmt.Printf("Failed to send booking confirmation to %s: %v\n", created.Customer.Email, err)
		}
	}

	return created, nil
}

func (s *BookingService) GetUserBookings(userID string) ([]models.Booking, error) {
	return s.bookingRepo.FindByUser(userID)
}

// GetBooking returns a booking if the requester owns it or is an admin.
func (s *BookingService) GetBooking(id, requesterID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrNotBookingOwner
	}

	return booking, nil
}

func (s *BookingService) GetAllBookings() ([]models.Booking, error) {
	// Admin overview changes often, so the list cache TTL is short
	if s.cacheManager != nil {
		var cached []models.Booking
		if err := s.cacheManager.Get(adminBookingsCacheKey, &cached); err == nil && cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.bookingRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		ttl := s.cacheConfig.GetTTLForDataType("booking_list")
		if cacheErr := s.cacheManager.Set(adminBookingsCacheKey, bookings, ttl); cacheErr != nil {
			fmt.Printf("Failed to cache admin bookings: %v\n", cacheErr)
		}
	}

	return bookings, nil
}

func (s *BookingService) GetBookingsByStatus(status string) ([]models.Booking, error) {
	return s.bookingRepo.FindByStatus(status)
}

// CancelBooking cancels a confirmed booking. Active rentals have to be
// completed through the status flow, not cancelled by the customer.
func (s *BookingService) CancelBooking(id, requesterID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.GetBooking(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(id, models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.invalidateBookingListCache()

	return updated, nil
}

// UpdateStatus moves a booking along the rental lifecycle. Only forward
// transitions are allowed: confirmed bookings start or get cancelled,
// active rentals complete. Completed and cancelled are terminal.
func (s *BookingService) UpdateStatus(id, status string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if !validTransition(booking.Status, status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}

	s.invalidateBookingListCache()

	return updated, nil
}

func validTransition(from, to string) bool {
	switch from {
	case models.BookingStatusConfirmed:
		return to == models.BookingStatusActive || to == models.BookingStatusCancelled
	case models.BookingStatusActive:
		return to == models.BookingStatusCompleted
	default:
		return false
	}
}

func (s *BookingService) GetStatistics() (*BookingStatistics, error) {
	stats := &BookingStatistics{}

	var err error
	if stats.TotalBookings, err = s.bookingRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ConfirmedBookings, err = s.bookingRepo.CountByStatus(models.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if stats.ActiveBookings, err = s.bookingRepo.CountByStatus(models.BookingStatusActive); err != nil {
		return nil, err
	}
	if stats.CompletedBookings, err = s.bookingRepo.CountByStatus(models.BookingStatusCompleted); err != nil {
		return nil, err
	}
	if stats.CancelledBookings, err = s.bookingRepo.CountByStatus(models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if stats.TotalCars, err = s.carRepo.Count(); err != nil {
		return nil, err
	}

	agg, err := s.bookingRepo.GetBookingStatistics()
	if err != nil {
		return nil, err
	}
	if agg != nil {
		if v, ok := agg["total_revenue"].(float64); ok {
			stats.TotalRevenue = v
		}
		switch v := agg["total_days"].(type) {
		case int32:
			stats.TotalRentalDays = int64(v)
		case int64:
			stats.TotalRentalDays = v
		case float64:
			stats.TotalRentalDays = int64(v)
		}
		if v, ok := agg["avg_total"].(float64); ok {
			stats.AverageTotal = v
		}
	}

	return stats, nil
}

func (s *BookingService) invalidateBookingListCache() {
	if s.cacheManager == nil {
		return
	}

	listCacheKey := fmt.Sprintf("%sgeneric:%s", s.cacheConfig.KeyPrefix, adminBookingsCacheKey)
	if err := s.cacheManager.Delete(listCacheKey); err != nil {
		fmt.Printf("Failed to invalidate admin bookings cache: %v\n", err)
	}
}

func (s *BookingService) sendConfirmationEmail(booking *models.Booking) error {
	data := email.BookingConfirmationData{
		BookingID:      booking.ID.Hex(),
		CustomerName:   booking.Customer.FirstName + " " + booking.Customer.LastName,
		CarName:        booking.Car.Name,
		PickupDate:     booking.PickupDate.Format("Mon, 02 Jan 2006"),
		ReturnDate:     booking.ReturnDate.Format("Mon, 02 Jan 2006"),
		PickupLocation: booking.Locations.Pickup,
		ReturnLocation: booking.Locations.Return,
		TotalDays:      booking.TotalDays,
		Total:          booking.Payment.Total,
	}

	return s.emailService.SendBookingConfirmationEmail(booking.Customer.Email, data)
}
