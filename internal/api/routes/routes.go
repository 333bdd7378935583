package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"rental-backend/internal/api/handlers"
	"rental-backend/internal/api/middleware"
	"rental-backend/internal/config"
	"rental-backend/internal/repository"
	"rental-backend/internal/services"
	"rental-backend/pkg/cache"
	"rental-backend/pkg/email"
	"rental-backend/pkg/ratelimit"
	"rental-backend/pkg/redis"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, redisClient *redis.Client, cfg *config.Config) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	if err := carRepo.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create car indexes: %v", err)
	}
	if err := bookingRepo.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create booking indexes: %v", err)
	}

	if err := repository.SeedCars(carRepo); err != nil {
		log.Printf("Warning: failed to seed catalog: %v", err)
	}

	emailService := email.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.FromEmail,
		cfg.SMTP.FromName,
		cfg.SMTP.AppURL,
	)

	// Initialize services
	authService := services.NewAuthService(userRepo, emailService)
	userService := services.NewUserService(userRepo)
	carService := services.NewCarService(carRepo)
	bookingService := services.NewBookingService(bookingRepo, carRepo)
	bookingService.SetEmailService(emailService)

	// Wire the Redis cache when available; everything degrades to
	// straight database reads without it
	if redisClient != nil && redisClient.IsConnected() {
		cacheManager := cache.NewDefaultCacheManager(redisClient)
		carService.SetCacheManager(cacheManager)
		bookingService.SetCacheManager(cacheManager)
		log.Println("Catalog cache enabled")
	} else {
		log.Println("Redis unavailable, catalog cache disabled")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	carHandler := handlers.NewCarHandler(carService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	if cfg.RateLimitEnabled {
		router.Use(middleware.RateLimitMiddleware(newRateLimiter(redisClient, cfg)))
	}

	// API routes
	api := router.Group("/api/v1")

	api.GET("/health", healthHandler.HealthCheck)

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// The catalog is browsable without an account
	cars := api.Group("/cars")
	{
		cars.GET("", carHandler.GetCars)
		cars.GET("/search", carHandler.SearchCars)
		cars.GET("/:id", carHandler.GetCar)
	}

	api.GET("/quote", bookingHandler.GetQuote)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/refresh", authHandler.RefreshToken)
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/users/change-password", userHandler.ChangePassword)

		bookings := protected.Group("/bookings")
		{
			bookings.GET("", bookingHandler.GetMyBookings)
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminCars := admin.Group("/cars")
		{
			adminCars.POST("", carHandler.CreateCar)
			adminCars.PATCH("/:id", carHandler.UpdateCar)
			adminCars.PATCH("/:id/availability", carHandler.SetAvailability)
			adminCars.DELETE("/:id", carHandler.DeleteCar)
		}

		adminBookings := admin.Group("/bookings")
		{
			adminBookings.GET("", bookingHandler.GetAllBookings)
			adminBookings.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)
		}

		users := admin.Group("/users")
		{
			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		admin.GET("/stats", bookingHandler.GetStatistics)
	}
}

// newRateLimiter picks the limiter backend. Redis keeps counts shared
// across instances; memory is fine for a single node and for development.
func newRateLimiter(redisClient *redis.Client, cfg *config.Config) ratelimit.RateLimiter {
	rlConfig := ratelimit.DefaultConfig()
	rlConfig.Enabled = cfg.RateLimitEnabled

	if cfg.RateLimitBackend == "redis" && redisClient != nil && redisClient.IsConnected() {
		limiter := ratelimit.NewRedisRateLimiter(redisClient.GetClient(), rlConfig)
		if err := limiter.LoadCustomLimits(); err != nil {
			log.Printf("Warning: failed to load custom rate limits: %v", err)
		}
		return limiter
	}

	if cfg.RateLimitBackend == "redis" {
		log.Println("Redis unavailable, falling back to in-memory rate limiting")
	}

	return ratelimit.NewMemoryRateLimiter(rlConfig)
}
