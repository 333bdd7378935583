package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	MongoURI         string
	JWTSecret        string
	JWTExpiry        string
	AllowedOrigins   []string
	RateLimitEnabled bool
	RateLimitBackend string // "memory" or "redis"
	Redis            RedisConfig
	SMTP             SMTPConfig
}

type RedisConfig struct {
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	RetryDelay   time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
	AppURL    string
}

func Load() *Config {
	// load .env variable
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	return &Config{
		Port:             port,
		MongoURI:         mongoURI,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiry:        os.Getenv("JWT_EXPIRY"),
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		RateLimitEnabled: envBool("RATE_LIMIT_ENABLED", true),
		RateLimitBackend: envDefault("RATE_LIMIT_BACKEND", "memory"),
		Redis:            loadRedisConfig(),
		SMTP:             loadSMTPConfig(),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		Host:         envDefault("REDIS_HOST", "localhost"),
		Port:         envDefault("REDIS_PORT", "6379"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           envInt("REDIS_DB", 0),
		PoolSize:     envInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
		MaxRetries:   envInt("REDIS_MAX_RETRIES", 3),
		RetryDelay:   envDuration("REDIS_RETRY_DELAY", 100*time.Millisecond),
		DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		PoolTimeout:  envDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      envDefault("SMTP_PORT", "587"),
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: envDefault("SMTP_FROM_EMAIL", "bookings@rental.local"),
		FromName:  envDefault("SMTP_FROM_NAME", "Car Rental"),
		AppURL:    envDefault("APP_URL", "http://localhost:5173"),
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using default %t", key, err, fallback)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using default %v", key, err, fallback)
		return fallback
	}
	return d
}
