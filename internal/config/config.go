package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	VPay     VPayConfig
	Shop     ShopConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// VPayConfig holds the VPAY provider configuration.
type VPayConfig struct {
	Enabled     bool
	Title       string
	Description string

	// PublicKey identifies the merchant account; an empty value means the
	// gateway still needs setup.
	PublicKey string

	// SecretKey authenticates session creation and inbound webhook
	// notifications.
	SecretKey string

	// BaseURL is the provider API root. CheckoutBaseURL is the hosted
	// payment page root the shopper is redirected to.
	BaseURL         string
	CheckoutBaseURL string

	// ReceivingCurrency is the settlement currency the provider collects in.
	ReceivingCurrency string

	SessionTimeout time.Duration
	RateTimeout    time.Duration
}

// ShopConfig holds the storefront-facing URLs.
type ShopConfig struct {
	// PublicBaseURL is this service's externally reachable root; the
	// webhook callback URL handed to the provider is derived from it.
	PublicBaseURL string

	// ReturnURL is where the shopper lands after completing payment.
	ReturnURL string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "vpay_gateway"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "vpay-gateway"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		VPay: VPayConfig{
			Enabled:           getBoolEnv("VPAY_ENABLED", false),
			Title:             getEnv("VPAY_TITLE", "Virtual Payments"),
			Description:       getEnv("VPAY_DESCRIPTION", "Pay with VPAY"),
			PublicKey:         getEnv("VPAY_PUBLIC_KEY", ""),
			SecretKey:         getEnv("VPAY_SECRET_KEY", ""),
			BaseURL:           getEnv("VPAY_BASE_URL", "https://app.virtual-payments.com"),
			CheckoutBaseURL:   getEnv("VPAY_CHECKOUT_BASE_URL", "https://app.virtual-payments.com"),
			ReceivingCurrency: getEnv("VPAY_RECEIVING_CURRENCY", "BTC"),
			SessionTimeout:    getDurationEnv("VPAY_SESSION_TIMEOUT", 70*time.Second),
			RateTimeout:       getDurationEnv("VPAY_RATE_TIMEOUT", 10*time.Second),
		},
		Shop: ShopConfig{
			PublicBaseURL: getEnv("SHOP_PUBLIC_BASE_URL", "http://localhost:8080"),
			ReturnURL:     getEnv("SHOP_RETURN_URL", "http://localhost:3000/checkout/thank-you"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
