package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// FX rate source (frankfurter-compatible daily-rate API)
	FxBaseURL        string
	FxRequestTimeout time.Duration

	// Push relay
	RelayBaseURL        string
	RelayRequestTimeout time.Duration
	RelayAPIKey         string

	// Relay server (used by cmd/relay only)
	RelayPort       string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "outgo"),
		DBPassword: getEnv("DB_PASSWORD", "outgo"),
		DBName:     getEnv("DB_NAME", "outgo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// External services
		FxBaseURL:    getEnv("FX_BASE_URL", "https://api.frankfurter.dev/v1"),
		RelayBaseURL: getEnv("RELAY_BASE_URL", "http://localhost:8090"),
		RelayAPIKey:  getEnv("RELAY_API_KEY", ""),

		// Relay server
		RelayPort:       getEnv("RELAY_PORT", "8090"),
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "mailto:admin@example.com"),
	}

	config.FxRequestTimeout = getEnvDuration("FX_REQUEST_TIMEOUT", 10*time.Second)
	config.RelayRequestTimeout = getEnvDuration("RELAY_REQUEST_TIMEOUT", 5*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration environment variable, falling back to
// the default on absence or parse failure.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
