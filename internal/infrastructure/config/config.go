// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Amadeus
	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusBaseURL      string
	UpstreamTimeout     time.Duration
	LookupTimeout       time.Duration

	// MongoDB
	MongoURI         string
	MongoDB          string
	MongoUser        string
	MongoPassword    string
	LocationCacheTTL time.Duration

	// PostgreSQL
	PostgresURI     string
	PostgresMigrate bool

	// Search
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	MaxOffers            int
	DefaultCurrency      string

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,

		AmadeusClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
		AmadeusClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),
		AmadeusBaseURL:      getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		UpstreamTimeout:     time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT", 20)) * time.Second,
		LookupTimeout:       time.Duration(getEnvAsInt("LOOKUP_TIMEOUT", 5)) * time.Second,

		MongoURI:         getEnv("MONGODB_DSN", ""),
		MongoDB:          getEnv("MONGO_DB", "flightsearch"),
		MongoUser:        getEnv("MONGO_USER", ""),
		MongoPassword:    getEnv("MONGO_PASSWORD", ""),
		LocationCacheTTL: time.Duration(getEnvAsInt("LOCATION_CACHE_TTL", 86400)) * time.Second,

		PostgresURI:     getEnv("POSTGRES_URI", ""),
		PostgresMigrate: getEnvAsBool("POSTGRES_MIGRATE", false),

		SessionTTL:           time.Duration(getEnvAsInt("SESSION_TTL", 1800)) * time.Second,
		SessionSweepInterval: time.Duration(getEnvAsInt("SESSION_SWEEP_INTERVAL", 60)) * time.Second,
		MaxOffers:            getEnvAsInt("MAX_OFFERS", 50),
		DefaultCurrency:      getEnv("DEFAULT_CURRENCY", "USD"),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightsearch"),
	}

	if config.AmadeusClientID == "" || config.AmadeusClientSecret == "" {
		return nil, errors.New("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required")
	}
	if config.SessionSweepInterval <= 0 {
		config.SessionSweepInterval = time.Minute
	}

	return config, nil
}

// LocationCacheEnabled reports whether autocomplete answers are cached in MongoDB.
// A LOCATION_CACHE_TTL of zero or less turns the cache off.
func (c *Config) LocationCacheEnabled() bool {
	return c.MongoURI != "" && c.LocationCacheTTL > 0
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
