// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Storage backends understood by database.Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendDynamo   = "dynamodb"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
	RequestTimeout time.Duration
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Backend       string
	FilePath      string
	MongoURI      string
	MongoDatabase string
	PostgresURI   string
	DynamoTable   string
}

// StoreConfig tunes the data store service itself
type StoreConfig struct {
	SimulatedLatency     time.Duration
	NotificationCap      int
	SeedDemoData         bool
	AffiliateRevenue     string // "random" or "none"
	AffiliateProbability float64
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Storage        *StorageConfig
	Store          *StoreConfig
	AllowedOrigins []string
	Debug          bool
	LogLevel       string
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
		RequestTimeout: 5 * time.Second,
	}
}

// DefaultStorageConfig keeps everything in process memory
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend:       BackendMemory,
		FilePath:      filepath.Join("data", "store.json"),
		MongoDatabase: "hemp_commons",
		DynamoTable:   "hemp-commons-kv",
	}
}

// DefaultStoreConfig mirrors the behaviour of the browser demo
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		SimulatedLatency:     300 * time.Millisecond,
		NotificationCap:      100,
		SeedDemoData:         true,
		AffiliateRevenue:     "random",
		AffiliateProbability: 0.2,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/engine
		filepath.Join(os.Getenv("GOPATH"), "src/hemp-commons/.env"),
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()
	serverConfig.Port = getEnvInt("PORT", serverConfig.Port)
	serverConfig.Host = getEnvOrDefault("HOST", serverConfig.Host)
	serverConfig.MetricsEnabled = getEnvBool("METRICS_ENABLED", serverConfig.MetricsEnabled)
	serverConfig.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", serverConfig.RequestTimeout)

	storageConfig, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	storeConfig := DefaultStoreConfig()
	storeConfig.SimulatedLatency = getEnvDuration("SIMULATED_LATENCY", storeConfig.SimulatedLatency)
	storeConfig.NotificationCap = getEnvInt("NOTIFICATION_CAP", storeConfig.NotificationCap)
	storeConfig.SeedDemoData = getEnvBool("SEED_DEMO_DATA", storeConfig.SeedDemoData)
	storeConfig.AffiliateRevenue = strings.ToLower(getEnvOrDefault("AFFILIATE_REVENUE", storeConfig.AffiliateRevenue))
	storeConfig.AffiliateProbability = getEnvFloat("AFFILIATE_PROBABILITY", storeConfig.AffiliateProbability)

	if storeConfig.AffiliateRevenue != "random" && storeConfig.AffiliateRevenue != "none" {
		return nil, fmt.Errorf("AFFILIATE_REVENUE must be 'random' or 'none', got %q", storeConfig.AffiliateRevenue)
	}
	if storeConfig.NotificationCap <= 0 {
		logrus.Warnf("NOTIFICATION_CAP must be positive, using %d", DefaultStoreConfig().NotificationCap)
		storeConfig.NotificationCap = DefaultStoreConfig().NotificationCap
	}

	config := &Config{
		Server:         serverConfig,
		Storage:        storageConfig,
		Store:          storeConfig,
		AllowedOrigins: []string{"*"},
		Debug:          getEnvBool("DEBUG", false),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}
	if config.Debug && os.Getenv("LOG_LEVEL") == "" {
		config.LogLevel = "debug"
	}

	return config, nil
}

func loadStorageConfig() (*StorageConfig, error) {
	cfg := DefaultStorageConfig()
	cfg.Backend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", cfg.Backend))
	cfg.FilePath = getEnvOrDefault("STORE_FILE", cfg.FilePath)
	cfg.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.DynamoTable = getEnvOrDefault("DYNAMO_TABLE", cfg.DynamoTable)

	switch cfg.Backend {
	case BackendMemory, BackendFile, BackendDynamo:
	case BackendMongo:
		cfg.MongoURI = os.Getenv("MONGO_URI")
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable is required when STORE_BACKEND is mongo")
		}
	case BackendPostgres:
		uri, err := postgresURIFromEnv()
		if err != nil {
			return nil, err
		}
		cfg.PostgresURI = uri
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}

// postgresURIFromEnv prefers DATABASE_URL and falls back to the DB_* variables.
func postgresURIFromEnv() (string, error) {
	if uri := os.Getenv("DATABASE_URL"); uri != "" {
		return uri, nil
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		return "", fmt.Errorf("DB_USER environment variable is required when STORE_BACKEND is postgres and DATABASE_URL is not set")
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		return "", fmt.Errorf("DB_PASSWORD environment variable is required when STORE_BACKEND is postgres and DATABASE_URL is not set")
	}

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		user,
		password,
		getEnvOrDefault("DB_HOST", "localhost"),
		getEnvInt("DB_PORT", 5432),
		getEnvOrDefault("DB_NAME", "postgres"),
		getEnvOrDefault("DB_SSL_MODE", "require"),
	), nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		logrus.Warnf("invalid %s=%q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %t", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value < 0 {
		logrus.Warnf("invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
