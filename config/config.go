package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"tourney/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string
	LockTimeout  time.Duration // Applied with SET LOCAL lock_timeout on every unit of work

	// HTTP configuration
	HTTPAddr           string
	JWTSecretKey       string
	TokenTTL           time.Duration
	RateLimit          int // Requests per minute per client IP
	CORSAllowedOrigins []string

	// NATS configuration
	NATSEnabled bool
	NATSServers string // NATS server addresses (comma-separated)

	// Proof storage configuration
	ProofStore          string // "local" or "r2"
	UploadDir           string
	CloudflareAccountID string
	R2AccessKeyID       string
	R2AccessKeySecret   string
	R2BucketName        string
	CDNBaseURL          string

	// Room auto-close configuration
	RoomCloseGrace    time.Duration
	RoomCloseInterval time.Duration

	// Observability configuration
	OTELEnabled          bool
	OTELExporterType     string // "console", "otlp" or "none"
	OTELOTLPEndpoint     string
	OTELServiceName      string
	OTELExportIntervalMS int

	// Accounts
	AdminUsernames []string // Usernames granted the admin flag at signup

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsTest reports whether the service runs under the test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// load loads configuration from environment variables, reading .env first when present
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		LockTimeout:  getDurationWithDefault("LOCK_TIMEOUT", 5*time.Second),

		// HTTP
		HTTPAddr:           getEnvWithDefault("HTTP_ADDR", ":8080"),
		JWTSecretKey:       os.Getenv("JWT_SECRET_KEY"),
		TokenTTL:           getDurationWithDefault("TOKEN_TTL", 168*time.Hour),
		RateLimit:          getIntWithDefault("RATE_LIMIT", 120),
		CORSAllowedOrigins: splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		// NATS
		NATSEnabled: getBoolWithDefault("NATS_ENABLED", false),
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Proof storage
		ProofStore:          getEnvWithDefault("PROOF_STORE", "local"),
		UploadDir:           getEnvWithDefault("UPLOAD_DIR", "uploads"),
		CloudflareAccountID: os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:       os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret:   os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2BucketName:        os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:          os.Getenv("CDN_BASE_URL"),

		// Room auto-close
		RoomCloseGrace:    getDurationWithDefault("ROOM_CLOSE_GRACE", 6*time.Hour),
		RoomCloseInterval: getDurationWithDefault("ROOM_CLOSE_INTERVAL", 5*time.Minute),

		// Observability
		OTELEnabled:          getBoolWithDefault("OTEL_ENABLED", false),
		OTELExporterType:     getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTELOTLPEndpoint:     getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTELServiceName:      getEnvWithDefault("OTEL_SERVICE_NAME", "tourney"),
		OTELExportIntervalMS: getIntWithDefault("OTEL_EXPORT_INTERVAL_MS", 60000),

		// Accounts
		AdminUsernames: splitList(os.Getenv("ADMIN_USERNAMES")),

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.IsTest() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.ProofStore != "local" && c.ProofStore != "r2" {
		return fmt.Errorf("PROOF_STORE must be local or r2, got %q", c.ProofStore)
	}
	if c.ProofStore == "r2" && (c.CloudflareAccountID == "" || c.R2BucketName == "") {
		return fmt.Errorf("CLOUDFLARE_ACCOUNT_ID and R2_BUCKET_NAME are required for the r2 proof store")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping blank entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:        "test",
		HTTPAddr:           ":0",
		JWTSecretKey:       "test-secret",
		TokenTTL:           time.Hour,
		RateLimit:          1000,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		ProofStore:         "local",
		UploadDir:          os.TempDir(),
		LockTimeout:        2 * time.Second,
		RoomCloseGrace:     6 * time.Hour,
		RoomCloseInterval:  5 * time.Minute,
		OTELExporterType:   "none",
		OTELServiceName:    "tourney-test",
		AdminUsernames:     []string{"admin"},
		LogLevel:           "debug",
		LogFormat:          "text",
	}
}
