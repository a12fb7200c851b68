package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	IsProduction     bool
	EnableDBCheck    bool
	StorageDriver    string
	MigrationsPath   string
	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration
	RequestTimeout   time.Duration
	LogLevel         string

	JWTSecret string
	JWTIssuer string

	FrontendBaseURL string
	RateLimit       string // limiter format, e.g. "300-M"

	// Posting
	PostMaxAttempts  int
	PostRetryBackoff time.Duration
	RedisURL         string // optional; enables the distributed posting lock
	PostLockTTL      time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIN_CONNS", 1)
	viper.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POST_MAX_ATTEMPTS", 3)
	viper.SetDefault("POST_RETRY_BACKOFF", "50ms")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("POST_LOCK_TTL", "10s")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:   strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:  viper.GetString("MIGRATIONS_PATH"),
		DBMaxConns:      viper.GetInt32("DB_MAX_CONNS"),
		DBMinConns:      viper.GetInt32("DB_MIN_CONNS"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		JWTIssuer:       viper.GetString("JWT_ISSUER"),
		FrontendBaseURL: viper.GetString("FRONTEND_BASE_URL"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		PostMaxAttempts: viper.GetInt("POST_MAX_ATTEMPTS"),
		RedisURL:        viper.GetString("REDIS_URL"),
	}

	var err error
	if cfg.DBConnectTimeout, err = durationSetting("DB_CONNECT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationSetting("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PostRetryBackoff, err = durationSetting("POST_RETRY_BACKOFF", 50*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.PostLockTTL, err = durationSetting("POST_LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.PostMaxAttempts < 1 {
		log.Printf("Warning: POST_MAX_ATTEMPTS must be at least 1 (got %d). Defaulting to 1.\n", cfg.PostMaxAttempts)
		cfg.PostMaxAttempts = 1
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: using in-memory storage; data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

func durationSetting(key string, fallback time.Duration) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}
