// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	Addr           string
	WebDir         string
	BackendURL     string
	BackendTimeout time.Duration

	Store StoreConfig

	CalorieFormula string
	RefreshBackoff time.Duration

	LogLevel string
	LogDev   bool
}

// StoreConfig selects and configures the local key/value backend.
type StoreConfig struct {
	Backend        string // memory, file, postgres, redis
	Path           string
	KeyHex         string
	DatabaseURL    string
	Scope          string
	RedisAddr      string
	RedisPassword  string
	RedisNamespace string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("ADDR", ":8080"),
		WebDir:         os.Getenv("WEB_DIR"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 0),
		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", "file"),
			Path:           getEnv("STORE_PATH", defaultStorePath()),
			KeyHex:         os.Getenv("STORE_KEY_HEX"),
			DatabaseURL:    os.Getenv("DATABASE_URL"),
			Scope:          getEnv("STORE_SCOPE", "default"),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  os.Getenv("REDIS_PASSWORD"),
			RedisNamespace: getEnv("REDIS_NAMESPACE", "dietcoach"),
		},
		CalorieFormula: getEnv("CALORIE_FORMULA", "mifflin"),
		RefreshBackoff: getEnvAsDuration("REFRESH_BACKOFF", 2*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDev:         getEnvAsBool("LOG_DEV", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.RefreshBackoff < 0 {
		return fmt.Errorf("REFRESH_BACKOFF must not be negative")
	}
	return nil
}

func defaultStorePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".dietcoach", "store.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
