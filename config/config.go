// config/config.go - Environment-driven configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver     string // postgres or sqlite
	URL        string
	SQLitePath string
	LogLevel   string
}

type Progress struct {
	FetchTimeout      time.Duration
	EvaluationTimeout time.Duration
}

type RateLimit struct {
	Enabled        bool
	TrackPerMinute int
	TrackBurst     int
}

type Config struct {
	AppEnv      string
	Port        string
	JWTSecret   string
	CORSOrigins string

	Database  Database
	Progress  Progress
	RateLimit RateLimit
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnvOrDefault("APP_ENV", "development"),
		Port:        getEnvOrDefault("PORT", "3000"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000"),
		Database: Database{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			URL:        postgresDSN(),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "./data/hadithhub.db"),
			LogLevel:   getEnvOrDefault("DB_LOG_LEVEL", "warn"),
		},
		RateLimit: RateLimit{
			Enabled: !isFalse(os.Getenv("RATE_LIMIT_ENABLED")),
		},
	}

	var err error
	if cfg.Progress.FetchTimeout, err = getEnvDuration("PROGRESS_FETCH_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.Progress.EvaluationTimeout, err = getEnvDuration("PROGRESS_EVALUATION_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimit.TrackPerMinute, err = getEnvInt("TRACK_RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimit.TrackBurst, err = getEnvInt("TRACK_RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters long")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Progress.EvaluationTimeout <= 0 || c.Progress.FetchTimeout <= 0 {
		return errors.New("progress timeouts must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func postgresDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "hadithhub")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, def int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func isFalse(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "false", "0", "no":
		return true
	default:
		return false
	}
}
