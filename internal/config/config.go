package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// EngineConfig tunes the attendance engine.
type EngineConfig struct {
	DefaultUTCOffsetMinutes int
	ApprovalPolicyPath      string
	CacheTTL                time.Duration
	PunchRatePerMinute      int
	MissingPunchInterval    time.Duration
}

func Load() (*Config, error) {
	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		MinConns:    int32(minConns),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS"),
	}
	if len(config.App.CORSOrigins) == 0 {
		config.App.CORSOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Engine configuration
	offset, err := strconv.Atoi(getEnv("ENGINE_DEFAULT_UTC_OFFSET_MINUTES", "480"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_DEFAULT_UTC_OFFSET_MINUTES: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("ENGINE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_CACHE_TTL: %w", err)
	}
	punchRate, err := strconv.Atoi(getEnv("ENGINE_PUNCH_RATE_PER_MINUTE", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_PUNCH_RATE_PER_MINUTE: %w", err)
	}
	missingInterval, err := time.ParseDuration(getEnv("ENGINE_MISSING_PUNCH_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_MISSING_PUNCH_INTERVAL: %w", err)
	}

	config.Engine = EngineConfig{
		DefaultUTCOffsetMinutes: offset,
		ApprovalPolicyPath:      getEnv("ENGINE_APPROVAL_POLICY_PATH", ""),
		CacheTTL:                cacheTTL,
		PunchRatePerMinute:      punchRate,
		MissingPunchInterval:    missingInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Debug("configuration loaded", "env", config.App.Env, "port", config.App.Port)

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Engine.DefaultUTCOffsetMinutes < -720 || c.Engine.DefaultUTCOffsetMinutes > 840 {
		return fmt.Errorf("ENGINE_DEFAULT_UTC_OFFSET_MINUTES must be between -720 and 840")
	}
	if c.Engine.PunchRatePerMinute <= 0 {
		return fmt.Errorf("ENGINE_PUNCH_RATE_PER_MINUTE must be positive")
	}
	if c.Engine.MissingPunchInterval <= 0 {
		return fmt.Errorf("ENGINE_MISSING_PUNCH_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
