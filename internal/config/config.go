package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
	Pool     database.PoolConfig
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	Version        string
	LogLevel       string
	Storage        string
	SeedFile       string
	AllowedOrigins []string
}

// RedisConfig is optional. An empty Addr disables POST idempotency.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type AttendanceConfig struct {
	GraceWindow       time.Duration
	MaxDailyHours     float64
	ScheduleTolerance time.Duration
	CronInterval      time.Duration
	// Location is the zone calendar dates and schedule times are read in.
	Location *time.Location
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMigrate, err := strconv.ParseBool(getEnv("DB_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Migrate:  dbMigrate,
		Pool: database.PoolConfig{
			MaxConns: int32(maxConns),
			MinConns: int32(minConns),
		},
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	idempotencyTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:           getEnv("REDIS_ADDR", ""),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		IdempotencyTTL: idempotencyTTL,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		Version:        getEnv("APP_VERSION", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Storage:        strings.ToLower(getEnv("APP_STORAGE", StoragePostgres)),
		SeedFile:       getEnv("APP_SEED_FILE", ""),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	grace, err := time.ParseDuration(getEnv("ATTENDANCE_GRACE_WINDOW", "16h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_WINDOW: %w", err)
	}
	maxDaily, err := strconv.ParseFloat(getEnv("ATTENDANCE_MAX_DAILY_HOURS", "16"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_DAILY_HOURS: %w", err)
	}
	tolerance, err := time.ParseDuration(getEnv("ATTENDANCE_SCHEDULE_TOLERANCE", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SCHEDULE_TOLERANCE: %w", err)
	}
	cronInterval, err := time.ParseDuration(getEnv("CRON_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_INTERVAL: %w", err)
	}
	location, err := time.LoadLocation(getEnv("ATTENDANCE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}

	config.Attendance = AttendanceConfig{
		GraceWindow:       grace,
		MaxDailyHours:     maxDaily,
		ScheduleTolerance: tolerance,
		CronInterval:      cronInterval,
		Location:          location,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Storage {
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.Pool.MaxConns <= 0 || c.Database.Pool.MinConns < 0 || c.Database.Pool.MinConns > c.Database.Pool.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("APP_STORAGE must be %q or %q", StoragePostgres, StorageMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Attendance.GraceWindow <= 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_WINDOW must be positive")
	}
	if c.Attendance.MaxDailyHours <= 0 || c.Attendance.MaxDailyHours > 24 {
		return fmt.Errorf("ATTENDANCE_MAX_DAILY_HOURS must be within (0, 24]")
	}
	if c.Attendance.ScheduleTolerance < 0 {
		return fmt.Errorf("ATTENDANCE_SCHEDULE_TOLERANCE must not be negative")
	}
	if c.Attendance.CronInterval <= 0 {
		return fmt.Errorf("CRON_INTERVAL must be positive")
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

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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
