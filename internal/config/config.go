package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int32
	MinConns   int32
	LogQueries bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
	AutoMigrate bool
}

// OutOfShiftPolicy decides what happens to a check-in outside 21:00-05:59.
type OutOfShiftPolicy string

const (
	OutOfShiftAccept OutOfShiftPolicy = "accept"
	OutOfShiftReject OutOfShiftPolicy = "reject"
)

// BreakDurationSource decides who is authoritative for a finished break's length.
type BreakDurationSource string

const (
	BreakDurationServer BreakDurationSource = "server"
	BreakDurationClient BreakDurationSource = "client"
)

type AttendanceConfig struct {
	OutOfShiftPolicy    OutOfShiftPolicy
	BreakDurationSource BreakDurationSource
	StaleAfter          time.Duration
	CronEnabled         bool
}

// DefaultAttendance is the policy used when nothing is configured.
func DefaultAttendance() AttendanceConfig {
	return AttendanceConfig{
		OutOfShiftPolicy:    OutOfShiftAccept,
		BreakDurationSource: BreakDurationServer,
		StaleAfter:          24 * time.Hour,
		CronEnabled:         true,
	}
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := getEnvInt32("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt32("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	logQueries, err := getEnvBool("DB_LOG_QUERIES", false)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "hris_attendance"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		MaxConns:   maxConns,
		MinConns:   minConns,
		LogQueries: logQueries,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	autoMigrate, err := getEnvBool("AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AutoMigrate: autoMigrate,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Attendance policies
	attendance := DefaultAttendance()
	attendance.OutOfShiftPolicy = OutOfShiftPolicy(strings.ToLower(getEnv("ATTENDANCE_OUT_OF_SHIFT_POLICY", string(attendance.OutOfShiftPolicy))))
	attendance.BreakDurationSource = BreakDurationSource(strings.ToLower(getEnv("ATTENDANCE_BREAK_DURATION_SOURCE", string(attendance.BreakDurationSource))))
	attendance.StaleAfter, err = time.ParseDuration(getEnv("ATTENDANCE_STALE_AFTER", attendance.StaleAfter.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STALE_AFTER: %w", err)
	}
	attendance.CronEnabled, err = getEnvBool("ATTENDANCE_CRON_ENABLED", attendance.CronEnabled)
	if err != nil {
		return nil, err
	}
	config.Attendance = attendance

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	switch c.Attendance.OutOfShiftPolicy {
	case OutOfShiftAccept, OutOfShiftReject:
	default:
		return fmt.Errorf("ATTENDANCE_OUT_OF_SHIFT_POLICY must be accept or reject, got %q", c.Attendance.OutOfShiftPolicy)
	}
	switch c.Attendance.BreakDurationSource {
	case BreakDurationServer, BreakDurationClient:
	default:
		return fmt.Errorf("ATTENDANCE_BREAK_DURATION_SOURCE must be server or client, got %q", c.Attendance.BreakDurationSource)
	}
	if c.Attendance.StaleAfter <= 0 {
		return errors.New("ATTENDANCE_STALE_AFTER must be positive")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
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

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt32(key string, fallback int32) (int32, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return int32(n), nil
}
