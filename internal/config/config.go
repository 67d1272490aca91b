package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	JWTSecret   string
	Database    DatabaseConfig

	// AutoApproveAdmin makes schedules created by an admin skip the
	// pending state.
	AutoApproveAdmin bool

	// SweeperInterval is how often the retention sweeper runs;
	// RetentionDays is how long cancelled bookings are kept.
	SweeperInterval time.Duration
	RetentionDays   int

	SeedDemoData bool
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	autoApprove, err := strconv.ParseBool(getEnv("SCHEDULE_AUTO_APPROVE_ADMIN", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_AUTO_APPROVE_ADMIN: %w", err)
	}

	sweeperInterval, err := time.ParseDuration(getEnv("SWEEPER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEPER_INTERVAL: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("BOOKING_RETENTION_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_RETENTION_DAYS: %w", err)
	}
	if retentionDays < 1 {
		return nil, fmt.Errorf("BOOKING_RETENTION_DAYS must be at least 1")
	}

	seedDemoData, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:             getEnv("PORT", "3001"),
		Origin:           getEnv("ORIGIN", "http://localhost:4200"),
		Environment:      getEnv("APP_ENV", "development"),
		JWTSecret:        getEnv("JWT_SECRET", "default_jwt_secret"),
		Database:         dbConfig,
		AutoApproveAdmin: autoApprove,
		SweeperInterval:  sweeperInterval,
		RetentionDays:    retentionDays,
		SeedDemoData:     seedDemoData,
	}, nil
}

// RetentionWindow returns the retention period as a duration.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
