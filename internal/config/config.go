package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	JWT         JWTConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// DSN returns the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("JWT_TTL_HOURS", "24")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	ttlHours := viper.GetInt("JWT_TTL_HOURS")
	if ttlHours <= 0 {
		ttlHours = 24
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:          getEnvOrViper("DB_HOST", "localhost"),
			Port:          getEnvOrViper("DB_PORT", "5432"),
			User:          getEnvOrViper("DB_USER", "postgres"),
			Password:      getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:        getEnvOrViper("DB_NAME", "pharmacy"),
			SSLMode:       getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsDir: getEnvOrViper("MIGRATIONS_DIR", "migrations"),
		},
		JWT: JWTConfig{
			Secret: getEnvOrViper("JWT_SECRET", ""),
			TTL:    time.Duration(ttlHours) * time.Hour,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
