package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Business  BusinessConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
}

type SchedulerConfig struct {
	Timezone string
}

// BusinessConfig carries the pay-later program constants. The credit
// limit is fixed per vendor and non-transferable; the interest rate is a
// monthly rate applied to overdue balances.
type BusinessConfig struct {
	CreditLimit    string
	InterestRate   string
	DueDays        int
	BlockGraceDays int
}

type HealthConfig struct {
	Timeout string
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("CREDIT_LIMIT", "3000")
	viper.SetDefault("INTEREST_RATE", "0.05")
	viper.SetDefault("DUE_DAYS", 30)
	viper.SetDefault("BLOCK_GRACE_DAYS", 30)
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	// Fields are read individually: the env keys are flat, so a nested
	// Unmarshal would never see them.
	config := Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Host: viper.GetString("SERVER_HOST"),
			Env:  viper.GetString("ENV"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DATABASE_HOST"),
			Port:     viper.GetString("DATABASE_PORT"),
			Name:     viper.GetString("DATABASE_NAME"),
			User:     viper.GetString("DATABASE_USER"),
			Password: viper.GetString("DATABASE_PASSWORD"),
		},
		Redis: RedisConfig{
			URL:      viper.GetString("REDIS_URL"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
		},
		Scheduler: SchedulerConfig{
			Timezone: viper.GetString("SCHEDULER_TIMEZONE"),
		},
		Business: BusinessConfig{
			CreditLimit:    viper.GetString("CREDIT_LIMIT"),
			InterestRate:   viper.GetString("INTEREST_RATE"),
			DueDays:        viper.GetInt("DUE_DAYS"),
			BlockGraceDays: viper.GetInt("BLOCK_GRACE_DAYS"),
		},
		Health: HealthConfig{
			Timeout: viper.GetString("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Business.DueDays <= 0 {
		return fmt.Errorf("DUE_DAYS must be greater than 0")
	}

	if c.Business.BlockGraceDays < 0 {
		return fmt.Errorf("BLOCK_GRACE_DAYS must not be negative")
	}

	limit, err := decimal.NewFromString(c.Business.CreditLimit)
	if err != nil {
		return fmt.Errorf("CREDIT_LIMIT must be a valid decimal: %w", err)
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("CREDIT_LIMIT must be greater than 0")
	}

	rate, err := decimal.NewFromString(c.Business.InterestRate)
	if err != nil {
		return fmt.Errorf("INTEREST_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("INTEREST_RATE must not be negative")
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetCreditLimit returns the program credit limit as decimal
func (c *Config) GetCreditLimit() decimal.Decimal {
	limit, _ := decimal.NewFromString(c.Business.CreditLimit)
	return limit
}

// GetInterestRate returns the monthly overdue interest rate as decimal
func (c *Config) GetInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.InterestRate)
	return rate
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// DSN builds the Postgres connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}
