package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the scraper core service
type Config struct {
	Site     SiteConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// SiteConfig holds remote platform settings
type SiteConfig struct {
	Name              string
	BaseURL           string
	DynamicRulesURL   string
	RequestsPerSecond float64
	RequestTimeout    time.Duration
	UserAgent         string
}

// AuthConfig holds session registry settings
type AuthConfig struct {
	SweepInterval   time.Duration
	CloseTimeout    time.Duration
	LoginTimeout    time.Duration
	CredentialsFile string // optional JSON array of auth documents logged in at startup
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers         []string
	TopicAuthEvents string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	ShutdownTimeout time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Site     *SiteConfig
	Auth     *AuthConfig
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Site:     &cfg.Site,
		Auth:     &cfg.Auth,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	rps, err := strconv.ParseFloat(getEnv("SITE_REQUESTS_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SITE_REQUESTS_PER_SECOND: %w", err)
	}

	requestTimeout, err := time.ParseDuration(getEnv("SITE_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SITE_REQUEST_TIMEOUT: %w", err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("AUTH_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_SWEEP_INTERVAL: %w", err)
	}

	closeTimeout, err := time.ParseDuration(getEnv("AUTH_CLOSE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_CLOSE_TIMEOUT: %w", err)
	}

	loginTimeout, err := time.ParseDuration(getEnv("AUTH_LOGIN_TIMEOUT", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_LOGIN_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SERVICE_SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Site: SiteConfig{
			Name:              getEnv("SITE_NAME", "OnlyFans"),
			BaseURL:           strings.TrimRight(getEnv("SITE_BASE_URL", "https://onlyfans.com/api2/v2"), "/"),
			DynamicRulesURL:   getEnv("SITE_DYNAMIC_RULES_URL", ""),
			RequestsPerSecond: rps,
			RequestTimeout:    requestTimeout,
			UserAgent:         getEnv("SITE_USER_AGENT", ""),
		},
		Auth: AuthConfig{
			SweepInterval:   sweepInterval,
			CloseTimeout:    closeTimeout,
			LoginTimeout:    loginTimeout,
			CredentialsFile: getEnv("AUTH_CREDENTIALS_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "scraper_user"),
			Password: getEnv("DATABASE_PASSWORD", "scraper_pass"),
			DBName:   getEnv("DATABASE_NAME", "scraper_db"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:         strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ","),
			TopicAuthEvents: getEnv("KAFKA_TOPIC_AUTH_EVENTS", "auth.events"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "scraper-core"),
			Port:            getEnv("SERVICE_PORT", "8085"),
			ShutdownTimeout: shutdownTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}

	if c.Site.DynamicRulesURL == "" {
		return fmt.Errorf("SITE_DYNAMIC_RULES_URL is required")
	}

	if c.Site.RequestsPerSecond <= 0 {
		return fmt.Errorf("SITE_REQUESTS_PER_SECOND must be positive")
	}

	if c.Auth.SweepInterval <= 0 {
		return fmt.Errorf("AUTH_SWEEP_INTERVAL must be positive")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if len(c.Kafka.Brokers) == 0 || c.Kafka.Brokers[0] == "" {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
