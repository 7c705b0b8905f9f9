package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the keepsake service.
// Environment variables are parsed from the KEEPSAKE_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override drivers
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	MediaDriver string `envconfig:"MEDIA_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/keepsake.db"`

	// Local media storage (local target)
	MediaPath string `envconfig:"MEDIA_PATH" default:"./data/media"`

	// S3-compatible media storage (cloud target)
	S3Endpoint  string `envconfig:"S3_ENDPOINT" default:""`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" default:""`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" default:""`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"keepsake-media"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"true"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Static API tokens for production deployments without an auth provider.
	// Format: token=externalId:email, comma-separated.
	APITokens string `envconfig:"API_TOKENS" default:""`

	// Stripe billing
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" default:""`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	StripePriceID       string `envconfig:"STRIPE_PRICE_ID" default:""`
	BillingSuccessURL   string `envconfig:"BILLING_SUCCESS_URL" default:"http://localhost:3000/billing/success"`
	BillingCancelURL    string `envconfig:"BILLING_CANCEL_URL" default:"http://localhost:3000/billing/cancel"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and MediaDriver
// when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB, defaultMedia string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
		defaultMedia = "local"
	case "cloud":
		defaultDB = "postgres"
		defaultMedia = "s3"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}
	if c.MediaDriver == "" || c.MediaDriver == "auto" {
		c.MediaDriver = defaultMedia
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	allowedMedia := map[string]bool{"local": true, "s3": true}
	if !allowedMedia[c.MediaDriver] {
		return fmt.Errorf("unsupported MEDIA_DRIVER: %s", c.MediaDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: KEEPSAKE_HTTP_PORT, KEEPSAKE_BUILD_TARGET
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("KEEPSAKE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("media_driver", cfg.MediaDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("stripe_configured", cfg.StripeSecretKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment: EnvTesting,
		BuildTarget: "local",
		DBDriver:    "sqlite",
		MediaDriver: "local",
		HTTPPort:    8080,
		SQLitePath:  "./data/keepsake-test.db",
		MediaPath:   "./data/media-test",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevMode reports whether the service should accept the hardcoded local
// development token instead of a real auth provider.
func (c *Config) IsDevMode() bool {
	return c.Environment != EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
