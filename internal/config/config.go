package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DOORQUOTE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	maxPricingDepth = 32
)

// Config holds application configuration sourced from DOORQUOTE_* environment variables.
type Config struct {
	AppEnv          string `envconfig:"APP_ENV" default:"dev"`
	Port            string `envconfig:"PORT" default:"8080"`
	DBPath          string `envconfig:"DB_PATH" default:"./dev.db"`
	MigrationsDir   string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	SeedOnStart     bool   `envconfig:"SEED_ON_START" default:"true"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string `envconfig:"LOG_FORMAT" default:"json"`
	PricingMaxDepth int    `envconfig:"PRICING_MAX_DEPTH" default:"8"`
}

// Load reads a local .env file if present, then the process environment.
func Load() (*Config, error) {
	// Production should use real env injection; a missing file is fine.
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.PricingMaxDepth < 1 || c.PricingMaxDepth > maxPricingDepth {
		return fmt.Errorf("%s_PRICING_MAX_DEPTH must be between 1 and %d, got %d", EnvPrefix, maxPricingDepth, c.PricingMaxDepth)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%s_DB_PATH must not be empty", EnvPrefix)
	}
	return nil
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, AppEnvDev)
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.AppEnv, AppEnvProd)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
