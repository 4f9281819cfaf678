package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// SportsGameOdds API
	SGOAPIKey  string        `envconfig:"SPORTSGAMEODDS_API_KEY" required:"true"`
	SGOBaseURL string        `envconfig:"SPORTSGAMEODDS_BASE_URL" default:"https://api.sportsgameodds.com/v2"`
	SGOTimeout time.Duration `envconfig:"SPORTSGAMEODDS_TIMEOUT" default:"30s"`

	// Persistence collaborator
	StoreURL        string        `envconfig:"SUPABASE_URL" required:"true"`
	StoreServiceKey string        `envconfig:"SUPABASE_SERVICE_KEY" required:"true"`
	StoreTimeout    time.Duration `envconfig:"STORE_TIMEOUT" default:"30s"`
	StoreBatchSize  int           `envconfig:"STORE_BATCH_SIZE" default:"250"`

	// Ingestion
	Leagues        []string `envconfig:"INGEST_LEAGUES" default:"nfl,nba,mlb,nhl"`
	SeasonOverride int      `envconfig:"INGEST_SEASON" default:"0"`
	MarketOddIDs   string   `envconfig:"MARKET_ODD_IDS" default:""`
	EventLimit     int      `envconfig:"EVENT_LIMIT" default:"250"`

	// Caching TTL
	PlayerMapTTL    time.Duration `envconfig:"PLAYER_MAP_TTL" default:"30m"`
	TeamRegistryTTL time.Duration `envconfig:"TEAM_REGISTRY_TTL" default:"5m"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler   bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialRunEnabled bool          `envconfig:"INITIAL_RUN_ENABLED" default:"true"`
	NightlyIngestCron string        `envconfig:"NIGHTLY_INGEST_CRON" default:"0 2 * * *"`
	IngestInterval    time.Duration `envconfig:"INGEST_INTERVAL" default:"0s"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SGOAPIKey == "" {
		return fmt.Errorf("SPORTSGAMEODDS_API_KEY is required")
	}

	if c.StoreURL == "" || c.StoreServiceKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}

	if len(c.Leagues) == 0 {
		return fmt.Errorf("INGEST_LEAGUES must name at least one league")
	}

	if c.StoreBatchSize <= 0 {
		return fmt.Errorf("STORE_BATCH_SIZE must be positive")
	}

	return nil
}

// Season returns the configured season, defaulting to the current calendar
// year when no override is set
func (c *Config) Season() int {
	if c.SeasonOverride != 0 {
		return c.SeasonOverride
	}
	return time.Now().UTC().Year()
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
