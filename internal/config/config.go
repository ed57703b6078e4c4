package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the black carbon dashboard service
type Config struct {
	// Server configuration
	Port        string `env:"PORT,default=8980"`
	Environment string `env:"ENVIRONMENT,default=development"`

	// Dataset synthesis configuration
	SampleSize int    `env:"SAMPLE_SIZE,default=103"`
	StartDate  string `env:"START_DATE,default=2022-01-01"`
	StepDays   int    `env:"STEP_DAYS,default=3"`
	Seed       int64  `env:"SEED,default=0"`

	// Snapshot storage configuration (GCS in production, local otherwise)
	GCSBucket         string `env:"GCS_BUCKET"`
	LocalSnapshotsDir string `env:"LOCAL_SNAPSHOTS_DIR,default=./snapshots"`

	// Chart asset configuration
	EChartsAssetURL string `env:"ECHARTS_ASSET_URL,default=https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"`

	// OpenAI configuration (optional; narrative generation is skipped
	// when no key is set)
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4.1"`

	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that synthesis parameters are usable.
func (c *Config) Validate() error {
	if c.StepDays <= 0 {
		return fmt.Errorf("STEP_DAYS must be positive, got %d", c.StepDays)
	}
	if _, err := c.ParsedStartDate(); err != nil {
		return err
	}
	return nil
}

// ParsedStartDate parses StartDate as a UTC calendar date.
func (c *Config) ParsedStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid START_DATE %q: %w", c.StartDate, err)
	}
	return t.UTC(), nil
}
