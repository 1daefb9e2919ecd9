package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultDatasetURL is the NYC Open Data CSV export of the NYPD Shooting
// Incident Data (Historic) dataset.
const DefaultDatasetURL = "https://data.cityofnewyork.us/api/views/833y-fsy8/rows.csv?accessType=DOWNLOAD"

// Config holds all report settings, populated from environment variables.
type Config struct {
	DatasetURL   string        `envconfig:"DATASET_URL"`
	OutputDir    string        `envconfig:"OUTPUT_DIR" default:"out"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`
	FetchRetries int           `envconfig:"FETCH_RETRIES" default:"0"`
	PreviewRows  int           `envconfig:"PREVIEW_ROWS" default:"6"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.DatasetURL == "" {
		cfg.DatasetURL = DefaultDatasetURL
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}
	if cfg.FetchRetries < 0 {
		return nil, errors.New("FETCH_RETRIES must be >= 0")
	}
	if cfg.PreviewRows <= 0 {
		return nil, errors.New("PREVIEW_ROWS must be > 0")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return &cfg, nil
}
