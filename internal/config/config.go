// Package config loads run settings from the environment (optionally via a
// .env file) and validates them. Command-line flags are applied on top by
// the caller.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables, e.g.
// MUSICSTORE_DATABASE -> database, MUSICSTORE_TOP_N -> top_n.
const EnvPrefix = "MUSICSTORE_"

// Config is everything a run can be tuned by.
type Config struct {
	Database string `koanf:"database" validate:"required"`
	TopN     int    `koanf:"top_n" validate:"min=1"`
	Sample   int    `koanf:"sample" validate:"min=0"`
	Verbose  bool   `koanf:"verbose"`
	Limit    int    `koanf:"limit" validate:"min=0"`
	Keying   string `koanf:"keying" validate:"oneof=name lineage"`
	LogLevel string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Database: "database.sqlite",
		TopN:     5,
		Sample:   5,
		Limit:    2,
		Keying:   "name",
		LogLevel: "warn",
	}
}

// Load overlays environment variables on Default.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
