package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MUSICSTORE_DATABASE", "/data/chinook.db")
	t.Setenv("MUSICSTORE_TOP_N", "10")
	t.Setenv("MUSICSTORE_KEYING", "lineage")
	t.Setenv("MUSICSTORE_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/chinook.db", cfg.Database)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "lineage", cfg.Keying)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 5, cfg.Sample, "unset keys keep defaults")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database", func(c *Config) { c.Database = "" }},
		{"zero top", func(c *Config) { c.TopN = 0 }},
		{"negative sample", func(c *Config) { c.Sample = -1 }},
		{"unknown keying", func(c *Config) { c.Keying = "zip" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
