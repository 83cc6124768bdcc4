package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application settings (in-memory representation).
// Persistence of user-edited settings is handled by internal/db;
// file loading is YAML with environment overrides.
type Config struct {
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Upstream API behaviour.
	Platform          string        `yaml:"platform" json:"platform"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	Workers           int           `yaml:"workers" json:"workers"`
	CacheTTL          time.Duration `yaml:"cache_ttl" json:"cache_ttl"`

	// Signal parameters.
	TrailingWindow  int    `yaml:"trailing_window" json:"trailing_window"`
	PreferredPeriod string `yaml:"preferred_period" json:"preferred_period"`
	FallbackPeriod  string `yaml:"fallback_period" json:"fallback_period"`

	// Classification strategy: "type" (authoritative item-type lookup)
	// or "name" (display-name heuristic with fallback category).
	Strategy string `yaml:"strategy" json:"strategy"`

	DatabasePath string `yaml:"database_path" json:"database_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:              13371,
		LogLevel:          "info",
		Platform:          "pc",
		RequestsPerSecond: 3,
		Burst:             3,
		Workers:           4,
		CacheTTL:          time.Hour,
		TrailingWindow:    10,
		PreferredPeriod:   "48hours",
		FallbackPeriod:    "90days",
		Strategy:          "type",
		DatabasePath:      "flipper.db",
	}
}

// Load reads a YAML config file over the defaults and applies env overrides.
// A missing file is not an error; defaults plus env are used.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WFM_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("WFM_PLATFORM"); v != "" {
		c.Platform = v
	}
	if v := os.Getenv("WFM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WFM_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("WFM_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
}

// Validate checks that every parameter is inside its working range.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be > 0, got %v", c.RequestsPerSecond)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("burst must be > 0, got %d", c.Burst)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0, got %v", c.CacheTTL)
	}
	if c.TrailingWindow <= 0 {
		return fmt.Errorf("trailing_window must be > 0, got %d", c.TrailingWindow)
	}
	if c.PreferredPeriod == "" || c.FallbackPeriod == "" {
		return fmt.Errorf("statistics periods must be set")
	}
	switch c.Strategy {
	case "type", "name":
	default:
		return fmt.Errorf("strategy %q must be \"type\" or \"name\"", c.Strategy)
	}
	switch c.Platform {
	case "pc", "xbox", "ps4", "switch":
	default:
		return fmt.Errorf("platform %q not recognised", c.Platform)
	}
	return nil
}
