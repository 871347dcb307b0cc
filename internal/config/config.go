// Package config loads the pressing server settings from defaults, an optional
// YAML file, an optional .env file and PRESSING_* environment variables, in
// that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/pressing/internal/model"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "PRESSING_"

// Config holds the server settings.
type Config struct {
	Database           string                    `yaml:"database"`
	Addr               string                    `yaml:"addr"`
	RedisURL           string                    `yaml:"redis_url"`
	RedisNamespace     string                    `yaml:"redis_namespace"`
	LogFile            string                    `yaml:"log_file"`
	PromiseDays        int                       `yaml:"promise_days"`
	RateLimit          float64                   `yaml:"rate_limit"`
	RateBurst          int                       `yaml:"rate_burst"`
	StorageSuggestions []model.StorageSuggestion `yaml:"storage_suggestions"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Database:       "pressing.sqlite3",
		Addr:           ":8080",
		RedisNamespace: "pressing",
		PromiseDays:    7,
		RateLimit:      20,
		RateBurst:      40,
	}
}

// Load builds a Config from defaults, the YAML file at path and the .env file
// at envFile. Either path may be empty. A missing .env file is not an error;
// a missing YAML file is, since the caller asked for it.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile overlays the YAML file at path onto c.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv overlays PRESSING_* environment variables onto c.
func (c *Config) LoadFromEnv() error {
	if v := getenv("DATABASE"); v != "" {
		c.Database = v
	}
	if v := getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := getenv("REDIS_NAMESPACE"); v != "" {
		c.RedisNamespace = v
	}
	if v := getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getenv("PROMISE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPROMISE_DAYS: %w", EnvPrefix, err)
		}
		c.PromiseDays = n
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit = f
	}
	if v := getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRATE_BURST: %w", EnvPrefix, err)
		}
		c.RateBurst = n
	}
	return nil
}

// Validate checks the settings for values the server cannot run with.
func (c *Config) Validate() error {
	if c.RedisURL == "" && c.Database == "" {
		return errors.New("either database or redis_url must be set")
	}
	if c.Addr == "" {
		return errors.New("addr must be set")
	}
	if c.PromiseDays < 0 {
		return fmt.Errorf("promise_days must not be negative, got %d", c.PromiseDays)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return errors.New("rate_limit and rate_burst must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		return errors.New("rate_burst must be positive when rate_limit is set")
	}
	return nil
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}
