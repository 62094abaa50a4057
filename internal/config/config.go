// Package config provides configuration management for FootyOracle.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the application.
type Config struct {
	// Discord
	DiscordToken string `envconfig:"DISCORD_TOKEN"`

	// Gemini
	GeminiAPIKey          string  `envconfig:"GEMINI_API_KEY"`
	GeminiModel           string  `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiTemperature     float32 `envconfig:"GEMINI_TEMPERATURE" default:"0.7"`
	GeminiMaxOutputTokens int32   `envconfig:"GEMINI_MAX_OUTPUT_TOKENS" default:"8192"`
	GeminiGoogleSearch    bool    `envconfig:"GEMINI_GOOGLE_SEARCH" default:"true"`

	// Storage
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`
	RedisURL     string `envconfig:"REDIS_URL"`
	SQLitePath   string `envconfig:"SQLITE_PATH" default:"data/footyoracle.db"`
	HistoryKey   string `envconfig:"HISTORY_KEY" default:"footy_history_v2"`

	// Headlines
	HeadlinesEnabled bool          `envconfig:"HEADLINES_ENABLED" default:"false"`
	HeadlinesURL     string        `envconfig:"HEADLINES_URL" default:"https://www.bbc.com/sport/football"`
	HeadlinesLimit   int           `envconfig:"HEADLINES_LIMIT" default:"8"`
	HeadlinesTTL     time.Duration `envconfig:"HEADLINES_TTL" default:"15m"`

	// Runtime
	HealthAddr string `envconfig:"HEALTH_ADDR" default:":8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile    string `envconfig:"LOG_FILE"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	return &cfg, nil
}

// ValidateStorage checks the store settings, all the history commands need.
func (c *Config) ValidateStorage() error {
	return joinErrors(c.storageErrors())
}

// Validate checks the values every analysis command needs.
func (c *Config) Validate() error {
	var errs []string

	if c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is missing")
	}

	errs = append(errs, c.storageErrors()...)

	if c.GeminiTemperature < 0 || c.GeminiTemperature > 2 {
		errs = append(errs, "GEMINI_TEMPERATURE must be between 0 and 2")
	}

	if c.GeminiMaxOutputTokens <= 0 {
		errs = append(errs, "GEMINI_MAX_OUTPUT_TOKENS must be positive")
	}

	return joinErrors(errs)
}

func (c *Config) storageErrors() []string {
	var errs []string
	switch c.StoreBackend {
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, "REDIS_URL is required for the redis backend")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite backend")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND %q is not one of redis, sqlite, memory", c.StoreBackend))
	}
	return errs
}

// ValidateBot additionally checks the Discord settings.
func (c *Config) ValidateBot() error {
	var errs []string
	if err := c.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.DiscordToken == "" {
		errs = append(errs, "DISCORD_TOKEN is missing")
	}
	return joinErrors(errs)
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New("configuration validation failed: " + strings.Join(errs, "; "))
}
