// Package config loads gmprompt settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"gmprompt/internal/observability"
)

// Config is the process-wide configuration. cobra flags override individual
// fields after parsing.
type Config struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	Model        string `env:"GMPROMPT_MODEL" envDefault:"gpt-5-2025-08-07"`
	MaxTokens    int    `env:"GMPROMPT_MAX_TOKENS" envDefault:"1200"`
	// ReasoningEffort is passed to reasoning models; empty leaves the
	// model default.
	ReasoningEffort string `env:"GMPROMPT_REASONING_EFFORT"`
	Debug           bool   `env:"DEBUG"`
	DebugLogPath    string `env:"GMPROMPT_DEBUG_LOG" envDefault:"debug.log"`

	CatalogSource string `env:"GMPROMPT_CATALOG" envDefault:"builtin"`
	HistoryPath   string `env:"GMPROMPT_HISTORY_DB" envDefault:"./prompts.db"`
	Clipboard     string `env:"GMPROMPT_CLIPBOARD" envDefault:"auto"`

	NotificationDuration time.Duration `env:"GMPROMPT_NOTIFY_DURATION" envDefault:"3s"`

	Tracing observability.Config
}

// ParseEnv loads configuration from environment variables. A nil environ
// reads the process environment.
func ParseEnv(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the current environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses a Config from the given variables instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg, environ); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Clipboard {
	case "auto", "system", "osc52":
	default:
		return fmt.Errorf("invalid GMPROMPT_CLIPBOARD %q: want auto, system or osc52", c.Clipboard)
	}
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("GMPROMPT_NOTIFY_DURATION must be positive, got %s", c.NotificationDuration)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("GMPROMPT_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	switch c.ReasoningEffort {
	case "", "minimal", "low", "medium", "high":
	default:
		return fmt.Errorf("invalid GMPROMPT_REASONING_EFFORT %q: want minimal, low, medium or high", c.ReasoningEffort)
	}
	return nil
}

// ModelAvailable reports whether prompts can be sent to a model.
func (c Config) ModelAvailable() bool {
	return c.OpenAIAPIKey != ""
}
