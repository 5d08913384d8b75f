// Package config loads the core's environment-driven configuration
// surface (spec.md §6), adapted from the teacher's LoadConfig: caarlos0/
// env parses a tagged struct, godotenv optionally preloads a .env file,
// and Validate rejects out-of-range values before anything starts.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every tunable the core reads from the environment.
type Config struct {
	// Session/stream lifecycle (spec.md §6)
	MaxConcurrentStreams int           `env:"PJS_MAX_CONCURRENT_STREAMS" envDefault:"8"`
	SessionTimeout       time.Duration `env:"PJS_SESSION_TIMEOUT" envDefault:"1800s"`
	AckTimeout           time.Duration `env:"PJS_ACK_TIMEOUT" envDefault:"30s"`
	DefaultCredits       uint64        `env:"PJS_DEFAULT_CREDITS" envDefault:"1000"`
	PriorityThreshold    uint8         `env:"PJS_PRIORITY_THRESHOLD" envDefault:"10"`
	MaxFrames            int           `env:"PJS_MAX_FRAMES" envDefault:"0"`

	// Resource monitor (domain stack addition)
	CPUSlowDownThreshold float64       `env:"PJS_CPU_SLOWDOWN_THRESHOLD" envDefault:"80.0"`
	CPUPauseThreshold    float64       `env:"PJS_CPU_PAUSE_THRESHOLD" envDefault:"95.0"`
	ResourceSampleEvery  time.Duration `env:"PJS_RESOURCE_SAMPLE_INTERVAL" envDefault:"15s"`

	// JWT session authentication (domain stack addition)
	JWTSecret       string        `env:"PJS_JWT_SECRET" envDefault:""`
	JWTTokenTTL     time.Duration `env:"PJS_JWT_TOKEN_TTL" envDefault:"1h"`

	// Logging (ambient stack)
	LogLevel  string `env:"PJS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PJS_LOG_FORMAT" envDefault:"json"`
}

// Load reads a .env file if present (never failing if it is absent),
// then parses environment variables into a Config, validating the
// result. Priority: real environment variables > .env file > defaults.
func Load(logger *zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if logger != nil {
			logger.Info().Msg("no .env file found, using environment variables only")
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configuration values the rest of the core cannot
// safely operate under.
func (c *Config) Validate() error {
	if c.MaxConcurrentStreams < 1 {
		return fmt.Errorf("PJS_MAX_CONCURRENT_STREAMS must be > 0, got %d", c.MaxConcurrentStreams)
	}
	if c.DefaultCredits == 0 {
		return fmt.Errorf("PJS_DEFAULT_CREDITS must be > 0, got %d", c.DefaultCredits)
	}
	if c.PriorityThreshold == 0 {
		return fmt.Errorf("PJS_PRIORITY_THRESHOLD must be > 0, got %d", c.PriorityThreshold)
	}
	if c.CPUSlowDownThreshold < 0 || c.CPUSlowDownThreshold > 100 {
		return fmt.Errorf("PJS_CPU_SLOWDOWN_THRESHOLD must be 0-100, got %.1f", c.CPUSlowDownThreshold)
	}
	if c.CPUPauseThreshold < 0 || c.CPUPauseThreshold > 100 {
		return fmt.Errorf("PJS_CPU_PAUSE_THRESHOLD must be 0-100, got %.1f", c.CPUPauseThreshold)
	}
	if c.CPUPauseThreshold < c.CPUSlowDownThreshold {
		return fmt.Errorf("PJS_CPU_PAUSE_THRESHOLD (%.1f) must be >= PJS_CPU_SLOWDOWN_THRESHOLD (%.1f)", c.CPUPauseThreshold, c.CPUSlowDownThreshold)
	}
	return nil
}
