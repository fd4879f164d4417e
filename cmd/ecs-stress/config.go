package main

import (
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the stress run settings. Environment variables provide the
// defaults and command-line flags override them.
type Config struct {
	Duration      string  `config:"ECS_STRESS_DURATION"`
	Entities      int     `config:"ECS_STRESS_ENTITIES"`
	Capacity      int     `config:"ECS_STRESS_CAPACITY"`
	Components    int     `config:"ECS_STRESS_COMPONENTS"`
	Tags          int     `config:"ECS_STRESS_TAGS"`
	Churn         float64 `config:"ECS_STRESS_CHURN"`
	FixedCapacity bool    `config:"ECS_STRESS_FIXED_CAPACITY"`
	Profile       string  `config:"ECS_STRESS_PROFILE"`
	LogLevel      string  `config:"ECS_STRESS_LOG_LEVEL"`
	Seed          int64   `config:"ECS_STRESS_SEED"`
}

func defaultConfig() Config {
	return Config{
		Duration:   "10s",
		Entities:   10000,
		Capacity:   1024,
		Components: 64,
		Tags:       32,
		Churn:      0.01,
		LogLevel:   "info",
		Seed:       1,
	}
}

// LoadConfig returns the defaults overlaid with any ECS_STRESS_* variables.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from environment")
	}
	return cfg, nil
}

// Validate checks the settings and returns the parsed run duration.
func (c Config) Validate() (time.Duration, error) {
	duration, err := time.ParseDuration(c.Duration)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid duration %q", c.Duration)
	}
	if duration <= 0 {
		return 0, eris.Errorf("duration must be positive, got %s", duration)
	}
	if c.Entities < 0 || c.Capacity < 0 {
		return 0, eris.New("entities and capacity must not be negative")
	}
	if c.Components < 1 || c.Tags < 0 {
		return 0, eris.Errorf("need at least one component type and no negative tag count, got %d/%d", c.Components, c.Tags)
	}
	if c.Churn < 0 || c.Churn > 1 {
		return 0, eris.Errorf("churn must be within [0, 1], got %v", c.Churn)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return 0, eris.Errorf("unknown profile mode %q", c.Profile)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return 0, eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return duration, nil
}
