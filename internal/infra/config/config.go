// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Playback PlaybackConfig `yaml:"playback"`
	Engine   EngineConfig   `yaml:"engine"`
	Store    StoreConfig    `yaml:"store"`
}

// ServerConfig points at the backend serving auth, station search,
// favorites and recommendations.
type ServerConfig struct {
	BaseURL   string `yaml:"base_url" default:"http://localhost:8080" validate:"required,url"`
	TimeoutMs int    `yaml:"timeout_ms" default:"10000" validate:"gte=1000,lte=60000"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	LoadTimeoutMs int     `yaml:"load_timeout_ms" default:"15000" validate:"gte=1000,lte=120000"`
	InitialVolume float64 `yaml:"initial_volume" default:"1.0" validate:"gte=0,lte=1"`
}

// EngineConfig selects and configures the audio engine. Settings are
// engine-specific and decoded by the engine itself.
type EngineConfig struct {
	Type     string         `yaml:"type" default:"mpv" validate:"required,oneof=mpv null"`
	Settings map[string]any `yaml:"settings"`
}

// StoreConfig configures the local state database.
type StoreConfig struct {
	Path string `yaml:"path" default:"wavedial.db" validate:"required"`
}

// Load loads configuration from a YAML file. Environment variables take
// precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("WAVEDIAL_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("WAVEDIAL_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("WAVEDIAL_ENGINE"); v != "" {
		c.Engine.Type = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
