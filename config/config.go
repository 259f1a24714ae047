package config

import (
	"log/slog"

	"github.com/BurntSushi/toml"

	"leverfarm/native/lending"
	"leverfarm/native/leverage"
	"leverfarm/observability/logging"
)

// Logging configures the process logger.
type Logging struct {
	Component   string `toml:"Component"`
	Environment string `toml:"Environment"`
	Level       string `toml:"Level"`
}

// Config aggregates the per-module protocol configuration.
type Config struct {
	Lending  lending.Config  `toml:"lending"`
	Leverage leverage.Config `toml:"leverage"`
	Logging  Logging         `toml:"logging"`
}

// Load reads a TOML config file and fills in protocol defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.EnsureDefaults()
	return &cfg, nil
}

func (c *Config) EnsureDefaults() {
	c.Lending.EnsureDefaults()
	c.Leverage.EnsureDefaults()
	if c.Logging.Component == "" {
		c.Logging.Component = "leverfarm"
	}
}

// SetupLogging applies the logging section and returns the process logger.
func (c *Config) SetupLogging() *slog.Logger {
	return logging.Setup(c.Logging.Component, c.Logging.Environment, logging.ParseLevel(c.Logging.Level))
}
