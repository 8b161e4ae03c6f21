// Package config loads FilePilot configuration: start path, default search
// strategy, result caps, key bindings, and logging level.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/filepilot/filepilot/internal/search"
)

// Config is the complete user configuration. Unset fields fall back to
// DefaultConfig values.
type Config struct {
	// StartPath is the directory opened at launch.
	StartPath string `yaml:"start_path"`

	// Strategy is the initial search strategy: fast, comprehensive, local.
	Strategy string `yaml:"strategy"`

	// MaxFastResults caps Fast-strategy results in the interactive session.
	MaxFastResults int `yaml:"max_fast_results"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Keys maps actions to keys.
	Keys KeyBindings `yaml:"keys"`
}

// KeyBindings names the keys driving the session. Values are bubbletea key
// strings ("enter", "esc", "tab", single characters).
type KeyBindings struct {
	Quit           string `yaml:"quit"`
	Search         string `yaml:"search"`
	ToggleStrategy string `yaml:"toggle_strategy"`
	Up             string `yaml:"up"`
	Down           string `yaml:"down"`
	Activate       string `yaml:"activate"`
	Back           string `yaml:"back"`
	Parent         string `yaml:"parent"`
	Open           string `yaml:"open"`
	Reveal         string `yaml:"reveal"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		StartPath:      ".",
		Strategy:       "fast",
		MaxFastResults: 100,
		LogLevel:       "info",
		Keys: KeyBindings{
			Quit:           "q",
			Search:         "/",
			ToggleStrategy: "tab",
			Up:             "up",
			Down:           "down",
			Activate:       "enter",
			Back:           "esc",
			Parent:         "left",
			Open:           "o",
			Reveal:         "r",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "filepilot", "config.yaml")
}

// Load reads configuration from path, merging it over the defaults. An empty
// path uses DefaultPath; a missing file is not an error and yields defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyDefaults fills fields a partial YAML file left empty.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.StartPath == "" {
		c.StartPath = def.StartPath
	}
	if c.Strategy == "" {
		c.Strategy = def.Strategy
	}
	if c.MaxFastResults <= 0 {
		c.MaxFastResults = def.MaxFastResults
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.Keys.applyDefaults(def.Keys)
}

func (k *KeyBindings) applyDefaults(def KeyBindings) {
	if k.Quit == "" {
		k.Quit = def.Quit
	}
	if k.Search == "" {
		k.Search = def.Search
	}
	if k.ToggleStrategy == "" {
		k.ToggleStrategy = def.ToggleStrategy
	}
	if k.Up == "" {
		k.Up = def.Up
	}
	if k.Down == "" {
		k.Down = def.Down
	}
	if k.Activate == "" {
		k.Activate = def.Activate
	}
	if k.Back == "" {
		k.Back = def.Back
	}
	if k.Parent == "" {
		k.Parent = def.Parent
	}
	if k.Open == "" {
		k.Open = def.Open
	}
	if k.Reveal == "" {
		k.Reveal = def.Reveal
	}
}

// Validate rejects values that would misbehave at runtime.
func (c *Config) Validate() error {
	if _, err := search.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.MaxFastResults < 1 || c.MaxFastResults > 10000 {
		return fmt.Errorf("invalid config: max_fast_results must be between 1 and 10000, got %d", c.MaxFastResults)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// InitialStrategy returns the parsed Strategy field.
func (c *Config) InitialStrategy() search.Strategy {
	st, err := search.ParseStrategy(c.Strategy)
	if err != nil {
		return search.Fast
	}
	return st
}
