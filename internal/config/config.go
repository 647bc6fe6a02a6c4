// Package config loads the YAML configuration file and resolves settings
// from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv. Each also may come from a
// .env file in the working directory.
const (
	EnvDataFile = "TODO_FILE"
	EnvConfig   = "TODO_CONFIG"
	EnvLogLevel = "TODO_LOG_LEVEL"
	EnvLogFile  = "TODO_LOG_FILE"
)

// DefaultAddr is where `todo serve` listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:7777"

// Config holds the user configuration.
type Config struct {
	DataFile string      `yaml:"data_file"`
	LogLevel string      `yaml:"log_level"`
	LogFile  string      `yaml:"log_file"` // empty logs to stderr
	Serve    ServeConfig `yaml:"serve"`
	List     ListConfig  `yaml:"list"`
	DataDir  string      `yaml:"-"` // set by caller, not from config file
}

// ServeConfig configures the local dashboard.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// ListConfig configures list rendering.
type ListConfig struct {
	MaxWidth int `yaml:"max_width"` // 0 uses the terminal width
}

// DefaultDir returns ~/.todo.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".todo"), nil
}

// DefaultConfigPath returns the config file location inside dataDir.
func DefaultConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataFile: filepath.Join(dataDir, "todos.json"),
		LogLevel: zerolog.WarnLevel.String(),
		Serve: ServeConfig{
			Addr: DefaultAddr,
		},
		DataDir: dataDir,
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults rooted at dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig(dataDir)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig(c.DataDir)
	if c.DataFile == "" {
		c.DataFile = defaults.DataFile
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
	c.DataFile = expandHome(c.DataFile)
	c.LogFile = expandHome(c.LogFile)
}

// ApplyEnv overrides settings from the environment (or .env). Empty values
// leave the current setting alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataFile); v != "" {
		c.DataFile = expandHome(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFile); v != "" {
		c.LogFile = expandHome(v)
	}
	return c.Validate()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file cannot be empty")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q is not a valid level", c.LogLevel)
	}

	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr cannot be empty")
	}

	if c.List.MaxWidth < 0 {
		return fmt.Errorf("list.max_width must not be negative")
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
