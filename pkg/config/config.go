// Package config loads tintwrap's own settings, as opposed to the
// per-program rule files, which pkg/rules handles.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tintwrap/tintwrap/pkg/terminal"
)

// Config holds all configuration for tintwrap.
type Config struct {
	// WrappersDir is the directory holding one rule file per wrapped
	// program, named after the program.
	WrappersDir string `yaml:"wrappers_dir" env:"TINTWRAP_WRAPPERS"`

	// Color selects the color mode: auto, always or never.
	Color string `yaml:"color" env:"TINTWRAP_COLOR"`

	// PTY runs the wrapped program under a pseudo-terminal. Useful for
	// programs that block-buffer their output when writing to a pipe.
	PTY bool `yaml:"pty" env:"TINTWRAP_PTY"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug" env:"TINTWRAP_DEBUG"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WrappersDir: defaultWrappersDir(),
		Color:       terminal.ModeAuto.String(),
	}
}

// Load loads configuration from file and environment. A missing config
// file is fine; defaults apply.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := configPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ColorMode returns the parsed color mode. Load has already validated it.
func (c *Config) ColorMode() terminal.Mode {
	mode, _ := terminal.ParseMode(c.Color)
	return mode
}

// configPath returns the config file path.
func configPath() string {
	if path := os.Getenv("TINTWRAP_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tintwrap", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "tintwrap", "config.yaml")
	}

	return ""
}

// defaultWrappersDir returns where rule files live unless configured
// otherwise.
func defaultWrappersDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tintwrap", "wrappers")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "tintwrap", "wrappers")
	}

	return "wrappers"
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) error {
	if dir := os.Getenv("TINTWRAP_WRAPPERS"); dir != "" {
		cfg.WrappersDir = dir
	}

	if color := os.Getenv("TINTWRAP_COLOR"); color != "" {
		cfg.Color = color
	}

	if pty := os.Getenv("TINTWRAP_PTY"); pty != "" {
		v, err := parseBool(pty)
		if err != nil {
			return fmt.Errorf("invalid TINTWRAP_PTY value: %q (use true/false)", pty)
		}
		cfg.PTY = v
	}

	if debug := os.Getenv("TINTWRAP_DEBUG"); debug != "" {
		v, err := parseBool(debug)
		if err != nil {
			return fmt.Errorf("invalid TINTWRAP_DEBUG value: %q (use true/false)", debug)
		}
		cfg.Debug = v
	}

	return nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.WrappersDir == "" {
		return fmt.Errorf("wrappers_dir must not be empty")
	}

	if _, err := terminal.ParseMode(cfg.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}

	return nil
}
