package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads a config file on top of the defaults, without flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the runtime cannot work with.
func (c *Config) Validate() error {
	if c.Tracker.InterpolationSamples < 1 {
		return fmt.Errorf("tracker.interpolation_samples must be >= 1, got %d", c.Tracker.InterpolationSamples)
	}
	if c.Tracker.PathLength < 2 {
		return fmt.Errorf("tracker.path_length must be >= 2, got %d", c.Tracker.PathLength)
	}
	if c.Heaper.AllcloseAtol <= 0 {
		return fmt.Errorf("heaper.allclose_atol must be positive, got %g", c.Heaper.AllcloseAtol)
	}
	if c.Heaper.FPS <= 0 {
		return fmt.Errorf("heaper.fps must be positive, got %d", c.Heaper.FPS)
	}
	if c.Heaper.MaxAlive < 1 || c.Heaper.FramesAlive < 1 {
		return fmt.Errorf("heaper.max_alive and heaper.frames_alive must be >= 1, got %d and %d", c.Heaper.MaxAlive, c.Heaper.FramesAlive)
	}
	if c.Heaper.DropHeight < 0 {
		return fmt.Errorf("heaper.drop_height must not be negative, got %g", c.Heaper.DropHeight)
	}
	if c.Viewport.ClipStart <= 0 || c.Viewport.ClipEnd <= c.Viewport.ClipStart {
		return fmt.Errorf("viewport clip range invalid: %g..%g", c.Viewport.ClipStart, c.Viewport.ClipEnd)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./scatterbrush.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ScatterBrush")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ScatterBrush")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "scatterbrush")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "scatterbrush")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
