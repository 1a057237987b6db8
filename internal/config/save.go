package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by WriteDefault when the target file is present.
var ErrExists = errors.New("config file already exists")

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath is where Save writes and where Load looks second.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// WriteDefault writes the default config to path, or to DefaultPath when
// path is empty, and returns the path written. An existing file is left
// alone.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, err
	}
	return path, Default().SaveTo(path)
}
