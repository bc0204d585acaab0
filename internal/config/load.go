package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and config dirs.
const FileName = "studio.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

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

// Validate rejects settings the studio cannot start with.
func (c *Config) Validate() error {
	s := c.Surface.Size
	if s <= 0 || s&(s-1) != 0 {
		return fmt.Errorf("surface.size %d: must be a positive power of two", s)
	}
	p := c.Surface.PreviewSize
	if p <= 0 || p&(p-1) != 0 {
		return fmt.Errorf("surface.preview_size %d: must be a positive power of two", p)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("camera: min_distance %.2f exceeds max_distance %.2f",
			c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Transitions.BackgroundStep <= 0 {
		return fmt.Errorf("transitions.background_step must be positive")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
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
		return filepath.Join(home, "Library", "Application Support", "UVStudio")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "UVStudio")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "uvstudio")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "uvstudio")
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
