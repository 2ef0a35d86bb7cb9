// Package config provides configuration loading and structs for kembar.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kembar/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                   `yaml:"debug"`
	Server    ServerConfig           `yaml:"server"`
	Storage   StorageConfig          `yaml:"storage"`
	Validator models.ValidatorConfig `yaml:"validator"`
	Content   ContentConfig          `yaml:"content"`
}

// ContentConfig holds content discovery and run settings.
type ContentConfig struct {
	Directories      []string `yaml:"directories"`
	Extensions       []string `yaml:"extensions"`
	Recursive        *bool    `yaml:"recursive"`
	Parallel         bool     `yaml:"parallel"`
	ClearCachePerRun *bool    `yaml:"clear_cache_per_run"`
}

// RecursiveOrDefault returns whether to descend into subdirectories; defaults to true when unset.
func (c *ContentConfig) RecursiveOrDefault() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return true
}

// ClearCachePerRunOrDefault returns whether each run starts from an empty corpus cache;
// defaults to true when unset.
func (c *ContentConfig) ClearCachePerRunOrDefault() bool {
	if c.ClearCachePerRun != nil {
		return *c.ClearCachePerRun
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the report database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or the validator section is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validator.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validator config: %w", err)
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Content.Directories {
		cfg.Content.Directories[i] = expandPath(cfg.Content.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
