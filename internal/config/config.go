package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat dispatch configuration
type Config struct {
	Version      string `json:"version"`
	DatabasePath string `json:"database_path,omitempty"` // overrides ~/.dispatch/dispatch.db
}

// LoadConfig reads .dispatch/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".dispatch", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	dispatchDir := filepath.Join(dir, ".dispatch")
	if err := os.MkdirAll(dispatchDir, 0755); err != nil {
		return fmt.Errorf("failed to create .dispatch dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dispatchDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DatabasePath resolves the database location. Order: DISPATCH_DB
// environment variable, database_path from ~/.dispatch/config.json,
// then the default ~/.dispatch/dispatch.db.
func DatabasePath() (string, error) {
	if path := os.Getenv("DISPATCH_DB"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if cfg, err := LoadConfig(home); err == nil && cfg.DatabasePath != "" {
		return cfg.DatabasePath, nil
	}

	return filepath.Join(home, ".dispatch", "dispatch.db"), nil
}
