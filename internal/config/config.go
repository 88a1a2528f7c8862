// Package config loads and saves .carbcheck/config.json, the single
// source of truth for app configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all carbcheck settings.
type Config struct {
	// Gemini API key for the assistant. The GEMINI_API_KEY environment
	// variable takes priority over this value.
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	// Optional model override for the assistant.
	Model string `json:"model,omitempty"`

	// Theme for the TUI ("light" or "dark").
	Theme string `json:"theme,omitempty"`

	// DataFile overrides where account and lead data is stored.
	// Defaults to data.json next to the config file.
	DataFile string `json:"data_file,omitempty"`

	// AdminCode unlocks the internal scout and financials screens.
	AdminCode string `json:"admin_code,omitempty"`
}

const defaultAdminCode = "1225"

// Dir returns the per-user config directory, creating nothing.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".carbcheck"
	}
	return filepath.Join(home, ".carbcheck")
}

// DefaultPath returns the default path to config.json.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads the config file. A missing file yields an empty config so
// first runs work without setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetGeminiAPIKey returns the assistant key.
// Priority: GEMINI_API_KEY environment variable, then the config file.
func (c *Config) GetGeminiAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	if c != nil && c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return ""
}

// GetTheme returns the configured theme, defaulting to light.
func (c *Config) GetTheme() string {
	if c.Theme == "" {
		return "light"
	}
	return c.Theme
}

// GetDataFile returns where persistent app data lives.
func (c *Config) GetDataFile() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	return filepath.Join(Dir(), "data.json")
}

// GetAdminCode returns the admin unlock code.
func (c *Config) GetAdminCode() string {
	if c.AdminCode != "" {
		return c.AdminCode
	}
	return defaultAdminCode
}
