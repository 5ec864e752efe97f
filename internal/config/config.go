package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Config represents the roamweb configuration
type Config struct {
	APIBaseURL     string        `json:"api_base_url"`
	ListenAddr     string        `json:"listen_addr"`
	LogFile        string        `json:"log_file"`
	StylesFile     string        `json:"styles_file,omitempty"`
	RequestTimeout time.Duration `json:"-"` // Custom JSON handling below
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8080",
		ListenAddr:     "127.0.0.1:3000",
		LogFile:        "/tmp/roamweb.log",
		StylesFile:     "",
		RequestTimeout: 10 * time.Second,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "roamweb", "config.json")
	}
	return filepath.Join(home, ".config", "roamweb", "config.json")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Use custom struct for JSON parsing to handle duration as string
	var raw struct {
		APIBaseURL     string `json:"api_base_url"`
		ListenAddr     string `json:"listen_addr"`
		LogFile        string `json:"log_file"`
		StylesFile     string `json:"styles_file"`
		RequestTimeout string `json:"request_timeout"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	timeout := 10 * time.Second
	if raw.RequestTimeout != "" {
		timeout, err = time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request_timeout format '%s': %w", raw.RequestTimeout, err)
		}
	}

	cfg := &Config{
		APIBaseURL:     raw.APIBaseURL,
		ListenAddr:     raw.ListenAddr,
		LogFile:        raw.LogFile,
		StylesFile:     raw.StylesFile,
		RequestTimeout: timeout,
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use custom struct for JSON to handle duration as string
	raw := struct {
		APIBaseURL     string `json:"api_base_url"`
		ListenAddr     string `json:"listen_addr"`
		LogFile        string `json:"log_file"`
		StylesFile     string `json:"styles_file,omitempty"`
		RequestTimeout string `json:"request_timeout"`
	}{
		APIBaseURL:     c.APIBaseURL,
		ListenAddr:     c.ListenAddr,
		LogFile:        c.LogFile,
		StylesFile:     c.StylesFile,
		RequestTimeout: c.RequestTimeout.String(),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url cannot be empty")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got '%s'", c.APIBaseURL)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	if c.StylesFile != "" {
		c.StylesFile, err = expandPath(c.StylesFile)
		if err != nil {
			return fmt.Errorf("failed to expand styles_file: %w", err)
		}
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
