// Package config handles configuration and credential storage paths for lumina.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the user configuration. Values come from defaults,
// then ~/.lumina/config.json, then LUMINA_* environment variables.
type Config struct {
	// BaseURL is the root of the Lumina service API.
	BaseURL string `json:"base_url" env:"LUMINA_BASE_URL"`
	// RequestTimeoutSecs bounds every API call, in seconds.
	RequestTimeoutSecs int `json:"request_timeout_secs" env:"LUMINA_REQUEST_TIMEOUT_SECS"`
	// Verbose enables debug-level logging to the log file.
	Verbose bool `json:"verbose" env:"LUMINA_VERBOSE"`
	// CopyToClipboard copies assistant replies to the clipboard after 'ask'.
	CopyToClipboard bool `json:"copy_to_clipboard" env:"LUMINA_COPY_TO_CLIPBOARD"`
	// Theme selects the markdown rendering style.
	Theme string `json:"theme,omitempty" env:"LUMINA_THEME"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:            "http://localhost:8000",
		RequestTimeoutSecs: 60,
		Verbose:            false,
		CopyToClipboard:    false,
		Theme:              "dark",
	}
}

// RequestTimeout returns the configured request timeout as a duration
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".lumina"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the bearer token
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetTokenPath returns the path to the stored credential file
func GetTokenPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "token.json"), nil
}

// GetLogPath returns the path to the client log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs", "lumina.log"), nil
}

// LoadEnvFile loads variables from a .env file when one exists. A missing
// file is not an error; explicit paths that fail to load are.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads the configuration from disk and applies LUMINA_*
// environment overrides on top
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg)
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
