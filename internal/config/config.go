package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	APIBaseURL string `yaml:"api_base_url" json:"api_base_url"` // Platform API base URL
	PageSize   int    `yaml:"page_size" json:"page_size"`       // Posts per page
	Editor     string `yaml:"editor" json:"editor"`             // Editor for composing posts

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".inkwell", "logs", "inkwell.log")
	}

	return &Config{
		APIBaseURL: getEnv("INKWELL_API_URL", "http://localhost:8080/api/v1"),
		PageSize:   6,
		Editor:     getEnv("EDITOR", "vim"),
		LogLevel:   getEnv("INKWELL_LOG_LEVEL", "INFO"),
		LogFile:    getEnv("INKWELL_LOG_FILE", logPath),
		LogConsole: getEnv("INKWELL_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inkwell", "config.yaml"), nil
}

// Load loads config from ~/.inkwell/config.yaml, falling back to
// defaults when the file does not exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}

	return cfg, nil
}

// Save saves config to ~/.inkwell/config.yaml
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
