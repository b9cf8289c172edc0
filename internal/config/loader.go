package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// MinLimit and MaxLimit bound the row limit for data fetches.
	MinLimit = 1
	MaxLimit = 500
)

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: the dashboard runs fine on defaults plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in zero-valued settings
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10
	}
	if cfg.Dashboard.RefreshInterval == 0 {
		cfg.Dashboard.RefreshInterval = 10
	}
	if cfg.Dashboard.DefaultLimit == 0 {
		cfg.Dashboard.DefaultLimit = 50
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8088
	}
	if cfg.Server.Timeouts.Read == 0 {
		cfg.Server.Timeouts.Read = 15
	}
	if cfg.Server.Timeouts.Write == 0 {
		cfg.Server.Timeouts.Write = 30
	}
	if cfg.Server.Timeouts.Idle == 0 {
		cfg.Server.Timeouts.Idle = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides lets deployment environments override file settings
// without editing the config file
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENSORDASH_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SENSORDASH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SENSORDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.Timeout < 1 {
		return fmt.Errorf("api.timeout must be at least 1 second, got %d", cfg.API.Timeout)
	}
	if cfg.Dashboard.RefreshInterval < 1 {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1 second, got %d", cfg.Dashboard.RefreshInterval)
	}
	if cfg.Dashboard.DefaultLimit < MinLimit || cfg.Dashboard.DefaultLimit > MaxLimit {
		return fmt.Errorf("dashboard.default_limit must be in [%d,%d], got %d", MinLimit, MaxLimit, cfg.Dashboard.DefaultLimit)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", cfg.Server.Port)
	}
	return nil
}
