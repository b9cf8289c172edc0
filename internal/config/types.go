package config

import "time"

// Config represents the complete sensordash configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig describes the upstream ingest API the dashboard reads from
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // seconds
}

// TimeoutDuration returns the request timeout as a time.Duration
func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// DashboardConfig contains controller behavior settings
type DashboardConfig struct {
	RefreshInterval int `yaml:"refresh_interval"` // seconds
	DefaultLimit    int `yaml:"default_limit"`
}

// RefreshDuration returns the background refresh interval as a time.Duration
func (d DashboardConfig) RefreshDuration() time.Duration {
	return time.Duration(d.RefreshInterval) * time.Second
}

// ServerConfig contains the HTTP server settings for the web UI and JSON API
type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig    `yaml:"cors"`
}

// TimeoutConfig contains HTTP server timeout settings, in seconds
type TimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings for the JSON API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}
