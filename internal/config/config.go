// Package config loads the service configuration from YAML, applies
// environment overrides and defaults, and validates the result.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"

	"buildbridge/internal/params"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Jenkins  JenkinsConfig  `yaml:"jenkins"`
	API      APIConfig      `yaml:"api"`
}

// ServerConfig represents the HTTP server configuration.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	MaxBodySize int64  `yaml:"max_body_size"` // Maximum request body size in bytes (default: 1MB)
}

// DatabaseConfig represents the audit database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// JenkinsConfig represents the default Jenkins node connection. Per-call
// request fields (job id, template job) are layered on top of these values.
type JenkinsConfig struct {
	URL             string `yaml:"url"`
	Username        string `yaml:"username"` // Defaults to token if not provided
	Token           string `yaml:"token"`
	Timeout         int    `yaml:"timeout"`           // Request timeout in seconds (default: 30)
	UpdateCenterURL string `yaml:"update_center_url"` // Source of the latest released Jenkins version
}

// APIConfig represents the API configuration.
type APIConfig struct {
	Keys []string `yaml:"keys"`
}

// DefaultUpdateCenterURL is where the latest released Jenkins core version is
// published.
const DefaultUpdateCenterURL = "https://updates.jenkins.io/current/update-center.actual.json"

// Load loads the configuration from the given file path.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // Trusted file path input
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvVars(config)
	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvVars applies environment variables to the configuration.
func applyEnvVars(config *Config) {
	if port := os.Getenv("BUILDBRIDGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BUILDBRIDGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("BUILDBRIDGE_DATABASE_PATH"); path != "" {
		config.Database.Path = path
	}

	if u := os.Getenv("BUILDBRIDGE_JENKINS_URL"); u != "" {
		config.Jenkins.URL = u
	}
	if username := os.Getenv("BUILDBRIDGE_JENKINS_USERNAME"); username != "" {
		config.Jenkins.Username = username
	}
	if token := os.Getenv("BUILDBRIDGE_JENKINS_TOKEN"); token != "" {
		config.Jenkins.Token = token
	}
	if timeout := os.Getenv("BUILDBRIDGE_JENKINS_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			config.Jenkins.Timeout = t
		}
	}
}

// setDefaults sets default values for the configuration.
func setDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.MaxBodySize == 0 {
		config.Server.MaxBodySize = 1 << 20 // 1MB default
	}

	if config.Database.Path == "" {
		config.Database.Path = "./buildbridge.db"
	}

	if config.Jenkins.Timeout == 0 {
		config.Jenkins.Timeout = 30
	}
	if config.Jenkins.Username == "" {
		// Jenkins API token authentication: token doubles as username.
		config.Jenkins.Username = config.Jenkins.Token
	}
	if config.Jenkins.UpdateCenterURL == "" {
		config.Jenkins.UpdateCenterURL = DefaultUpdateCenterURL
	}
}

// GetLogLevel returns the log level from the environment.
func GetLogLevel() string {
	levelStr := os.Getenv("BUILDBRIDGE_LOG_LEVEL")
	switch levelStr {
	case "debug", "info", "warn", "error":
		return levelStr
	}
	return "info"
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be between 1 and 65535)", cfg.Server.Port)
	}

	if cfg.Server.MaxBodySize < 0 {
		return fmt.Errorf("invalid server.max_body_size: %d (must be non-negative)", cfg.Server.MaxBodySize)
	}
	if cfg.Server.MaxBodySize > 100<<20 { // 100MB max
		return fmt.Errorf("invalid server.max_body_size: %d (must be less than 100MB)", cfg.Server.MaxBodySize)
	}

	if cfg.Jenkins.URL == "" {
		return fmt.Errorf("jenkins.url is required")
	}
	if u, err := url.Parse(cfg.Jenkins.URL); err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid jenkins.url: %q", cfg.Jenkins.URL)
	}
	if cfg.Jenkins.Token == "" {
		return fmt.Errorf("jenkins.token is required")
	}

	if len(cfg.API.Keys) == 0 {
		return fmt.Errorf("at least one api.key is required")
	}
	for i, key := range cfg.API.Keys {
		if key == "" {
			return fmt.Errorf("api.keys[%d] cannot be empty", i)
		}
	}

	return nil
}

// Parameters returns the connection parameter map for the configured node, in
// the key layout expected by the parameter storage contract.
func (c JenkinsConfig) Parameters() params.Map {
	return params.Map{
		params.KeyURL:   c.URL,
		params.KeyUser:  c.Username,
		params.KeyToken: c.Token,
	}
}
