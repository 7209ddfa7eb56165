// Package config provides configuration management for the CMR granule link service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// MaxCMRPageSize is the largest page size CMR accepts for granule searches.
const MaxCMRPageSize = 2000

// Config holds the complete application configuration loaded from environment variables.
type Config struct {
	Server      ServerConfig      `envPrefix:"SERVER_"`
	CMR         CMRConfig         `envPrefix:"CMR_"`
	STAC        STACConfig        `envPrefix:"STAC_"`
	Collections CollectionsConfig `envPrefix:"COLLECTIONS_"`
	Logging     LoggingConfig     `envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// CMRConfig contains CMR search client configuration.
type CMRConfig struct {
	BaseURL  string `env:"BASE_URL" envDefault:"https://cmr.uat.earthdata.nasa.gov"`
	PageSize int    `env:"PAGE_SIZE" envDefault:"2000"`
	// Timeout of 0 leaves requests bounded only by the caller's context.
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"0s"`
	EncodeValues bool          `env:"ENCODE_VALUES" envDefault:"false"`
}

// STACConfig contains metadata for STAC responses.
type STACConfig struct {
	Version string `env:"VERSION" envDefault:"1.0.0"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"` // Public-facing URL
}

// CollectionsConfig locates collection alias definitions.
type CollectionsConfig struct {
	Dir string `env:"DIR" envDefault:""` // empty: no aliases
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load parses configuration from environment variables.
// It returns an error if any value is invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		RequiredIfNoDef: true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if c.CMR.BaseURL == "" {
		return fmt.Errorf("CMR base URL is required")
	}

	if c.CMR.PageSize < 1 || c.CMR.PageSize > MaxCMRPageSize {
		return fmt.Errorf("CMR page size must be between 1 and %d, got %d", MaxCMRPageSize, c.CMR.PageSize)
	}

	if c.CMR.Timeout < 0 {
		return fmt.Errorf("CMR timeout must not be negative, got %s", c.CMR.Timeout)
	}

	if c.STAC.Version == "" {
		return fmt.Errorf("STAC version is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
