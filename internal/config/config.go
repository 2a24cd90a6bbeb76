// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and TRACKLIST_* env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the persistence backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// DatabasePath is the SQLite file used by the sqlite driver.
	DatabasePath string `koanf:"database_path"`

	// SpotifyClientID and SpotifyClientSecret enable catalog search.
	// Search is disabled when either is empty.
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`

	// SearchLimit caps the albums returned per search (1-50).
	SearchLimit int `koanf:"search_limit"`

	// CatalogTimeoutMS bounds each catalog operation.
	CatalogTimeoutMS int `koanf:"catalog_timeout_ms"`

	// CollationLanguage is the BCP 47 tag used to sort names and artists.
	CollationLanguage string `koanf:"collation_language"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StoreDriver:       DriverSQLite,
		DatabasePath:      "tracklist.db",
		SearchLimit:       10,
		CatalogTimeoutMS:  10_000,
		CollationLanguage: "en",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("%w: database_path is required for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		return fmt.Errorf("%w: search_limit must be between 1 and 50, got %d", ErrInvalidConfig, c.SearchLimit)
	}
	if c.CatalogTimeoutMS <= 0 {
		return fmt.Errorf("%w: catalog_timeout_ms must be positive, got %d", ErrInvalidConfig, c.CatalogTimeoutMS)
	}
	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrPartialCredentials)
	}
	if _, err := language.Parse(c.CollationLanguage); err != nil {
		return fmt.Errorf("%w: collation_language %q: %v", ErrInvalidConfig, c.CollationLanguage, err)
	}
	return nil
}

// CatalogEnabled reports whether catalog credentials are configured.
func (c *Config) CatalogEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// CatalogTimeout returns CatalogTimeoutMS as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutMS) * time.Millisecond
}

// Language returns the collation language, falling back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.CollationLanguage)
	if err != nil {
		return language.English
	}
	return tag
}
