// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Data Sources:
//     - INPE: Programa Queimadas open data (10-minute CSV drops + country API)
//     - FIRMS: NASA Fire Information for Resource Management System (area CSV API)
//
//  2. Infrastructure:
//     - Collector: Background refresh of the fire detection snapshot
//     - Cache: Response cache for relay endpoints
//     - Server: HTTP server configuration (port, host, timeout)
//
//  3. API & Security:
//     - Security: Rate limiting and CORS
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	INPE      INPEConfig      `koanf:"inpe"`
	FIRMS     FIRMSConfig     `koanf:"firms"`
	Collector CollectorConfig `koanf:"collector"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 4326)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// INPEConfig holds settings for the INPE Programa Queimadas data source.
//
// The 10-minute CSV endpoint is a plain directory listing; ArtifactPattern
// identifies the downloadable files and captures their sortable timestamp
// token (e.g. focos_10min_20251006_1210.csv).
//
// Environment Variables:
//   - INPE_LISTING_URL: Directory listing URL for 10-minute CSV drops
//   - INPE_ARTIFACT_PATTERN: Regexp matching artifact filenames, with one
//     capture group for the timestamp token
//   - INPE_DELIMITER: Field delimiter in CSV payloads (default: ";")
//   - INPE_API_URL: Base URL for the per-country JSON API
//   - INPE_TIMEOUT: HTTP client timeout for INPE requests
type INPEConfig struct {
	ListingURL      string        `koanf:"listing_url"`
	ArtifactPattern string        `koanf:"artifact_pattern"`
	Delimiter       string        `koanf:"delimiter"`
	APIURL          string        `koanf:"api_url"`
	Timeout         time.Duration `koanf:"timeout"`
}

// FIRMSConfig holds settings for the NASA FIRMS area API.
//
// Environment Variables:
//   - FIRMS_BASE_URL: FIRMS API base URL
//   - NASA_API_KEY: FIRMS MAP_KEY (required when the collector is enabled)
//   - FIRMS_SOURCES: Comma-separated satellite sources to query
//   - FIRMS_DAYS: Lookback window in days (1-10)
//   - FIRMS_AREA_*: Bounding box for area queries (default: Amazon basin)
//   - FIRMS_RATE_LIMIT: Max requests per minute against FIRMS
type FIRMSConfig struct {
	BaseURL   string        `koanf:"base_url"`
	MapKey    string        `koanf:"map_key"`
	Sources   []string      `koanf:"sources"`
	Days      int           `koanf:"days"`
	AreaWest  float64       `koanf:"area_west"`
	AreaSouth float64       `koanf:"area_south"`
	AreaEast  float64       `koanf:"area_east"`
	AreaNorth float64       `koanf:"area_north"`
	RateLimit int           `koanf:"rate_limit"`
	Timeout   time.Duration `koanf:"timeout"`
}

// CollectorConfig holds background snapshot refresh settings.
//
// Environment Variables:
//   - COLLECTOR_ENABLED: Enable the background collector (default: true)
//   - COLLECTOR_INTERVAL: Refresh interval (default: 10m)
//   - COLLECTOR_AMAZON_ONLY: Keep only detections inside the Legal Amazon
type CollectorConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Interval   time.Duration `koanf:"interval"`
	AmazonOnly bool          `koanf:"amazon_only"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds rate limiting and CORS settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS: Requests per window (default: 100)
//   - RATE_LIMIT_WINDOW: Window duration (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable rate limiting entirely
//   - CORS_ORIGINS: Comma-separated allowed origins (default: "*")
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration with layered sources (defaults, file, environment).
func Load() (*Config, error) {
	return LoadWithKoanf()
}
