// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/focomapa/config.yaml",
	"/etc/focomapa/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        4326,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		INPE: INPEConfig{
			ListingURL:      "https://dataserver-coids.inpe.br/queimadas/queimadas/focos/csv/10min/",
			ArtifactPattern: `focos_10min_(\d{8}_\d{4})\.csv`,
			Delimiter:       ";",
			APIURL:          "https://queimadas.dgi.inpe.br/api/focos",
			Timeout:         30 * time.Second,
		},
		FIRMS: FIRMSConfig{
			BaseURL: "https://firms.modaps.eosdis.nasa.gov",
			MapKey:  "",
			Sources: []string{
				"MODIS_NRT",
				"VIIRS_SNPP_NRT",
				"VIIRS_NOAA20_NRT",
				"VIIRS_NOAA21_NRT",
			},
			Days: 5,
			// Amazon basin bounding box
			AreaWest:  -75.0,
			AreaSouth: -15.0,
			AreaEast:  -45.0,
			AreaNorth: 5.0,
			RateLimit: 30,
			Timeout:   60 * time.Second,
		},
		Collector: CollectorConfig{
			Enabled:    true,
			Interval:   10 * time.Minute,
			AmazonOnly: false,
		},
		Cache: CacheConfig{
			TTL:             60 * time.Second,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// HTTP_PORT -> server.port
	// NASA_API_KEY -> firms.map_key
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"firms.sources",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - INPE_LISTING_URL -> inpe.listing_url
//   - NASA_API_KEY -> firms.map_key
//   - COLLECTOR_INTERVAL -> collector.interval
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// INPE mappings
		"inpe_listing_url":      "inpe.listing_url",
		"inpe_artifact_pattern": "inpe.artifact_pattern",
		"inpe_delimiter":        "inpe.delimiter",
		"inpe_api_url":          "inpe.api_url",
		"inpe_timeout":          "inpe.timeout",

		// FIRMS mappings
		"firms_base_url":   "firms.base_url",
		"nasa_api_key":     "firms.map_key",
		"firms_map_key":    "firms.map_key",
		"firms_sources":    "firms.sources",
		"firms_days":       "firms.days",
		"firms_area_west":  "firms.area_west",
		"firms_area_south": "firms.area_south",
		"firms_area_east":  "firms.area_east",
		"firms_area_north": "firms.area_north",
		"firms_rate_limit": "firms.rate_limit",
		"firms_timeout":    "firms.timeout",

		// Collector mappings
		"collector_enabled":     "collector.enabled",
		"collector_interval":    "collector.interval",
		"collector_amazon_only": "collector.amazon_only",

		// Cache mappings
		"cache_ttl":              "cache.ttl",
		"cache_cleanup_interval": "cache.cleanup_interval",

		// Security mappings
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
