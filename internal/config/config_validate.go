// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package config

import (
	"fmt"
	"regexp"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateINPE(); err != nil {
		return err
	}

	if err := c.validateFIRMS(); err != nil {
		return err
	}

	if err := c.validateCollector(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

// validateINPE validates INPE data source configuration
func (c *Config) validateINPE() error {
	if c.INPE.ListingURL == "" {
		return fmt.Errorf("INPE_LISTING_URL is required")
	}
	if err := validateHTTPURLWithPath(c.INPE.ListingURL, "INPE_LISTING_URL"); err != nil {
		return err
	}

	if c.INPE.ArtifactPattern == "" {
		return fmt.Errorf("INPE_ARTIFACT_PATTERN is required")
	}
	re, err := regexp.Compile(c.INPE.ArtifactPattern)
	if err != nil {
		return fmt.Errorf("INPE_ARTIFACT_PATTERN is not a valid regexp: %w", err)
	}
	if re.NumSubexp() != 1 {
		return fmt.Errorf("INPE_ARTIFACT_PATTERN must have exactly one capture group for the timestamp token, got %d", re.NumSubexp())
	}

	if c.INPE.Delimiter == "" {
		return fmt.Errorf("INPE_DELIMITER must not be empty")
	}

	if c.INPE.APIURL == "" {
		return fmt.Errorf("INPE_API_URL is required")
	}
	return validateHTTPURLWithPath(c.INPE.APIURL, "INPE_API_URL")
}

// validateFIRMS validates NASA FIRMS configuration.
// The MAP_KEY is only required when the collector is enabled, since the
// relay endpoints work without FIRMS.
func (c *Config) validateFIRMS() error {
	if err := validateHTTPURL(c.FIRMS.BaseURL, "FIRMS_BASE_URL"); err != nil {
		return err
	}

	if c.Collector.Enabled && c.FIRMS.MapKey == "" {
		return fmt.Errorf("NASA_API_KEY is required when COLLECTOR_ENABLED=true")
	}

	if len(c.FIRMS.Sources) == 0 {
		return fmt.Errorf("FIRMS_SOURCES must list at least one satellite source")
	}

	if c.FIRMS.Days < 1 || c.FIRMS.Days > 10 {
		return fmt.Errorf("FIRMS_DAYS must be between 1 and 10, got %d", c.FIRMS.Days)
	}

	return c.validateFIRMSArea()
}

// validateFIRMSArea validates the area bounding box
func (c *Config) validateFIRMSArea() error {
	if c.FIRMS.AreaWest < -180 || c.FIRMS.AreaWest > 180 ||
		c.FIRMS.AreaEast < -180 || c.FIRMS.AreaEast > 180 {
		return fmt.Errorf("FIRMS area longitudes must be between -180 and 180")
	}
	if c.FIRMS.AreaSouth < -90 || c.FIRMS.AreaSouth > 90 ||
		c.FIRMS.AreaNorth < -90 || c.FIRMS.AreaNorth > 90 {
		return fmt.Errorf("FIRMS area latitudes must be between -90 and 90")
	}
	if c.FIRMS.AreaWest >= c.FIRMS.AreaEast {
		return fmt.Errorf("FIRMS_AREA_WEST must be less than FIRMS_AREA_EAST")
	}
	if c.FIRMS.AreaSouth >= c.FIRMS.AreaNorth {
		return fmt.Errorf("FIRMS_AREA_SOUTH must be less than FIRMS_AREA_NORTH")
	}
	return nil
}

// validateCollector validates collector configuration
func (c *Config) validateCollector() error {
	if !c.Collector.Enabled {
		return nil
	}
	if c.Collector.Interval < time.Minute {
		return fmt.Errorf("COLLECTOR_INTERVAL must be at least 1m, got %s", c.Collector.Interval)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal; got %q", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
