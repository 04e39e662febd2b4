// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: built-in defaults, an optional YAML
// config file, and environment variables (highest priority).
package config
