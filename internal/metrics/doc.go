// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package metrics provides Prometheus instrumentation for Focomapa.
// All collectors are registered on the default registry via promauto and
// exposed through the /metrics endpoint.
package metrics
