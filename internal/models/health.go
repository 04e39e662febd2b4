// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package models

import "time"

// HealthStatus is the response for the health endpoints.
type HealthStatus struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Uptime     string    `json:"uptime"`
	Timestamp  time.Time `json:"timestamp"`
	Detections int       `json:"detections"`
	LastUpdate string    `json:"last_update,omitempty"`
	Clients    int       `json:"websocket_clients"`
}
