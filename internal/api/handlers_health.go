// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package api

import (
	"net/http"
	"time"

	"github.com/focomapa/focomapa/internal/models"
)

// HealthLive handles GET /health/live.
// Liveness only proves the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /health/ready.
// Readiness requires at least one completed collector run when the
// collector is enabled; the relay endpoints alone do not gate it
// since they hold no state.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.refresher != nil && h.snapshot.Empty() {
		respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "awaiting first fire data collection",
		})
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// Health handles GET /health with full status detail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:     "ok",
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:  time.Now().UTC(),
		Detections: h.snapshot.Len(),
	}
	if last := h.snapshot.LastUpdate(); !last.IsZero() {
		status.LastUpdate = last.Format(time.RFC3339)
	}
	if h.hub != nil {
		status.Clients = h.hub.GetClientCount()
	}

	respondJSON(w, r, http.StatusOK, status)
}
