// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package api provides the HTTP surface of Focomapa: the INPE relay
// endpoints, the FIRMS snapshot endpoints, health checks, and the
// websocket upgrade.
//
// Success payloads are written as-is; the relay endpoints promise
// exact envelope shapes to their clients, so there is no generic
// response wrapper. Errors share one shape and one mapping point.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/focomapa/focomapa/internal/logging"
)

// ErrorResponse is the JSON body for every error the API returns.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// respondJSON writes data with the given status. Encoding failures are
// logged; by then the status line is already on the wire.
func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError writes a structured error response with the request ID
// for tracing.
func respondError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	respondJSON(w, r, statusCode, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}
