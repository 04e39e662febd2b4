// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package api

import (
	"errors"
	"net/http"

	"github.com/focomapa/focomapa/internal/artifact"
	"github.com/focomapa/focomapa/internal/delimited"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/upstream"
)

// Error codes for API responses
const (
	ErrCodeValidationError     = "VALIDATION_ERROR"
	ErrCodeNoArtifactsFound    = "NO_ARTIFACTS_FOUND"
	ErrCodeEmptyPayload        = "EMPTY_PAYLOAD"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamBadPayload  = "UPSTREAM_BAD_PAYLOAD"
	ErrCodeSnapshotNotReady    = "SNAPSHOT_NOT_READY"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// respondUpstreamError maps pipeline errors to a response exactly once,
// at the request boundary. Handlers bubble errors up unwrapped; the
// sentinel decides the code and everything keeps the 500 status the
// relay contract promises, since from the client's view the relay
// itself failed to produce data.
func respondUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")

	switch {
	case errors.Is(err, artifact.ErrNoArtifacts):
		respondError(w, r, http.StatusInternalServerError, ErrCodeNoArtifactsFound,
			"no data files found in the upstream listing")

	case errors.Is(err, delimited.ErrEmptyPayload):
		respondError(w, r, http.StatusInternalServerError, ErrCodeEmptyPayload,
			"upstream returned an empty data file")

	case errors.Is(err, upstream.ErrBadPayload):
		respondError(w, r, http.StatusInternalServerError, ErrCodeUpstreamBadPayload,
			"upstream returned a malformed payload")

	case errors.Is(err, upstream.ErrUnavailable):
		respondError(w, r, http.StatusInternalServerError, ErrCodeUpstreamUnavailable,
			"upstream data source is unavailable")

	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
			"internal server error")
	}
}
