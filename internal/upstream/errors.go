// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package upstream

import "errors"

// ErrUnavailable wraps any transport, HTTP status, or circuit breaker
// failure when talking to a fire-data provider. Handlers map it to a
// single error code at the API boundary.
var ErrUnavailable = errors.New("upstream unavailable")

// ErrBadPayload is returned when a provider responds 200 but the body
// cannot be interpreted (e.g. the country API returns non-JSON).
var ErrBadPayload = errors.New("upstream returned malformed payload")
