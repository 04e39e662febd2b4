// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/focomapa/focomapa/internal/config"
	"github.com/focomapa/focomapa/internal/delimited"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/metrics"
	"github.com/focomapa/focomapa/internal/models"
)

// firmsDelimiter is the field separator in FIRMS area CSV responses.
const firmsDelimiter = ","

// FIRMSClient queries the NASA FIRMS area API for hotspot detections.
// Requests are rate limited; FIRMS throttles MAP_KEYs that exceed
// their transaction allowance.
type FIRMSClient struct {
	cfg        config.FIRMSConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *Breaker
}

// NewFIRMSClient builds the client with a per-minute rate limiter
// derived from the configured allowance.
func NewFIRMSClient(cfg config.FIRMSConfig) *FIRMSClient {
	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 30
	}

	return &FIRMSClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		breaker: NewBreaker("firms"),
	}
}

// FetchSource queries one satellite source over the configured bounding
// box and lookback window and returns typed detections. Rows without
// coordinates are discarded.
func (c *FIRMSClient) FetchSource(ctx context.Context, source string) ([]models.FireDetection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// URL shape: /api/area/csv/MAP_KEY/SOURCE/west,south,east,north/days
	coords := fmt.Sprintf("%g,%g,%g,%g", c.cfg.AreaWest, c.cfg.AreaSouth, c.cfg.AreaEast, c.cfg.AreaNorth)
	rawURL := fmt.Sprintf("%s/api/area/csv/%s/%s/%s/%d",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.MapKey, source, coords, c.cfg.Days)

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		resp, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			return nil, reqErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %d from FIRMS (%s)", resp.StatusCode, source)
		}

		return io.ReadAll(resp.Body)
	})
	metrics.RecordUpstreamRequest("firms", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	table, err := delimited.Parse(string(body), firmsDelimiter)
	if err != nil {
		// A source with no detections returns only a header; an outright
		// empty body means FIRMS misbehaved
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	detections := make([]models.FireDetection, 0, len(table.Records))
	for _, record := range table.Records {
		d := recordToDetection(record, source)
		if d.Latitude == 0 && d.Longitude == 0 {
			continue
		}
		detections = append(detections, d)
	}

	logging.Ctx(ctx).Info().
		Str("source", source).
		Int("detections", len(detections)).
		Msg("fetched FIRMS detections")

	return detections, nil
}

// FetchAllSources queries every configured source, skipping sources
// that fail so one satellite outage does not empty the snapshot.
// Returns an error only when every source failed.
func (c *FIRMSClient) FetchAllSources(ctx context.Context) ([]models.FireDetection, error) {
	all := make([]models.FireDetection, 0)
	var lastErr error
	failures := 0

	for _, source := range c.cfg.Sources {
		detections, err := c.FetchSource(ctx, source)
		if err != nil {
			failures++
			lastErr = err
			logging.Ctx(ctx).Error().
				Str("source", source).
				Err(err).
				Msg("FIRMS source failed, continuing with remaining sources")
			continue
		}
		all = append(all, detections...)
	}

	if failures == len(c.cfg.Sources) && failures > 0 {
		return nil, fmt.Errorf("all %d FIRMS sources failed: %w", failures, lastErr)
	}

	return all, nil
}

// recordToDetection coerces a parsed CSV record into a typed detection.
// Unparseable numeric fields fall back to zero values rather than
// dropping the row; rows without coordinates are filtered by the caller.
func recordToDetection(record delimited.Record, source string) models.FireDetection {
	return models.FireDetection{
		Latitude:   safeFloat(record["latitude"]),
		Longitude:  safeFloat(record["longitude"]),
		Brightness: safeFloat(firstValue(record, "brightness", "bright_ti4")),
		Scan:       safeFloat(record["scan"]),
		Track:      safeFloat(record["track"]),
		AcqDate:    strings.TrimSpace(record["acq_date"]),
		AcqTime:    strings.TrimSpace(record["acq_time"]),
		Satellite:  strings.TrimSpace(record["satellite"]),
		Confidence: safeInt(record["confidence"]),
		Version:    strings.TrimSpace(record["version"]),
		BrightT31:  safeFloat(firstValue(record, "bright_t31", "bright_ti5")),
		FRP:        safeFloat(record["frp"]),
		DayNight:   strings.TrimSpace(record["daynight"]),
		Source:     source,
	}
}

// firstValue returns the first non-empty value among the named fields.
// MODIS and VIIRS name their brightness columns differently.
func firstValue(record delimited.Record, names ...string) string {
	for _, name := range names {
		if v := record[name]; v != "" {
			return v
		}
	}
	return ""
}

// safeFloat converts a string to float64, returning 0 on failure
func safeFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// safeInt converts a string to int, returning 0 on failure.
// VIIRS encodes confidence as l/n/h; those map to 0 like any
// other non-numeric value, matching the relay's lenient parsing.
func safeInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Tolerate float-formatted integers ("85.0")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
