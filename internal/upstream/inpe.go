// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package upstream holds the HTTP clients for the fire-data providers:
// INPE Programa Queimadas (directory-listed CSV drops and a per-country
// JSON API) and NASA FIRMS (area CSV API). All outbound calls run under
// circuit breaker protection and are recorded in Prometheus.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/focomapa/focomapa/internal/artifact"
	"github.com/focomapa/focomapa/internal/config"
	"github.com/focomapa/focomapa/internal/delimited"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/metrics"
)

// RecentsResult is the outcome of resolving and parsing the latest
// 10-minute INPE CSV drop.
type RecentsResult struct {
	Artifact artifact.Ref
	Table    *delimited.Table
}

// INPEClient talks to the INPE Programa Queimadas open data endpoints.
type INPEClient struct {
	cfg        config.INPEConfig
	httpClient *http.Client
	resolver   *artifact.Resolver
	listingURL *url.URL
	breaker    *Breaker
}

// NewINPEClient builds the client, compiling the artifact pattern and
// parsing the listing URL up front so request-time failures are limited
// to the network.
func NewINPEClient(cfg config.INPEConfig) (*INPEClient, error) {
	resolver, err := artifact.NewResolver(cfg.ArtifactPattern)
	if err != nil {
		return nil, err
	}

	listingURL, err := url.Parse(cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid INPE listing URL %q: %w", cfg.ListingURL, err)
	}

	return &INPEClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		resolver:   resolver,
		listingURL: listingURL,
		breaker:    NewBreaker("inpe"),
	}, nil
}

// FetchRecents resolves the most recent artifact in the 10-minute
// directory listing, downloads it, and parses it into a table.
func (c *INPEClient) FetchRecents(ctx context.Context) (*RecentsResult, error) {
	listing, err := c.get(ctx, c.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching INPE listing: %w", err)
	}

	ref, err := c.resolver.Latest(string(listing), c.listingURL)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("artifact", ref.Name).
		Str("token", ref.Token).
		Msg("resolved latest INPE artifact")

	payload, err := c.get(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching INPE artifact %s: %w", ref.Name, err)
	}

	table, err := delimited.Parse(string(payload), c.cfg.Delimiter)
	if err != nil {
		return nil, err
	}

	if table.Dropped > 0 {
		logging.Ctx(ctx).Warn().
			Str("artifact", ref.Name).
			Int("dropped", table.Dropped).
			Msg("dropped malformed rows from INPE CSV")
	}

	return &RecentsResult{Artifact: ref, Table: table}, nil
}

// CountryResult carries the opaque country API payload and the number
// of detections it contains.
type CountryResult struct {
	Focos json.RawMessage
	Total int
}

// FetchCountry relays the INPE country API. The pais and horas query
// parameters pass straight through; the JSON payload is not reshaped,
// only counted.
func (c *INPEClient) FetchCountry(ctx context.Context, pais string, horas int) (*CountryResult, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid INPE API URL: %w", err)
	}
	q := u.Query()
	q.Set("pais_id", pais)
	q.Set("horas", strconv.Itoa(horas))
	u.RawQuery = q.Encode()

	payload, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("fetching INPE country API: %w", err)
	}

	// Count entries without losing unknown upstream fields
	var focos []json.RawMessage
	if err := json.Unmarshal(payload, &focos); err != nil {
		return nil, fmt.Errorf("%w: country API did not return a JSON array: %v", ErrBadPayload, err)
	}

	return &CountryResult{
		Focos: json.RawMessage(payload),
		Total: len(focos),
	}, nil
}

// get issues a breaker-protected GET and returns the response body.
// Any transport error or non-2xx status becomes ErrUnavailable.
func (c *INPEClient) get(ctx context.Context, rawURL string) ([]byte, error) {
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
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		return io.ReadAll(resp.Body)
	})

	metrics.RecordUpstreamRequest("inpe", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}
