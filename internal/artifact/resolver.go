// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package artifact resolves the most recent downloadable file from an
// HTML directory listing. INPE publishes 10-minute fire detection CSVs
// into a plain directory; filenames embed a sortable timestamp token
// (focos_10min_20251006_1210.csv) which this package compares directly
// instead of trusting the listing order.
package artifact

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// ErrNoArtifacts is returned when the listing contains no filenames
// matching the configured pattern.
var ErrNoArtifacts = errors.New("no artifacts found in listing")

// Ref identifies a resolved artifact.
type Ref struct {
	// Name is the matched filename, e.g. "focos_10min_20251006_1210.csv".
	Name string
	// Token is the captured timestamp token, e.g. "20251006_1210".
	Token string
	// URL is the absolute download URL.
	URL string
}

// Resolver finds the latest artifact in a directory listing by comparing
// the timestamp tokens embedded in matching filenames.
type Resolver struct {
	pattern *regexp.Regexp
}

// NewResolver compiles the filename pattern. The pattern must contain
// exactly one capture group isolating the sortable timestamp token.
func NewResolver(pattern string) (*Resolver, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("artifact pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return &Resolver{pattern: re}, nil
}

// Latest scans a directory listing body for filenames matching the
// pattern and returns the artifact with the greatest timestamp token.
// Tokens are zero-padded fixed-width datetimes, so lexicographic
// comparison matches chronological order. When two matches carry the
// same token the later occurrence in the listing wins.
//
// Returns ErrNoArtifacts when nothing matches.
func (r *Resolver) Latest(listing string, base *url.URL) (Ref, error) {
	matches := r.pattern.FindAllStringSubmatch(listing, -1)
	if len(matches) == 0 {
		return Ref{}, fmt.Errorf("%w: pattern %s", ErrNoArtifacts, r.pattern)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m[1] >= best[1] {
			best = m
		}
	}

	ref := Ref{Name: best[0], Token: best[1]}

	nameURL, err := url.Parse(best[0])
	if err != nil {
		return Ref{}, fmt.Errorf("artifact name %q is not a valid URL reference: %w", best[0], err)
	}
	ref.URL = base.ResolveReference(nameURL).String()

	return ref, nil
}
