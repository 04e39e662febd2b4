// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package collector runs the periodic FIRMS refresh loop and holds the
// resulting detection snapshot that the read endpoints serve from.
package collector

import (
	"context"
	"time"

	"github.com/focomapa/focomapa/internal/config"
	"github.com/focomapa/focomapa/internal/geo"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/metrics"
	"github.com/focomapa/focomapa/internal/models"
)

// Fetcher supplies fire detections from upstream. Satisfied by
// *upstream.FIRMSClient.
type Fetcher interface {
	FetchAllSources(ctx context.Context) ([]models.FireDetection, error)
}

// Broadcaster pushes refresh notifications to connected clients.
// Satisfied by *websocket.Hub.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
	BroadcastStatsUpdate(totalFires int, lastUpdate string)
}

// Invalidator is a cache that can be flushed after a refresh.
type Invalidator interface {
	Clear()
}

// FiresUpdateData is the payload broadcast to websocket clients after
// each successful refresh.
type FiresUpdateData struct {
	Total      int    `json:"total"`
	LastUpdate string `json:"last_update"`
}

// Collector periodically pulls detections from FIRMS, filters them to
// the Legal Amazon when configured, and publishes the result.
type Collector struct {
	cfg      config.CollectorConfig
	fetcher  Fetcher
	snapshot *Snapshot
	hub      Broadcaster
	caches   []Invalidator
	trigger  chan struct{}
}

// New creates a collector. hub may be nil when websocket support is
// disabled; caches are flushed after every successful refresh.
func New(cfg config.CollectorConfig, fetcher Fetcher, snapshot *Snapshot, hub Broadcaster, caches ...Invalidator) *Collector {
	return &Collector{
		cfg:      cfg,
		fetcher:  fetcher,
		snapshot: snapshot,
		hub:      hub,
		caches:   caches,
		trigger:  make(chan struct{}, 1),
	}
}

// TriggerRefresh requests an out-of-band refresh. Non-blocking; if a
// refresh is already queued the request coalesces into it.
func (c *Collector) TriggerRefresh() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service. It refreshes immediately on start
// and then on every tick or manual trigger until the context is
// canceled. A failed refresh is logged and retried on the next tick;
// it never crashes the service.
func (c *Collector) Serve(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		logging.Error().Err(err).Msg("initial fire data refresh failed")
	}

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().
				Str("component", "collector").
				Msg("fire data collector stopped")
			return ctx.Err()

		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("scheduled fire data refresh failed")
			}

		case <-c.trigger:
			if err := c.Refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("manual fire data refresh failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (c *Collector) String() string {
	return "fire-collector"
}

// Refresh performs one full collection cycle: fetch from all FIRMS
// sources, optionally clip to the Legal Amazon, swap the snapshot,
// flush caches, and notify websocket clients.
func (c *Collector) Refresh(ctx context.Context) error {
	start := time.Now()

	detections, err := c.fetcher.FetchAllSources(ctx)
	if err != nil {
		metrics.RecordCollectorRun(time.Since(start), 0, err)
		return err
	}

	fetched := len(detections)
	if c.cfg.AmazonOnly {
		detections = clipToLegalAmazon(detections)
	}

	c.snapshot.Replace(detections)

	for _, cache := range c.caches {
		cache.Clear()
	}

	if c.hub != nil {
		lastUpdate := c.snapshot.LastUpdate().Format(time.RFC3339)
		c.hub.BroadcastJSON("fires_update", FiresUpdateData{
			Total:      len(detections),
			LastUpdate: lastUpdate,
		})
		c.hub.BroadcastStatsUpdate(len(detections), lastUpdate)
	}

	metrics.RecordCollectorRun(time.Since(start), len(detections), nil)

	logging.Info().
		Int("fetched", fetched).
		Int("kept", len(detections)).
		Dur("duration", time.Since(start)).
		Msg("fire data refresh completed")

	return nil
}

// clipToLegalAmazon drops detections outside the Legal Amazon boundary.
func clipToLegalAmazon(detections []models.FireDetection) []models.FireDetection {
	out := make([]models.FireDetection, 0, len(detections))
	for _, d := range detections {
		if geo.InLegalAmazon(d.Longitude, d.Latitude) {
			out = append(out, d)
		}
	}
	return out
}
