// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package main is the entry point for the Focomapa server.
//
// Focomapa relays Brazilian wildfire data from INPE's Programa
// Queimadas and collects NASA FIRMS hotspot detections for map
// visualization. It serves:
//
//   - /fires/recents: latest 10-minute INPE CSV drop, parsed
//   - /fires/brasil: INPE country API relay (opaque passthrough)
//   - /fires, /fires/stats, /fires/geojson: the FIRMS snapshot
//   - /ws: live fires_update pushes over websocket
//   - /metrics, /health: observability
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, file, env)
//  2. Upstream clients: INPE and FIRMS, each behind a circuit breaker
//  3. Snapshot + collector: periodic FIRMS refresh into memory
//  4. WebSocket hub: real-time updates to connected map clients
//  5. HTTP server: Chi router with rate limiting and CORS
//
// Everything long-running sits under a suture supervisor tree; the
// ingest layer (collector, hub) restarts independently of the API
// layer.
//
// # Configuration
//
// See the environment variables documented on the config structs. A
// NASA FIRMS MAP_KEY (NASA_API_KEY) is required only when the
// collector is enabled; the INPE relay endpoints work without one.
//
// # Port 4326
//
// The default port 4326 references EPSG:4326 (WGS 84), the coordinate
// system FIRMS and INPE publish their detections in.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focomapa/focomapa/internal/api"
	"github.com/focomapa/focomapa/internal/cache"
	"github.com/focomapa/focomapa/internal/collector"
	"github.com/focomapa/focomapa/internal/config"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/supervisor"
	"github.com/focomapa/focomapa/internal/supervisor/services"
	"github.com/focomapa/focomapa/internal/upstream"
	"github.com/focomapa/focomapa/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting Focomapa")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upstream clients
	inpeClient, err := upstream.NewINPEClient(cfg.INPE)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize INPE client")
	}

	// Response cache for the relay endpoints; short TTL because INPE
	// publishes a new file every ten minutes anyway
	responseCache := cache.New("relay", cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	defer responseCache.Close()

	// Supervisor tree
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Snapshot, collector, and websocket hub (ingest layer)
	snapshot := collector.NewSnapshot()
	var (
		refresher api.Refresher
		hub       *websocket.Hub
	)
	if cfg.Collector.Enabled {
		hub = websocket.NewHub()
		tree.AddIngestService(services.NewWebSocketHubService(hub))

		firmsClient := upstream.NewFIRMSClient(cfg.FIRMS)
		col := collector.New(cfg.Collector, firmsClient, snapshot, hub, responseCache)
		tree.AddIngestService(col)
		refresher = col

		logging.Info().
			Dur("interval", cfg.Collector.Interval).
			Strs("sources", cfg.FIRMS.Sources).
			Bool("amazon_only", cfg.Collector.AmazonOnly).
			Msg("Fire data collector enabled")
	} else {
		logging.Info().Msg("Fire data collector disabled, serving relay endpoints only")
	}

	// HTTP surface (api layer)
	handler := api.NewHandler(inpeClient, snapshot, refresher, hub, responseCache, version)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel; it closes when the supervisor finishes
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
