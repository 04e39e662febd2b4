// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/focomapa/focomapa/internal/config"
	"github.com/focomapa/focomapa/internal/middleware"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from the handler set and security config.
func NewRouter(handler *Handler, security config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(security),
	}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints get a permissive rate limit so monitoring can
	// poll freely without opening an abuse vector
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Fire data endpoints
	r.Route("/fires", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Fires)
		r.Get("/recents", router.handler.FiresRecents)
		r.Get("/brasil", router.handler.FiresBrasil)
		r.Get("/stats", router.handler.FiresStats)
		r.Get("/geojson", router.handler.FiresGeoJSON)

		r.With(router.chiMiddleware.RateLimitRefresh()).
			Post("/refresh", router.handler.FiresRefresh)
	})

	// Live updates
	r.Get("/ws", router.handler.WebSocket)

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}
