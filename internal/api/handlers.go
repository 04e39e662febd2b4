// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/focomapa/focomapa/internal/cache"
	"github.com/focomapa/focomapa/internal/collector"
	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/models"
	"github.com/focomapa/focomapa/internal/upstream"
	"github.com/focomapa/focomapa/internal/validation"
	"github.com/focomapa/focomapa/internal/websocket"
)

// Defaults when the client omits parameters. 33 is INPE's country id
// for Brazil; the snapshot endpoint shows the last day unless the
// caller widens or clears the window.
const (
	defaultPais     = "33"
	defaultHoras    = 24
	defaultHoursAgo = 24
)

// INPEFetcher is the slice of the INPE client the handlers need.
type INPEFetcher interface {
	FetchRecents(ctx context.Context) (*upstream.RecentsResult, error)
	FetchCountry(ctx context.Context, pais string, horas int) (*upstream.CountryResult, error)
}

// Refresher queues an out-of-band collector run.
type Refresher interface {
	TriggerRefresh()
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	inpe      INPEFetcher
	snapshot  *collector.Snapshot
	refresher Refresher
	hub       *websocket.Hub
	cache     *cache.Cache
	upgrader  gorillaws.Upgrader
	version   string
	startTime time.Time
}

// NewHandler creates the handler set. refresher and hub may be nil
// when the collector or websocket support is disabled; the matching
// endpoints degrade gracefully.
func NewHandler(inpe INPEFetcher, snapshot *collector.Snapshot, refresher Refresher, hub *websocket.Hub, responseCache *cache.Cache, version string) *Handler {
	return &Handler{
		inpe:      inpe,
		snapshot:  snapshot,
		refresher: refresher,
		hub:       hub,
		cache:     responseCache,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS layer; the map
			// frontend is served from arbitrary hosts
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		version:   version,
		startTime: time.Now(),
	}
}

// brasilQuery carries the validated parameters of the country relay.
type brasilQuery struct {
	Pais  string `validate:"required,numeric"`
	Horas int    `validate:"min=1,max=168"`
}

// snapshotQuery carries the validated filter parameters of the
// snapshot endpoint.
type snapshotQuery struct {
	Source        string `validate:"omitempty,oneof=MODIS_NRT VIIRS_SNPP_NRT VIIRS_NOAA20_NRT VIIRS_NOAA21_NRT"`
	MinConfidence int    `validate:"min=0,max=100"`
	HoursAgo      int    `validate:"min=0,max=168"`
}

// FiresRecents handles GET /fires/recents.
// Resolves the latest 10-minute INPE CSV drop, parses it, and returns
// the records with the upstream's Portuguese envelope. Responses are
// cached briefly; INPE only publishes a new file every ten minutes.
func (h *Handler) FiresRecents(w http.ResponseWriter, r *http.Request) {
	cacheKey := cache.GenerateKey("fires:recents", nil)
	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			respondJSON(w, r, http.StatusOK, cached)
			return
		}
	}

	result, err := h.inpe.FetchRecents(r.Context())
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	payload := models.RecentFires{
		Fonte:                "INPE",
		Arquivo:              result.Artifact.URL,
		TotalRegistros:       len(result.Table.Records),
		RegistrosDescartados: result.Table.Dropped,
		Dados:                result.Table.Records,
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, payload)
	}
	respondJSON(w, r, http.StatusOK, payload)
}

// FiresBrasil handles GET /fires/brasil?pais=&horas=.
// Relays the INPE country API, counting the detections but passing the
// payload through untouched so upstream schema changes reach clients.
func (h *Handler) FiresBrasil(w http.ResponseWriter, r *http.Request) {
	q := brasilQuery{Pais: defaultPais, Horas: defaultHoras}

	if v := r.URL.Query().Get("pais"); v != "" {
		q.Pais = v
	}
	if v := r.URL.Query().Get("horas"); v != "" {
		horas, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationError, "horas must be an integer")
			return
		}
		q.Horas = horas
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message)
		return
	}

	cacheKey := cache.GenerateKey("fires:brasil", q)
	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			respondJSON(w, r, http.StatusOK, cached)
			return
		}
	}

	result, err := h.inpe.FetchCountry(r.Context(), q.Pais, q.Horas)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	payload := models.BrasilFires{
		Fonte:      "INPE",
		TotalFocos: result.Total,
		Focos:      result.Focos,
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, payload)
	}
	respondJSON(w, r, http.StatusOK, payload)
}

// Fires handles GET /fires.
// Serves the collector snapshot with optional source, min_confidence,
// and hours_ago filters. hours_ago defaults to 24; an explicit 0
// disables the window and serves the whole snapshot. Returns 503 until
// the first refresh lands.
func (h *Handler) Fires(w http.ResponseWriter, r *http.Request) {
	q := snapshotQuery{HoursAgo: defaultHoursAgo}
	query := r.URL.Query()

	q.Source = query.Get("source")
	for param, dst := range map[string]*int{
		"min_confidence": &q.MinConfidence,
		"hours_ago":      &q.HoursAgo,
	} {
		if v := query.Get(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respondError(w, r, http.StatusBadRequest, ErrCodeValidationError, param+" must be an integer")
				return
			}
			*dst = n
		}
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message)
		return
	}

	if h.snapshot.Empty() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeSnapshotNotReady,
			"fire data has not been collected yet")
		return
	}

	fires := h.snapshot.Filter(q.Source, q.MinConfidence, q.HoursAgo)
	respondJSON(w, r, http.StatusOK, models.FiresSnapshot{
		Total:      len(fires),
		LastUpdate: h.snapshot.LastUpdate().Format(time.RFC3339),
		Fires:      fires,
	})
}

// FiresStats handles GET /fires/stats.
func (h *Handler) FiresStats(w http.ResponseWriter, r *http.Request) {
	if h.snapshot.Empty() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeSnapshotNotReady,
			"fire data has not been collected yet")
		return
	}

	respondJSON(w, r, http.StatusOK, h.snapshot.Stats())
}

// FiresGeoJSON handles GET /fires/geojson for map rendering.
func (h *Handler) FiresGeoJSON(w http.ResponseWriter, r *http.Request) {
	if h.snapshot.Empty() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeSnapshotNotReady,
			"fire data has not been collected yet")
		return
	}

	fires := h.snapshot.Fires()
	lastUpdate := h.snapshot.LastUpdate().Format(time.RFC3339)
	respondJSON(w, r, http.StatusOK, models.NewFeatureCollection(fires, lastUpdate))
}

// FiresRefresh handles POST /fires/refresh.
// Queues an out-of-band collector run; the refresh itself is
// asynchronous and clients should poll /fires for the result.
func (h *Handler) FiresRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeSnapshotNotReady,
			"the data collector is disabled")
		return
	}

	h.refresher.TriggerRefresh()
	respondJSON(w, r, http.StatusAccepted, models.RefreshAccepted{
		Message: "fire data refresh queued",
	})
}

// WebSocket handles GET /ws, upgrading the connection and registering
// the client with the hub for fires_update pushes.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeSnapshotNotReady,
			"websocket support is disabled")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
