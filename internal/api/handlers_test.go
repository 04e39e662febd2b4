// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/focomapa/focomapa/internal/artifact"
	"github.com/focomapa/focomapa/internal/cache"
	"github.com/focomapa/focomapa/internal/collector"
	"github.com/focomapa/focomapa/internal/delimited"
	"github.com/focomapa/focomapa/internal/models"
	"github.com/focomapa/focomapa/internal/upstream"
)

type fakeINPE struct {
	recents     *upstream.RecentsResult
	recentsErr  error
	country     *upstream.CountryResult
	countryErr  error
	recentCalls int
	lastPais    string
	lastHoras   int
}

func (f *fakeINPE) FetchRecents(ctx context.Context) (*upstream.RecentsResult, error) {
	f.recentCalls++
	return f.recents, f.recentsErr
}

func (f *fakeINPE) FetchCountry(ctx context.Context, pais string, horas int) (*upstream.CountryResult, error) {
	f.lastPais = pais
	f.lastHoras = horas
	return f.country, f.countryErr
}

type fakeRefresher struct {
	triggers int
}

func (f *fakeRefresher) TriggerRefresh() {
	f.triggers++
}

func recentsFixture() *upstream.RecentsResult {
	return &upstream.RecentsResult{
		Artifact: artifact.Ref{
			Name:  "focos_10min_20251006_1210.csv",
			Token: "20251006_1210",
			URL:   "https://dataserver-coids.inpe.br/queimadas/queimadas/focos/csv/10min/focos_10min_20251006_1210.csv",
		},
		Table: &delimited.Table{
			Fields: []string{"lat", "lon", "satelite"},
			Records: []delimited.Record{
				{"lat": "-3.10", "lon": "-60.02", "satelite": "AQUA_M-T"},
				{"lat": "-9.97", "lon": "-67.81", "satelite": "TERRA_M-M"},
			},
			Dropped: 1,
		},
	}
}

func populatedSnapshot() *collector.Snapshot {
	s := collector.NewSnapshot()
	s.Replace([]models.FireDetection{
		{Latitude: -3.1, Longitude: -60.0, Confidence: 85, FRP: 12.4, Source: "MODIS_NRT", DayNight: "N"},
		{Latitude: -9.9, Longitude: -67.8, Confidence: 40, FRP: 3.6, Source: "VIIRS_SNPP_NRT", DayNight: "D"},
	})
	return s
}

func newTestHandler(inpe INPEFetcher, snapshot *collector.Snapshot, refresher Refresher) *Handler {
	if snapshot == nil {
		snapshot = collector.NewSnapshot()
	}
	return NewHandler(inpe, snapshot, refresher, nil, nil, "test")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestFiresRecents_Envelope(t *testing.T) {
	inpe := &fakeINPE{recents: recentsFixture()}
	h := newTestHandler(inpe, nil, nil)

	rec := httptest.NewRecorder()
	h.FiresRecents(rec, httptest.NewRequest(http.MethodGet, "/fires/recents", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.RecentFires
	decodeBody(t, rec, &resp)

	if resp.Fonte != "INPE" {
		t.Errorf("expected fonte INPE, got %q", resp.Fonte)
	}
	if resp.Arquivo != recentsFixture().Artifact.URL {
		t.Errorf("unexpected arquivo: %q", resp.Arquivo)
	}
	if resp.TotalRegistros != 2 {
		t.Errorf("expected total_registros 2, got %d", resp.TotalRegistros)
	}
	if resp.RegistrosDescartados != 1 {
		t.Errorf("expected registros_descartados 1, got %d", resp.RegistrosDescartados)
	}
	if len(resp.Dados) != 2 || resp.Dados[0]["satelite"] != "AQUA_M-T" {
		t.Errorf("unexpected dados: %v", resp.Dados)
	}
}

func TestFiresRecents_CachesResponse(t *testing.T) {
	inpe := &fakeINPE{recents: recentsFixture()}
	h := newTestHandler(inpe, nil, nil)
	h.cache = cache.New("test-recents", time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.FiresRecents(rec, httptest.NewRequest(http.MethodGet, "/fires/recents", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if inpe.recentCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inpe.recentCalls)
	}
}

func TestFiresRecents_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no artifacts", artifact.ErrNoArtifacts, ErrCodeNoArtifactsFound},
		{"empty payload", delimited.ErrEmptyPayload, ErrCodeEmptyPayload},
		{"upstream down", upstream.ErrUnavailable, ErrCodeUpstreamUnavailable},
		{"bad payload", upstream.ErrBadPayload, ErrCodeUpstreamBadPayload},
		{"unknown", errors.New("boom"), ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeINPE{recentsErr: tt.err}, nil, nil)

			rec := httptest.NewRecorder()
			h.FiresRecents(rec, httptest.NewRequest(http.MethodGet, "/fires/recents", nil))

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestFiresBrasil_Defaults(t *testing.T) {
	inpe := &fakeINPE{country: &upstream.CountryResult{
		Focos: json.RawMessage(`[{"id":"a"},{"id":"b"}]`),
		Total: 2,
	}}
	h := newTestHandler(inpe, nil, nil)

	rec := httptest.NewRecorder()
	h.FiresBrasil(rec, httptest.NewRequest(http.MethodGet, "/fires/brasil", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if inpe.lastPais != "33" || inpe.lastHoras != 24 {
		t.Errorf("expected defaults pais=33 horas=24, got pais=%q horas=%d", inpe.lastPais, inpe.lastHoras)
	}

	var resp models.BrasilFires
	decodeBody(t, rec, &resp)
	if resp.Fonte != "INPE" || resp.TotalFocos != 2 {
		t.Errorf("unexpected envelope: fonte=%q total=%d", resp.Fonte, resp.TotalFocos)
	}
	if string(resp.Focos) != `[{"id":"a"},{"id":"b"}]` {
		t.Errorf("expected raw passthrough, got %s", resp.Focos)
	}
}

func TestFiresBrasil_ParamValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-integer horas", "?horas=abc"},
		{"horas too large", "?horas=500"},
		{"horas zero", "?horas=0"},
		{"non-numeric pais", "?pais=brasil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeINPE{}, nil, nil)

			rec := httptest.NewRecorder()
			h.FiresBrasil(rec, httptest.NewRequest(http.MethodGet, "/fires/brasil"+tt.query, nil))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestFires_SnapshotNotReady(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, nil, nil)

	rec := httptest.NewRecorder()
	h.Fires(rec, httptest.NewRequest(http.MethodGet, "/fires", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != ErrCodeSnapshotNotReady {
		t.Errorf("expected SNAPSHOT_NOT_READY, got %q", resp.Code)
	}
}

func TestFires_Filters(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, populatedSnapshot(), nil)

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"no filters", "", 2},
		{"by source", "?source=MODIS_NRT", 1},
		{"min confidence", "?min_confidence=50", 1},
		{"combined", "?source=VIIRS_SNPP_NRT&min_confidence=50", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Fires(rec, httptest.NewRequest(http.MethodGet, "/fires"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp models.FiresSnapshot
			decodeBody(t, rec, &resp)
			if resp.Total != tt.expected {
				t.Errorf("expected %d fires, got %d", tt.expected, resp.Total)
			}
		})
	}
}

func TestFires_DefaultWindow(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-2 * time.Hour)
	stale := now.Add(-48 * time.Hour)

	s := collector.NewSnapshot()
	s.Replace([]models.FireDetection{
		{Latitude: -3.1, Longitude: -60.0, Confidence: 85, Source: "MODIS_NRT",
			AcqDate: recent.Format("2006-01-02"), AcqTime: recent.Format("1504")},
		{Latitude: -9.9, Longitude: -67.8, Confidence: 40, Source: "VIIRS_SNPP_NRT",
			AcqDate: stale.Format("2006-01-02"), AcqTime: stale.Format("1504")},
	})
	h := newTestHandler(&fakeINPE{}, s, nil)

	// Without parameters only the last 24 hours are served
	rec := httptest.NewRecorder()
	h.Fires(rec, httptest.NewRequest(http.MethodGet, "/fires", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.FiresSnapshot
	decodeBody(t, rec, &resp)
	if resp.Total != 1 {
		t.Errorf("expected only the recent fire by default, got %d", resp.Total)
	}

	// An explicit hours_ago=0 clears the window
	rec = httptest.NewRecorder()
	h.Fires(rec, httptest.NewRequest(http.MethodGet, "/fires?hours_ago=0", nil))
	resp = models.FiresSnapshot{}
	decodeBody(t, rec, &resp)
	if resp.Total != 2 {
		t.Errorf("expected the whole snapshot with hours_ago=0, got %d", resp.Total)
	}
}

func TestFires_InvalidFilters(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, populatedSnapshot(), nil)

	tests := []string{
		"?source=LANDSAT",
		"?min_confidence=150",
		"?min_confidence=abc",
		"?hours_ago=-1",
	}

	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Fires(rec, httptest.NewRequest(http.MethodGet, "/fires"+query, nil))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestFiresStats(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, populatedSnapshot(), nil)

	rec := httptest.NewRecorder()
	h.FiresStats(rec, httptest.NewRequest(http.MethodGet, "/fires/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.FireStats
	decodeBody(t, rec, &resp)
	if resp.TotalFires != 2 {
		t.Errorf("expected 2 fires, got %d", resp.TotalFires)
	}
	if resp.BySource["MODIS_NRT"] != 1 {
		t.Errorf("unexpected by_source: %v", resp.BySource)
	}
}

func TestFiresGeoJSON(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, populatedSnapshot(), nil)

	rec := httptest.NewRecorder()
	h.FiresGeoJSON(rec, httptest.NewRequest(http.MethodGet, "/fires/geojson", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.FeatureCollection
	decodeBody(t, rec, &resp)
	if resp.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %q", resp.Type)
	}
	if len(resp.Features) != 2 || resp.Metadata.Total != 2 {
		t.Errorf("expected 2 features, got %d (metadata %d)", len(resp.Features), resp.Metadata.Total)
	}
	// GeoJSON coordinate order is [lon, lat]
	if resp.Features[0].Geometry.Coordinates[0] != -60.0 {
		t.Errorf("unexpected coordinates: %v", resp.Features[0].Geometry.Coordinates)
	}
}

func TestFiresRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	h := newTestHandler(&fakeINPE{}, nil, refresher)

	rec := httptest.NewRecorder()
	h.FiresRefresh(rec, httptest.NewRequest(http.MethodPost, "/fires/refresh", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresher.triggers != 1 {
		t.Errorf("expected 1 trigger, got %d", refresher.triggers)
	}

	var resp models.RefreshAccepted
	decodeBody(t, rec, &resp)
	if resp.Message == "" {
		t.Error("expected a message in the response")
	}
}

func TestFiresRefresh_CollectorDisabled(t *testing.T) {
	h := newTestHandler(&fakeINPE{}, nil, nil)

	rec := httptest.NewRecorder()
	h.FiresRefresh(rec, httptest.NewRequest(http.MethodPost, "/fires/refresh", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("live always ok", func(t *testing.T) {
		h := newTestHandler(&fakeINPE{}, nil, nil)
		rec := httptest.NewRecorder()
		h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("ready waits for first collection", func(t *testing.T) {
		h := newTestHandler(&fakeINPE{}, nil, &fakeRefresher{})
		rec := httptest.NewRecorder()
		h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503 before first collection, got %d", rec.Code)
		}
	})

	t.Run("ready without collector", func(t *testing.T) {
		h := newTestHandler(&fakeINPE{}, nil, nil)
		rec := httptest.NewRecorder()
		h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for relay-only deployment, got %d", rec.Code)
		}
	})

	t.Run("full health detail", func(t *testing.T) {
		h := newTestHandler(&fakeINPE{}, populatedSnapshot(), nil)
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp models.HealthStatus
		decodeBody(t, rec, &resp)
		if resp.Status != "ok" || resp.Version != "test" {
			t.Errorf("unexpected health payload: %+v", resp)
		}
		if resp.Detections != 2 {
			t.Errorf("expected 2 detections, got %d", resp.Detections)
		}
	})
}
