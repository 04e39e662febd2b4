// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package models defines the API response types and the typed fire
// detection record shared between the collector and the handlers.
package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/focomapa/focomapa/internal/delimited"
)

// FireDetection is a single hotspot detection from NASA FIRMS.
// Numeric fields are coerced from the CSV with safe defaults; a row
// missing coordinates is discarded before it becomes a FireDetection.
type FireDetection struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Brightness float64 `json:"brightness"`
	Scan       float64 `json:"scan"`
	Track      float64 `json:"track"`
	AcqDate    string  `json:"acq_date"`
	AcqTime    string  `json:"acq_time"`
	Satellite  string  `json:"satellite"`
	Confidence int     `json:"confidence"`
	Version    string  `json:"version"`
	BrightT31  float64 `json:"bright_t31"`
	FRP        float64 `json:"frp"`
	DayNight   string  `json:"daynight"`
	Source     string  `json:"source"`
}

// AcquiredAt parses the detection's acquisition timestamp. FIRMS encodes
// the time as zero-padded HHMM ("0142"). Returns false when the fields
// cannot be parsed.
func (d *FireDetection) AcquiredAt() (time.Time, bool) {
	t, err := time.Parse("2006-01-02 1504", d.AcqDate+" "+d.AcqTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RecentFires is the response envelope for the latest INPE 10-minute CSV.
// Field names mirror the upstream's Portuguese vocabulary.
type RecentFires struct {
	Fonte                string             `json:"fonte"`
	Arquivo              string             `json:"arquivo"`
	TotalRegistros       int                `json:"total_registros"`
	RegistrosDescartados int                `json:"registros_descartados"`
	Dados                []delimited.Record `json:"dados"`
}

// BrasilFires is the response envelope for the INPE country API relay.
// Focos carries the upstream JSON payload untouched.
type BrasilFires struct {
	Fonte      string          `json:"fonte"`
	TotalFocos int             `json:"total_focos"`
	Focos      json.RawMessage `json:"focos"`
}

// FiresSnapshot is the response for the filtered snapshot endpoint.
type FiresSnapshot struct {
	Total      int             `json:"total"`
	LastUpdate string          `json:"last_update"`
	Fires      []FireDetection `json:"fires"`
}

// FireStats summarizes the current snapshot.
type FireStats struct {
	TotalFires    int            `json:"total_fires"`
	AvgConfidence float64        `json:"avg_confidence"`
	AvgFirePower  float64        `json:"avg_fire_power"`
	BySource      map[string]int `json:"by_source"`
	ByPeriod      map[string]int `json:"by_period"`
	LastUpdate    string         `json:"last_update"`
}

// RefreshAccepted is returned when a manual snapshot refresh is queued.
type RefreshAccepted struct {
	Message string `json:"message"`
}
