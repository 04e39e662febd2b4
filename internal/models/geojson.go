// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package models

// GeoJSON types for the map-facing endpoint. Only Point geometries are
// produced; detections are individual hotspot pixels.

// Geometry is a GeoJSON Point geometry.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
}

// Feature is a GeoJSON feature wrapping one fire detection.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries the detection attributes shown on the map.
type FeatureProperties struct {
	Brightness float64 `json:"brightness"`
	Confidence int     `json:"confidence"`
	FRP        float64 `json:"frp"`
	Satellite  string  `json:"satellite"`
	Source     string  `json:"source"`
	AcqDate    string  `json:"acq_date"`
	AcqTime    string  `json:"acq_time"`
	DayNight   string  `json:"daynight"`
}

// FeatureCollectionMetadata annotates the collection with snapshot info.
type FeatureCollectionMetadata struct {
	Total      int    `json:"total"`
	LastUpdate string `json:"last_update"`
}

// FeatureCollection is the GeoJSON response envelope.
type FeatureCollection struct {
	Type     string                    `json:"type"`
	Features []Feature                 `json:"features"`
	Metadata FeatureCollectionMetadata `json:"metadata"`
}

// NewFeatureCollection converts detections into a GeoJSON FeatureCollection.
func NewFeatureCollection(fires []FireDetection, lastUpdate string) *FeatureCollection {
	features := make([]Feature, 0, len(fires))
	for _, f := range fires {
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{f.Longitude, f.Latitude},
			},
			Properties: FeatureProperties{
				Brightness: f.Brightness,
				Confidence: f.Confidence,
				FRP:        f.FRP,
				Satellite:  f.Satellite,
				Source:     f.Source,
				AcqDate:    f.AcqDate,
				AcqTime:    f.AcqTime,
				DayNight:   f.DayNight,
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Metadata: FeatureCollectionMetadata{
			Total:      len(features),
			LastUpdate: lastUpdate,
		},
	}
}
