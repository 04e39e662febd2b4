// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package geo provides geographic filtering for fire detections.
//
// The FIRMS area API only accepts rectangular bounding boxes, so queries
// for the Brazilian Amazon inevitably pull in detections from Bolivia,
// Peru and Colombia. This package clips those out against an approximate
// Legal Amazon polygon.
package geo

// Point is a lon/lat coordinate pair in EPSG:4326.
type Point struct {
	Lon float64
	Lat float64
}

// legalAmazonPolygon approximates the Legal Amazon boundary with a few
// dozen vertices. The coarse outline trades accuracy near the frontier
// for simplicity: points within roughly a degree of the border can land
// on the wrong side, which is tolerable for clipping satellite
// detections.
var legalAmazonPolygon = []Point{
	{-73.75, -7.35},  // Brazil-Peru border (southern Acre)
	{-73.50, -5.00},  // Acre-Peru
	{-73.00, -2.50},  // western Amazonas (Peru border)
	{-72.50, -0.50},  // northwestern Amazonas
	{-70.50, 0.00},   // Brazil-Colombia border
	{-69.50, 1.00},   // northern Amazonas
	{-69.40, 2.00},   // western Roraima (Venezuela border)
	{-64.83, 2.24},   // northeastern Roraima
	{-60.24, 5.27},   // far north (Roraima)
	{-59.80, 4.50},   // northern Roraima
	{-51.65, 4.45},   // northern Amapá
	{-50.39, 1.80},   // eastern Amapá
	{-49.97, 1.70},   // Amapá coast
	{-48.48, 1.68},   // northern Pará
	{-44.21, -1.30},  // northeastern Maranhão
	{-44.00, -2.80},  // eastern Maranhão
	{-44.36, -6.00},  // southern Maranhão
	{-44.70, -9.00},  // eastern Tocantins
	{-46.05, -10.96}, // southeastern Tocantins
	{-46.87, -12.47}, // southern Tocantins
	{-50.09, -13.84}, // eastern Mato Grosso
	{-51.09, -14.48}, // east-central Mato Grosso
	{-52.50, -15.40}, // central Mato Grosso
	{-56.09, -17.00}, // southern Mato Grosso
	{-57.50, -16.00}, // southwestern Mato Grosso
	{-59.43, -15.42}, // western Mato Grosso
	{-60.11, -13.69}, // Brazil-Bolivia border (MT/RO)
	{-64.50, -12.56}, // southern Rondônia (Bolivia border)
	{-65.00, -11.01}, // southwestern Rondônia
	{-66.50, -10.85}, // western Rondônia
	{-68.50, -11.15}, // southern Acre (Bolivia border)
	{-69.40, -10.95}, // southwestern Acre
	{-70.00, -9.49},  // western Acre
	{-72.50, -9.08},  // Acre-Peru border
	{-73.75, -7.35},  // back to start
}

// InLegalAmazon reports whether the lon/lat point falls inside the
// Legal Amazon polygon, using the ray-casting algorithm.
func InLegalAmazon(lon, lat float64) bool {
	n := len(legalAmazonPolygon)
	inside := false

	p1 := legalAmazonPolygon[0]
	for i := 1; i <= n; i++ {
		p2 := legalAmazonPolygon[i%n]
		if lat > min(p1.Lat, p2.Lat) && lat <= max(p1.Lat, p2.Lat) && lon <= max(p1.Lon, p2.Lon) {
			var xInters float64
			if p1.Lat != p2.Lat {
				xInters = (lat-p1.Lat)*(p2.Lon-p1.Lon)/(p2.Lat-p1.Lat) + p1.Lon
			}
			if p1.Lon == p2.Lon || lon <= xInters {
				inside = !inside
			}
		}
		p1 = p2
	}

	return inside
}
