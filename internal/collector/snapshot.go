// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package collector

import (
	"math"
	"sync"
	"time"

	"github.com/focomapa/focomapa/internal/models"
)

// Snapshot is the in-memory store for the most recent collector run.
// Readers get copies; the slice held internally is replaced wholesale
// on every refresh, never mutated in place.
type Snapshot struct {
	mu         sync.RWMutex
	fires      []models.FireDetection
	lastUpdate time.Time
}

// NewSnapshot creates an empty snapshot store.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Replace swaps in a fresh set of detections and stamps the update time.
func (s *Snapshot) Replace(fires []models.FireDetection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fires = fires
	s.lastUpdate = time.Now().UTC()
}

// Fires returns a copy of the current detections.
func (s *Snapshot) Fires() []models.FireDetection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FireDetection, len(s.fires))
	copy(out, s.fires)
	return out
}

// Len returns the number of detections currently held.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fires)
}

// LastUpdate returns the time of the last successful refresh, or the
// zero time when no refresh has completed yet.
func (s *Snapshot) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Empty reports whether the snapshot has never been populated.
func (s *Snapshot) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate.IsZero()
}

// Filter returns detections matching the given criteria:
//   - source: exact satellite source match, empty matches all
//   - minConfidence: minimum confidence percentage, 0 matches all
//   - hoursAgo: lookback window in hours, 0 matches all
//
// Detections whose acquisition timestamp cannot be parsed are kept when
// a lookback window is requested; a malformed upstream timestamp should
// not hide an active fire.
func (s *Snapshot) Filter(source string, minConfidence, hoursAgo int) []models.FireDetection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cutoff time.Time
	if hoursAgo > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(hoursAgo) * time.Hour)
	}

	out := make([]models.FireDetection, 0, len(s.fires))
	for _, d := range s.fires {
		if source != "" && d.Source != source {
			continue
		}
		if d.Confidence < minConfidence {
			continue
		}
		if hoursAgo > 0 {
			if acquired, ok := d.AcquiredAt(); ok && acquired.Before(cutoff) {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// Stats computes summary statistics over the full snapshot.
func (s *Snapshot) Stats() models.FireStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.FireStats{
		TotalFires: len(s.fires),
		BySource:   make(map[string]int),
		ByPeriod:   make(map[string]int),
	}
	if !s.lastUpdate.IsZero() {
		stats.LastUpdate = s.lastUpdate.Format(time.RFC3339)
	}

	if len(s.fires) == 0 {
		return stats
	}

	// Averages skip zero values: the upstream CSV leaves confidence
	// and FRP blank for some detections, and the row coercion maps
	// blanks to zero. Counting them would drag the averages down.
	var confidenceSum, frpSum float64
	var confidenceN, frpN int
	for _, d := range s.fires {
		if d.Confidence > 0 {
			confidenceSum += float64(d.Confidence)
			confidenceN++
		}
		if d.FRP > 0 {
			frpSum += d.FRP
			frpN++
		}
		stats.BySource[d.Source]++
		stats.ByPeriod[periodLabel(d.DayNight)]++
	}

	if confidenceN > 0 {
		stats.AvgConfidence = roundTo(confidenceSum/float64(confidenceN), 2)
	}
	if frpN > 0 {
		stats.AvgFirePower = roundTo(frpSum/float64(frpN), 2)
	}
	return stats
}

// periodLabel maps the FIRMS daynight flag to a stable bucket name.
func periodLabel(dayNight string) string {
	switch dayNight {
	case "D":
		return "day"
	case "N":
		return "night"
	default:
		return "unknown"
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
