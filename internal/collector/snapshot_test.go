// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package collector

import (
	"testing"
	"time"

	"github.com/focomapa/focomapa/internal/models"
)

func sampleFires(now time.Time) []models.FireDetection {
	recent := now.Add(-1 * time.Hour)
	old := now.Add(-30 * time.Hour)

	return []models.FireDetection{
		{
			Latitude: -3.1, Longitude: -60.0,
			Confidence: 85, FRP: 12.4, DayNight: "N",
			Source:  "MODIS_NRT",
			AcqDate: recent.Format("2006-01-02"), AcqTime: recent.Format("1504"),
		},
		{
			Latitude: -9.9, Longitude: -67.8,
			Confidence: 60, FRP: 8.0, DayNight: "D",
			Source:  "VIIRS_SNPP_NRT",
			AcqDate: old.Format("2006-01-02"), AcqTime: old.Format("1504"),
		},
		{
			Latitude: -5.5, Longitude: -55.0,
			Confidence: 40, FRP: 3.6, DayNight: "N",
			Source:  "MODIS_NRT",
			AcqDate: "not-a-date", AcqTime: "9999",
		},
	}
}

func TestSnapshot_ReplaceAndRead(t *testing.T) {
	s := NewSnapshot()

	if !s.Empty() {
		t.Error("new snapshot should be empty")
	}
	if s.Len() != 0 {
		t.Errorf("expected 0 fires, got %d", s.Len())
	}

	s.Replace(sampleFires(time.Now().UTC()))

	if s.Empty() {
		t.Error("populated snapshot should not be empty")
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 fires, got %d", s.Len())
	}
	if s.LastUpdate().IsZero() {
		t.Error("expected last update to be stamped")
	}
}

func TestSnapshot_FiresReturnsCopy(t *testing.T) {
	s := NewSnapshot()
	s.Replace(sampleFires(time.Now().UTC()))

	fires := s.Fires()
	fires[0].Source = "mutated"

	if s.Fires()[0].Source == "mutated" {
		t.Error("mutating the returned slice must not affect the snapshot")
	}
}

func TestSnapshot_Filter(t *testing.T) {
	now := time.Now().UTC()
	s := NewSnapshot()
	s.Replace(sampleFires(now))

	tests := []struct {
		name          string
		source        string
		minConfidence int
		hoursAgo      int
		expected      int
	}{
		{"no filters", "", 0, 0, 3},
		{"by source", "MODIS_NRT", 0, 0, 2},
		{"unknown source", "GOES_NRT", 0, 0, 0},
		{"min confidence", "", 70, 0, 1},
		{"confidence boundary is inclusive", "", 60, 0, 2},
		// 24h window drops the 30h-old fire but keeps the
		// unparseable-timestamp one
		{"lookback window", "", 0, 24, 2},
		{"combined", "MODIS_NRT", 50, 24, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(tt.source, tt.minConfidence, tt.hoursAgo)
			if len(got) != tt.expected {
				t.Errorf("expected %d fires, got %d", tt.expected, len(got))
			}
		})
	}
}

func TestSnapshot_Stats(t *testing.T) {
	s := NewSnapshot()
	s.Replace(sampleFires(time.Now().UTC()))

	stats := s.Stats()

	if stats.TotalFires != 3 {
		t.Errorf("expected 3 total fires, got %d", stats.TotalFires)
	}
	// (85 + 60 + 40) / 3 = 61.666... -> 61.67
	if stats.AvgConfidence != 61.67 {
		t.Errorf("expected avg confidence 61.67, got %v", stats.AvgConfidence)
	}
	// (12.4 + 8.0 + 3.6) / 3 = 8.0
	if stats.AvgFirePower != 8.0 {
		t.Errorf("expected avg fire power 8.0, got %v", stats.AvgFirePower)
	}
	if stats.BySource["MODIS_NRT"] != 2 || stats.BySource["VIIRS_SNPP_NRT"] != 1 {
		t.Errorf("unexpected by_source: %v", stats.BySource)
	}
	if stats.ByPeriod["night"] != 2 || stats.ByPeriod["day"] != 1 {
		t.Errorf("unexpected by_period: %v", stats.ByPeriod)
	}
	if stats.LastUpdate == "" {
		t.Error("expected last_update to be set")
	}
}

func TestSnapshot_StatsSkipsBlankValues(t *testing.T) {
	s := NewSnapshot()
	s.Replace([]models.FireDetection{
		{Confidence: 80, FRP: 10.0, Source: "MODIS_NRT", DayNight: "N"},
		{Confidence: 60, FRP: 0, Source: "MODIS_NRT", DayNight: "N"},
		// blank confidence and FRP in the upstream row coerce to zero
		{Confidence: 0, FRP: 5.5, Source: "VIIRS_SNPP_NRT", DayNight: "D"},
	})

	stats := s.Stats()

	// (80 + 60) / 2, the zero entry does not count
	if stats.AvgConfidence != 70.0 {
		t.Errorf("expected avg confidence 70.0, got %v", stats.AvgConfidence)
	}
	// (10.0 + 5.5) / 2 = 7.75
	if stats.AvgFirePower != 7.75 {
		t.Errorf("expected avg fire power 7.75, got %v", stats.AvgFirePower)
	}
	if stats.TotalFires != 3 {
		t.Errorf("expected all 3 fires counted in total, got %d", stats.TotalFires)
	}
}

func TestSnapshot_StatsEmpty(t *testing.T) {
	stats := NewSnapshot().Stats()

	if stats.TotalFires != 0 {
		t.Errorf("expected 0 fires, got %d", stats.TotalFires)
	}
	if stats.AvgConfidence != 0 || stats.AvgFirePower != 0 {
		t.Error("averages over an empty snapshot must be zero")
	}
	if stats.LastUpdate != "" {
		t.Errorf("expected empty last_update, got %q", stats.LastUpdate)
	}
}

func TestSnapshot_ConcurrentAccess(t *testing.T) {
	s := NewSnapshot()
	fires := sampleFires(time.Now().UTC())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Replace(fires)
		}
	}()

	for i := 0; i < 100; i++ {
		_ = s.Fires()
		_ = s.Filter("MODIS_NRT", 50, 24)
		_ = s.Stats()
	}
	<-done
}
