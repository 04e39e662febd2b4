// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package validation

import (
	"strings"
	"testing"
)

type brasilQuery struct {
	Pais  string `validate:"required,numeric"`
	Horas int    `validate:"min=1,max=168"`
}

type snapshotQuery struct {
	Source        string `validate:"omitempty,oneof=MODIS_NRT VIIRS_SNPP_NRT VIIRS_NOAA20_NRT VIIRS_NOAA21_NRT"`
	MinConfidence int    `validate:"min=0,max=100"`
	HoursAgo      int    `validate:"min=0,max=168"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"brasil query", &brasilQuery{Pais: "33", Horas: 24}},
		{"max horas", &brasilQuery{Pais: "33", Horas: 168}},
		{"empty snapshot filters", &snapshotQuery{}},
		{"full snapshot filters", &snapshotQuery{Source: "MODIS_NRT", MinConfidence: 80, HoursAgo: 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
	}{
		{"missing pais", &brasilQuery{Horas: 24}, "Pais"},
		{"non-numeric pais", &brasilQuery{Pais: "brasil", Horas: 24}, "Pais"},
		{"horas too large", &brasilQuery{Pais: "33", Horas: 500}, "Horas"},
		{"horas zero", &brasilQuery{Pais: "33", Horas: 0}, "Horas"},
		{"unknown source", &snapshotQuery{Source: "LANDSAT"}, "Source"},
		{"confidence over 100", &snapshotQuery{MinConfidence: 150}, "MinConfidence"},
		{"negative lookback", &snapshotQuery{HoursAgo: -1}, "HoursAgo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := err.Errors[0].Field; got != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, got)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&brasilQuery{Horas: 24})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %q", apiErr.Code)
	}
	if apiErr.Message != "Pais is required" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Pais" {
		t.Errorf("unexpected details: %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&brasilQuery{Pais: "", Horas: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(err.Errors))
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "Pais") || !strings.Contains(apiErr.Message, "Horas") {
		t.Errorf("expected both fields in message: %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multiple errors")
	}
}

func TestTranslateError_Oneof(t *testing.T) {
	err := ValidateStruct(&snapshotQuery{Source: "LANDSAT"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Errors[0].Error()
	if !strings.Contains(msg, "must be one of") {
		t.Errorf("unexpected oneof message: %q", msg)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}
