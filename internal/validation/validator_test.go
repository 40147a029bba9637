// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package validation

import (
	"strings"
	"testing"
)

type periodRequest struct {
	YearFrom int `validate:"required,gte=1900,lte=2100"`
	WeekFrom int `validate:"required,epiweek"`
	YearTo   int `validate:"required,gtefield=YearFrom"`
	WeekTo   int `validate:"required,epiweek"`
}

type compareRequest struct {
	Measure    string `validate:"required,min=1,max=128"`
	Comparison string `validate:"omitempty,oneof=none year_over_year previous_period"`
}

func TestValidateStructValid(t *testing.T) {
	req := periodRequest{YearFrom: 2025, WeekFrom: 1, YearTo: 2025, WeekTo: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct: %v", err)
	}
}

func TestEpiweekTag(t *testing.T) {
	tests := []struct {
		name  string
		week  int
		valid bool
	}{
		{"first week", 1, true},
		{"mid year", 26, true},
		{"week 52", 52, true},
		{"week 53 accepted", 53, true},
		{"zero", 0, false},
		{"negative", -3, false},
		{"beyond 53", 54, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := periodRequest{YearFrom: 2025, WeekFrom: tt.week, YearTo: 2025, WeekTo: 10}
			err := ValidateStruct(&req)
			if tt.valid && err != nil {
				t.Errorf("week %d rejected: %v", tt.week, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("week %d accepted, want rejection", tt.week)
			}
		})
	}
}

func TestYearOrdering(t *testing.T) {
	req := periodRequest{YearFrom: 2025, WeekFrom: 40, YearTo: 2024, WeekTo: 5}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("YearTo before YearFrom accepted, want rejection")
	}
	if got := err.Errors()[0].Field(); got != "YearTo" {
		t.Errorf("failing field = %q, want YearTo", got)
	}
}

func TestComparisonModeOneof(t *testing.T) {
	for _, mode := range []string{"", "none", "year_over_year", "previous_period"} {
		req := compareRequest{Measure: "casos", Comparison: mode}
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("mode %q rejected: %v", mode, err)
		}
	}

	req := compareRequest{Measure: "casos", Comparison: "last_month"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("unknown comparison mode accepted")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("error = %q, want oneof translation", err.Error())
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	req := compareRequest{Measure: ""}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("empty measure accepted")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "Measure is required" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Measure is required")
	}
	if apiErr.Details["field"] != "Measure" {
		t.Errorf("details field = %v, want Measure", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	req := periodRequest{YearFrom: 2025, WeekFrom: 99, YearTo: 2024, WeekTo: 99}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("invalid request accepted")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("got %d errors, want at least 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("details fields missing: %v", apiErr.Details)
	}
	if len(fields) != len(err.Errors()) {
		t.Errorf("got %d detail fields, want %d", len(fields), len(err.Errors()))
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}
