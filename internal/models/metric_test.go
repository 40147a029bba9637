// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package models

import (
	"testing"

	"github.com/nmoralejo/vigia/internal/epiweek"
)

func TestMetricRowMeasure(t *testing.T) {
	tests := []struct {
		name   string
		row    MetricRow
		want   float64
		wantOK bool
	}{
		{"float64", MetricRow{"valor": 42.5}, 42.5, true},
		{"int", MetricRow{"valor": 7}, 7, true},
		{"int64", MetricRow{"valor": int64(9)}, 9, true},
		{"missing", MetricRow{"otro": 1.0}, 0, false},
		{"nil value", MetricRow{"valor": nil}, 0, false},
		{"string value", MetricRow{"valor": "42"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.Measure("valor")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Measure = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEffectiveFieldNames(t *testing.T) {
	var q MetricQuery
	if got := q.EffectiveMeasureField(); got != DefaultMeasureField {
		t.Errorf("EffectiveMeasureField = %q, want default", got)
	}
	yearField, weekField := q.PeriodFields()
	if yearField != DefaultYearField || weekField != DefaultWeekField {
		t.Errorf("PeriodFields = %q, %q, want defaults", yearField, weekField)
	}

	q.MeasureField, q.YearField, q.WeekField = "cases", "yr", "wk"
	if got := q.EffectiveMeasureField(); got != "cases" {
		t.Errorf("EffectiveMeasureField = %q, want cases", got)
	}
	yearField, weekField = q.PeriodFields()
	if yearField != "yr" || weekField != "wk" {
		t.Errorf("PeriodFields = %q, %q, want overrides", yearField, weekField)
	}
}

func TestCacheKeyCanonical(t *testing.T) {
	period := epiweek.Period{YearFrom: 2025, WeekFrom: 1, YearTo: 2025, WeekTo: 10}

	a := MetricQuery{
		Measure:    "casos",
		Dimensions: []string{"provincia"},
		Filters:    map[string]any{"evento": "dengue", "grupo_etario": "0-4"},
		Comparison: epiweek.ModeYearOverYear,
	}
	b := MetricQuery{
		Measure:    "casos",
		Dimensions: []string{"provincia"},
		Filters:    map[string]any{"grupo_etario": "0-4", "evento": "dengue"},
		Comparison: epiweek.ModeYearOverYear,
	}

	if a.CacheKey(period) != b.CacheKey(period) {
		t.Error("filter insertion order changed the cache key")
	}

	c := a
	c.Filters = map[string]any{"evento": "zika", "grupo_etario": "0-4"}
	if a.CacheKey(period) == c.CacheKey(period) {
		t.Error("different filters produced the same cache key")
	}

	other := epiweek.Period{YearFrom: 2024, WeekFrom: 1, YearTo: 2024, WeekTo: 10}
	if a.CacheKey(period) == a.CacheKey(other) {
		t.Error("different periods produced the same cache key")
	}
}

func TestNewAggregationRequest(t *testing.T) {
	period := epiweek.Period{YearFrom: 2025, WeekFrom: 1, YearTo: 2025, WeekTo: 10}
	q := MetricQuery{
		Measure:    "casos",
		Dimensions: []string{"provincia"},
		Filters:    map[string]any{"evento": "dengue", "descartado": nil},
	}

	req := NewAggregationRequest(q, period)

	if req.Filters["period"] != period {
		t.Errorf("period filter = %v, want %v", req.Filters["period"], period)
	}
	if req.Filters["evento"] != "dengue" {
		t.Errorf("evento filter = %v, want dengue", req.Filters["evento"])
	}
	if _, ok := req.Filters["descartado"]; ok {
		t.Error("nil filter copied into request")
	}

	// The caller's map must stay untouched.
	if _, ok := q.Filters["period"]; ok {
		t.Error("period leaked into the caller's filter map")
	}

	second := NewAggregationRequest(q, epiweek.Period{YearFrom: 2024, WeekFrom: 1, YearTo: 2024, WeekTo: 10})
	if req.Filters["period"] == second.Filters["period"] {
		t.Error("requests share a period value across filter maps")
	}
}
