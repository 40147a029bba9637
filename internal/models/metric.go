// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package models defines the wire shapes shared between the HTTP API, the
// comparison coordinator and the remote aggregation service.
package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nmoralejo/vigia/internal/epiweek"
)

// Default field names used by the aggregation service. The measure value
// arrives under "valor"; the period-identifying fields are the reporting
// year and epidemiological week. All three are overridable per query.
const (
	DefaultMeasureField = "valor"
	DefaultYearField    = "anio"
	DefaultWeekField    = "semana_epidemiologica"
)

// MetricRow is one result row from the aggregation service: a flat mapping
// from field name to scalar (string, number or nil). One field holds the
// numeric measure; the rest are dimension values plus the period fields.
// Rows within a result are not guaranteed sorted.
type MetricRow map[string]any

// Measure reads the row's measure value under the given field name. The
// aggregation service emits JSON numbers, which decode as float64; integer
// values from canned fixtures are accepted too.
func (r MetricRow) Measure(field string) (float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// MetricQuery describes one logical comparison request. Two physical
// aggregation queries are built from it (current and previous) differing
// only in period.
type MetricQuery struct {
	Measure    string         `json:"measure" validate:"required"`
	Dimensions []string       `json:"dimensions" validate:"required,min=1,dive,required"`
	Period     epiweek.Period `json:"period" validate:"required"`
	Filters    map[string]any `json:"filters,omitempty"`
	Comparison epiweek.Mode   `json:"comparison,omitempty"`

	// Optional overrides for the aggregation service's field names. Empty
	// values fall back to the package defaults.
	MeasureField string `json:"measure_field,omitempty"`
	YearField    string `json:"year_field,omitempty"`
	WeekField    string `json:"week_field,omitempty"`
}

// EffectiveMeasureField returns the measure field name for this query.
func (q MetricQuery) EffectiveMeasureField() string {
	if q.MeasureField != "" {
		return q.MeasureField
	}
	return DefaultMeasureField
}

// PeriodFields returns the year and week field names for this query.
func (q MetricQuery) PeriodFields() (yearField, weekField string) {
	yearField, weekField = q.YearField, q.WeekField
	if yearField == "" {
		yearField = DefaultYearField
	}
	if weekField == "" {
		weekField = DefaultWeekField
	}
	return yearField, weekField
}

// CacheKey builds the canonical string for the full query tuple. Identical
// (measure, dimensions, period, filters, comparison) combinations map to the
// same key so the request cache can deduplicate concurrent fetches. The
// period argument is explicit because the current and previous fetches share
// everything but the period.
func (q MetricQuery) CacheKey(p epiweek.Period) string {
	var b strings.Builder
	b.WriteString("measure=")
	b.WriteString(q.Measure)
	b.WriteString(";dims=")
	b.WriteString(strings.Join(q.Dimensions, ","))
	b.WriteString(";period=")
	b.WriteString(p.String())
	b.WriteString(";mode=")
	b.WriteString(string(q.Comparison))

	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(";filters=")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s=%v", k, q.Filters[k])
		}
	}
	return b.String()
}

// AggregationRequest is the request body sent to the aggregation service.
// The period travels inside the filter map alongside the caller's other
// filters; the service treats it like any other filter dimension.
type AggregationRequest struct {
	Measure    string         `json:"measure"`
	Dimensions []string       `json:"dimensions"`
	Filters    map[string]any `json:"filters"`
}

// NewAggregationRequest builds the physical request for one period. Caller
// filters are copied so the two per-period requests never share the map.
func NewAggregationRequest(q MetricQuery, p epiweek.Period) AggregationRequest {
	filters := make(map[string]any, len(q.Filters)+1)
	for k, v := range q.Filters {
		if v != nil {
			filters[k] = v
		}
	}
	filters["period"] = p

	return AggregationRequest{
		Measure:    q.Measure,
		Dimensions: q.Dimensions,
		Filters:    filters,
	}
}

// AggregationMetadata describes an aggregation result set.
type AggregationMetadata struct {
	Measure    string   `json:"measure"`
	Dimensions []string `json:"dimensions"`
	TotalRows  int      `json:"total_rows"`
}

// AggregationResponse is the aggregation service's response envelope.
type AggregationResponse struct {
	Data     []MetricRow         `json:"data"`
	Metadata AggregationMetadata `json:"metadata"`
}
