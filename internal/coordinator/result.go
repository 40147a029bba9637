// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package coordinator

import (
	"github.com/nmoralejo/vigia/internal/compare"
	"github.com/nmoralejo/vigia/internal/epiweek"
	"github.com/nmoralejo/vigia/internal/models"
)

// Result is the merged outcome of one comparison. It is created fresh per
// Compare invocation and holds no live state once returned.
//
// Current is never nil: an unloaded or failed current fetch leaves an empty
// slice. Previous is nil when comparison is disabled or the previous fetch
// failed; callers distinguish the two via PreviousErr.
type Result struct {
	Query models.MetricQuery

	CurrentPeriod  epiweek.Period
	PreviousPeriod *epiweek.Period

	Current  []models.MetricRow
	Previous []models.MetricRow

	CurrentErr  error
	PreviousErr error

	CurrentCached  bool
	PreviousCached bool

	keys   compare.KeyBuilder
	lookup map[string]float64
}

// buildLookup indexes the previous rows by canonical key. Rebuilt from
// scratch whenever Previous is assigned, so lookups can never hit a stale
// dataset.
func (r *Result) buildLookup() {
	measureField := r.Query.EffectiveMeasureField()
	r.lookup = make(map[string]float64, len(r.Previous))
	for _, row := range r.Previous {
		value, ok := row.Measure(measureField)
		if !ok {
			continue
		}
		r.lookup[r.keys.Key(row)] = value
	}
}

// GetPreviousValue looks up the previous-period measure for the dimensional
// slice described by descriptor. The descriptor is treated like a row: the
// same exclusion rules apply, so it may carry measure or period fields
// without affecting the match. Returns nil when comparison is disabled,
// the previous set has not resolved, or no row matches.
func (r *Result) GetPreviousValue(descriptor models.MetricRow) *float64 {
	if r.Previous == nil || r.lookup == nil {
		return nil
	}
	value, ok := r.lookup[r.keys.Key(descriptor)]
	if !ok {
		return nil
	}
	return &value
}

// Delta computes the change between two measure values. Exposed on Result
// so callers render deltas without importing the compare package.
func (r *Result) Delta(current, previous float64) compare.Delta {
	return compare.CalculateDelta(current, previous)
}

// PartialFailure reports whether exactly one of the two fetches failed
// while the other produced usable data.
func (r *Result) PartialFailure() bool {
	if r.PreviousPeriod == nil {
		return false
	}
	return (r.CurrentErr == nil) != (r.PreviousErr == nil)
}

// Failed reports whether nothing usable was fetched.
func (r *Result) Failed() bool {
	if r.PreviousPeriod == nil {
		return r.CurrentErr != nil
	}
	return r.CurrentErr != nil && r.PreviousErr != nil
}

// ComparisonRow is one joined row of the comparison: the current row's
// dimensional slice with its previous value and delta attached.
type ComparisonRow struct {
	Key        string         `json:"key"`
	Dimensions map[string]any `json:"dimensions"`
	Current    float64        `json:"current"`
	Previous   *float64       `json:"previous,omitempty"`
	Delta      *compare.Delta `json:"delta,omitempty"`
}

// Totals aggregates the measure across all rows of both periods.
type Totals struct {
	Current  float64        `json:"current"`
	Previous *float64       `json:"previous,omitempty"`
	Delta    *compare.Delta `json:"delta,omitempty"`
}

// Rows joins every current row against its previous counterpart. Rows with
// no previous match carry a nil Previous and nil Delta, which the dashboard
// renders as "no comparison available".
func (r *Result) Rows() []ComparisonRow {
	measureField := r.Query.EffectiveMeasureField()
	yearField, weekField := r.Query.PeriodFields()

	rows := make([]ComparisonRow, 0, len(r.Current))
	for _, row := range r.Current {
		value, ok := row.Measure(measureField)
		if !ok {
			continue
		}

		dims := make(map[string]any, len(row))
		for field, v := range row {
			if field == measureField || field == yearField || field == weekField || v == nil {
				continue
			}
			dims[field] = v
		}

		out := ComparisonRow{
			Key:        r.keys.Key(row),
			Dimensions: dims,
			Current:    value,
		}
		if previous := r.GetPreviousValue(row); previous != nil {
			out.Previous = previous
			delta := compare.CalculateDelta(value, *previous)
			out.Delta = &delta
		}
		rows = append(rows, out)
	}
	return rows
}

// SumTotals sums the measure over both periods and attaches the aggregate
// delta. The previous total is nil unless the previous set resolved.
func (r *Result) SumTotals() Totals {
	measureField := r.Query.EffectiveMeasureField()

	var current float64
	for _, row := range r.Current {
		if v, ok := row.Measure(measureField); ok {
			current += v
		}
	}
	totals := Totals{Current: current}

	if r.Previous == nil {
		return totals
	}
	var previous float64
	for _, row := range r.Previous {
		if v, ok := row.Measure(measureField); ok {
			previous += v
		}
	}
	totals.Previous = &previous
	delta := compare.CalculateDelta(current, previous)
	totals.Delta = &delta
	return totals
}
