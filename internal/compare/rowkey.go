// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package compare implements the value-level pieces of period comparison:
// canonical row keys for matching rows across two result sets, and delta
// computation between a current and a previous measure value.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nmoralejo/vigia/internal/models"
)

// KeySeparator joins the sorted field:value pairs of a row key.
const KeySeparator = "|"

// KeyBuilder produces canonical, order-independent row keys. The measure
// field and the two period-identifying fields are always excluded: they are
// never part of a dimensional slice's identity, and the period fields differ
// by construction between the current and previous result sets.
type KeyBuilder struct {
	exclude map[string]struct{}
}

// NewKeyBuilder builds a KeyBuilder excluding the given measure and period
// fields plus any extra caller-supplied field names.
func NewKeyBuilder(measureField, yearField, weekField string, extra ...string) KeyBuilder {
	exclude := make(map[string]struct{}, 3+len(extra))
	exclude[measureField] = struct{}{}
	exclude[yearField] = struct{}{}
	exclude[weekField] = struct{}{}
	for _, f := range extra {
		exclude[f] = struct{}{}
	}
	return KeyBuilder{exclude: exclude}
}

// KeyBuilderForQuery derives the exclusion set from a query's effective
// field names.
func KeyBuilderForQuery(q models.MetricQuery, extra ...string) KeyBuilder {
	yearField, weekField := q.PeriodFields()
	return NewKeyBuilder(q.EffectiveMeasureField(), yearField, weekField, extra...)
}

// Key computes the canonical key for a row: every non-excluded, non-nil
// field is emitted as "field:value", the pairs are sorted lexicographically
// and joined with KeySeparator. Two rows carrying the same non-excluded
// field/value pairs produce identical keys regardless of map iteration
// order or extra excluded fields being present.
func (kb KeyBuilder) Key(row models.MetricRow) string {
	pairs := make([]string, 0, len(row))
	for field, value := range row {
		if _, skip := kb.exclude[field]; skip {
			continue
		}
		if value == nil {
			continue
		}
		pairs = append(pairs, field+":"+formatKeyValue(value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, KeySeparator)
}

// formatKeyValue renders a scalar the same way regardless of whether it
// arrived as an int from a fixture or a float64 from JSON decoding.
func formatKeyValue(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%v", n)
	case float32:
		return formatKeyValue(float64(n))
	default:
		return fmt.Sprintf("%v", v)
	}
}
