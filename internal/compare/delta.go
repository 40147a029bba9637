// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package compare

import "math"

// Trend classifies the direction of change between two periods.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Delta is the change between a current and a previous measure value.
// Percentage is nil when the previous value is zero: percentage change from
// a zero baseline is undefined and must never surface as Inf or NaN.
type Delta struct {
	Difference float64  `json:"difference"`
	Percentage *float64 `json:"percentage"`
	Trend      Trend    `json:"trend"`
}

// CalculateDelta computes the delta between two measure values. Pure and
// total over all finite inputs. Percentage is rounded to one decimal place.
func CalculateDelta(current, previous float64) Delta {
	difference := current - previous

	var percentage *float64
	if previous != 0 {
		p := math.Round((difference/previous)*1000) / 10
		percentage = &p
	}

	trend := TrendStable
	switch {
	case difference > 0:
		trend = TrendUp
	case difference < 0:
		trend = TrendDown
	}

	return Delta{
		Difference: difference,
		Percentage: percentage,
		Trend:      trend,
	}
}
