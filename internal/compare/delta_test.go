// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package compare

import (
	"math"
	"testing"
)

func TestCalculateDelta(t *testing.T) {
	tests := []struct {
		name           string
		current        float64
		previous       float64
		wantDifference float64
		wantPercentage *float64
		wantTrend      Trend
	}{
		{"increase", 110, 100, 10, ptr(10.0), TrendUp},
		{"decrease", 97, 100, -3, ptr(-3.0), TrendDown},
		{"stable", 100, 100, 0, ptr(0.0), TrendStable},
		{"zero baseline", 50, 0, 50, nil, TrendUp},
		{"zero baseline decrease", -5, 0, -5, nil, TrendDown},
		{"both zero", 0, 0, 0, nil, TrendStable},
		{"end-to-end case", 40, 32, 8, ptr(25.0), TrendUp},
		{"rounding to one decimal", 100, 3, 97, ptr(3233.3), TrendUp},
		{"negative previous", 50, -100, 150, ptr(-150.0), TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDelta(tt.current, tt.previous)

			if got.Difference != tt.wantDifference {
				t.Errorf("Difference = %v, want %v", got.Difference, tt.wantDifference)
			}
			if got.Trend != tt.wantTrend {
				t.Errorf("Trend = %q, want %q", got.Trend, tt.wantTrend)
			}
			switch {
			case tt.wantPercentage == nil && got.Percentage != nil:
				t.Errorf("Percentage = %v, want nil", *got.Percentage)
			case tt.wantPercentage != nil && got.Percentage == nil:
				t.Errorf("Percentage = nil, want %v", *tt.wantPercentage)
			case tt.wantPercentage != nil && got.Percentage != nil:
				if math.Abs(*got.Percentage-*tt.wantPercentage) > 1e-9 {
					t.Errorf("Percentage = %v, want %v", *got.Percentage, *tt.wantPercentage)
				}
			}
		})
	}
}

// Percentage must never leak Inf or NaN, whatever the inputs.
func TestCalculateDeltaNeverNonFinite(t *testing.T) {
	inputs := []struct{ current, previous float64 }{
		{0, 0}, {1e308, 1}, {-1e308, 1}, {1, 1e-308}, {42, 0},
	}
	for _, in := range inputs {
		got := CalculateDelta(in.current, in.previous)
		if got.Percentage != nil && (math.IsInf(*got.Percentage, 0) || math.IsNaN(*got.Percentage)) {
			t.Errorf("CalculateDelta(%v, %v) produced non-finite percentage %v",
				in.current, in.previous, *got.Percentage)
		}
	}
}

// Stable trend holds for any equal pair.
func TestCalculateDeltaStable(t *testing.T) {
	for _, x := range []float64{1, 7.5, 1000, -3} {
		got := CalculateDelta(x, x)
		if got.Difference != 0 || got.Trend != TrendStable {
			t.Errorf("CalculateDelta(%v, %v) = %+v, want zero difference and stable trend", x, x, got)
		}
		if got.Percentage == nil || *got.Percentage != 0 {
			t.Errorf("CalculateDelta(%v, %v) percentage = %v, want 0", x, x, got.Percentage)
		}
	}
}

func ptr(f float64) *float64 { return &f }
