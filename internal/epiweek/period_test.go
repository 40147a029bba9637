// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package epiweek

import "testing"

func TestWeekSpanSingleYear(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   int
	}{
		{"one week", Period{2025, 10, 2025, 10}, 1},
		{"first ten weeks", Period{2025, 1, 2025, 10}, 10},
		{"full year", Period{2025, 1, 2025, 52}, 52},
		{"mid-year window", Period{2024, 20, 2024, 33}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekSpan(tt.period); got != tt.want {
				t.Errorf("WeekSpan(%v) = %d, want %d", tt.period, got, tt.want)
			}
		})
	}
}

func TestWeekSpanCrossYear(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   int
	}{
		// (52-50+1) + 2 = 5
		{"single boundary", Period{2024, 50, 2025, 2}, 5},
		// (52-52+1) + 1 = 2
		{"last week into first", Period{2024, 52, 2025, 1}, 2},
		// (52-50+1) + 52 + 2 = 57
		{"full year in between", Period{2023, 50, 2025, 2}, 57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekSpan(tt.period); got != tt.want {
				t.Errorf("WeekSpan(%v) = %d, want %d", tt.period, got, tt.want)
			}
		})
	}
}

func TestShiftBackward(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		week     int
		byWeeks  int
		wantYear int
		wantWeek int
	}{
		{"no shift", 2025, 10, 0, 2025, 10},
		{"within year", 2025, 10, 5, 2025, 5},
		{"rollover", 2025, 3, 5, 2024, 50},
		{"from week one", 2025, 1, 1, 2024, 52},
		{"exactly one year", 2025, 10, 52, 2024, 10},
		{"multiple years", 2025, 2, 105, 2023, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotYear, gotWeek := ShiftBackward(tt.year, tt.week, tt.byWeeks)
			if gotYear != tt.wantYear || gotWeek != tt.wantWeek {
				t.Errorf("ShiftBackward(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.year, tt.week, tt.byWeeks, gotYear, gotWeek, tt.wantYear, tt.wantWeek)
			}
		})
	}
}

func TestPeriodValidate(t *testing.T) {
	tests := []struct {
		name    string
		period  Period
		wantErr bool
	}{
		{"valid single year", Period{2025, 1, 2025, 10}, false},
		{"valid cross year", Period{2024, 50, 2025, 2}, false},
		{"valid week 53", Period{2020, 53, 2020, 53}, false},
		{"week_from zero", Period{2025, 0, 2025, 10}, true},
		{"week_from negative", Period{2025, -1, 2025, 10}, true},
		{"week_to too large", Period{2025, 1, 2025, 54}, true},
		{"year_to before year_from", Period{2025, 1, 2024, 10}, true},
		{"week_to before week_from same year", Period{2025, 10, 2025, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.period.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.period, err, tt.wantErr)
			}
		})
	}
}

func TestPeriodString(t *testing.T) {
	p := Period{2024, 43, 2024, 52}
	if got := p.String(); got != "SE43/2024-SE52/2024" {
		t.Errorf("String() = %q, want SE43/2024-SE52/2024", got)
	}
}
