// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package epiweek

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"none", ModeNone, false},
		{"", ModeNone, false},
		{"year_over_year", ModeYearOverYear, false},
		{"previous_period", ModePreviousPeriod, false},
		{"YEAR_OVER_YEAR", ModeNone, true},
		{"monthly", ModeNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveComparisonNone(t *testing.T) {
	if _, ok := DeriveComparison(Period{2025, 1, 2025, 10}, ModeNone); ok {
		t.Error("ModeNone should not derive a comparison period")
	}
}

func TestDeriveComparisonYearOverYear(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   Period
	}{
		{"single year", Period{2025, 1, 2025, 10}, Period{2024, 1, 2024, 10}},
		{"cross year", Period{2024, 50, 2025, 2}, Period{2023, 50, 2024, 2}},
		// Week 52 is preserved, never clamped against 53-week ISO years.
		{"week 52 preserved", Period{2021, 52, 2021, 52}, Period{2020, 52, 2020, 52}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveComparison(tt.period, ModeYearOverYear)
			if !ok {
				t.Fatal("expected a derived period")
			}
			if got != tt.want {
				t.Errorf("DeriveComparison(%v) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

// Year-over-year must be reversible: shifting the derived period's years
// forward by one recovers the primary period exactly.
func TestDeriveComparisonYoYSymmetry(t *testing.T) {
	periods := []Period{
		{2025, 1, 2025, 10},
		{2024, 50, 2025, 2},
		{2023, 1, 2025, 52},
	}

	for _, p := range periods {
		got, ok := DeriveComparison(p, ModeYearOverYear)
		if !ok {
			t.Fatalf("expected a derived period for %v", p)
		}
		restored := Period{got.YearFrom + 1, got.WeekFrom, got.YearTo + 1, got.WeekTo}
		if restored != p {
			t.Errorf("YoY round-trip: got %v, want %v", restored, p)
		}
	}
}

func TestDeriveComparisonPreviousPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   Period
	}{
		// The canonical dashboard case: SE1-SE10/2025 compares against the
		// ten weeks immediately preceding, SE43-SE52/2024.
		{"start of year", Period{2025, 1, 2025, 10}, Period{2024, 43, 2024, 52}},
		{"mid year", Period{2025, 20, 2025, 29}, Period{2025, 10, 2025, 19}},
		{"single week", Period{2025, 1, 2025, 1}, Period{2024, 52, 2024, 52}},
		{"cross year primary", Period{2024, 50, 2025, 2}, Period{2024, 45, 2024, 49}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveComparison(tt.period, ModePreviousPeriod)
			if !ok {
				t.Fatal("expected a derived period")
			}
			if got != tt.want {
				t.Errorf("DeriveComparison(%v) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

// The previous period must preserve length and sit immediately before the
// primary period: no gap, no overlap.
func TestDeriveComparisonPreviousPeriodInvariants(t *testing.T) {
	periods := []Period{
		{2025, 1, 2025, 10},
		{2025, 1, 2025, 1},
		{2024, 50, 2025, 2},
		{2023, 10, 2025, 40},
		{2025, 52, 2025, 52},
	}

	for _, p := range periods {
		prev, ok := DeriveComparison(p, ModePreviousPeriod)
		if !ok {
			t.Fatalf("expected a derived period for %v", p)
		}

		if got, want := WeekSpan(prev), WeekSpan(p); got != want {
			t.Errorf("length not preserved for %v: got %d, want %d", p, got, want)
		}

		wantEndYear, wantEndWeek := ShiftBackward(p.YearFrom, p.WeekFrom, 1)
		if prev.YearTo != wantEndYear || prev.WeekTo != wantEndWeek {
			t.Errorf("adjacency broken for %v: previous ends (%d, %d), want (%d, %d)",
				p, prev.YearTo, prev.WeekTo, wantEndYear, wantEndWeek)
		}

		if err := prev.Validate(); err != nil {
			t.Errorf("derived period %v invalid: %v", prev, err)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	clock := FixedClock{Year: 2025, Week: 10}

	got := CurrentPeriod(clock, 10)
	want := Period{2025, 1, 2025, 10}
	if got != want {
		t.Errorf("CurrentPeriod = %v, want %v", got, want)
	}

	// Trailing window crossing a year boundary.
	got = CurrentPeriod(FixedClock{Year: 2025, Week: 2}, 5)
	want = Period{2024, 50, 2025, 2}
	if got != want {
		t.Errorf("CurrentPeriod = %v, want %v", got, want)
	}

	// Degenerate width clamps to a single week.
	got = CurrentPeriod(clock, 0)
	want = Period{2025, 10, 2025, 10}
	if got != want {
		t.Errorf("CurrentPeriod = %v, want %v", got, want)
	}
}
