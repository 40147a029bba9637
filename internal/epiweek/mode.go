// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package epiweek

import "fmt"

// Mode selects how a comparison period is derived from the primary period.
type Mode string

const (
	// ModeNone disables comparison entirely.
	ModeNone Mode = "none"

	// ModeYearOverYear aligns the same week range in the prior year.
	ModeYearOverYear Mode = "year_over_year"

	// ModePreviousPeriod uses the immediately preceding span of equal length.
	ModePreviousPeriod Mode = "previous_period"
)

// ParseMode converts a wire string into a Mode. The empty string maps to
// ModeNone so that callers omitting the field get no comparison.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNone, "":
		return ModeNone, nil
	case ModeYearOverYear:
		return ModeYearOverYear, nil
	case ModePreviousPeriod:
		return ModePreviousPeriod, nil
	default:
		return ModeNone, fmt.Errorf("unknown comparison mode %q", s)
	}
}

// DeriveComparison computes the comparison period for p under mode. The
// boolean is false when mode is ModeNone (no comparison period exists).
//
// Year-over-year preserves week numbers and shifts both years back by one.
// Weeks are not clamped: a week 52 stays week 52 even if the prior ISO year
// had 53 weeks, keeping the derivation consistent with the fixed-52 model.
//
// Previous-period produces a span of identical length ending exactly one
// week before p starts, non-overlapping by construction.
func DeriveComparison(p Period, mode Mode) (Period, bool) {
	switch mode {
	case ModeYearOverYear:
		return Period{
			YearFrom: p.YearFrom - 1,
			WeekFrom: p.WeekFrom,
			YearTo:   p.YearTo - 1,
			WeekTo:   p.WeekTo,
		}, true
	case ModePreviousPeriod:
		duration := WeekSpan(p)
		endYear, endWeek := ShiftBackward(p.YearFrom, p.WeekFrom, 1)
		startYear, startWeek := ShiftBackward(p.YearFrom, p.WeekFrom, duration)
		return Period{
			YearFrom: startYear,
			WeekFrom: startWeek,
			YearTo:   endYear,
			WeekTo:   endWeek,
		}, true
	default:
		return Period{}, false
	}
}
