// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package epiweek

import "time"

// Clock supplies the current epidemiological year and week. The core never
// reads ambient system time directly; callers inject a Clock at construction
// so derivations stay deterministic and testable.
type Clock interface {
	Now() (year, week int)
}

// SystemClock derives the current epi week from wall-clock time using ISO
// week numbering, clamped to 52 so it stays inside the fixed-52 model.
type SystemClock struct{}

// Now returns the ISO year and week of the current instant, week clamped
// to WeeksPerYear.
func (SystemClock) Now() (int, int) {
	year, week := time.Now().ISOWeek()
	if week > WeeksPerYear {
		week = WeeksPerYear
	}
	return year, week
}

// FixedClock always reports the same year and week. Used in tests and for
// replaying historical dashboards.
type FixedClock struct {
	Year int
	Week int
}

// Now returns the fixed year and week.
func (c FixedClock) Now() (int, int) { return c.Year, c.Week }

// CurrentPeriod seeds a default dashboard period from the injected clock:
// the trailing window of `weeks` epi weeks ending at the clock's current
// week. A weeks value below 1 is treated as 1.
func CurrentPeriod(clock Clock, weeks int) Period {
	if weeks < 1 {
		weeks = 1
	}
	year, week := clock.Now()
	startYear, startWeek := ShiftBackward(year, week, weeks-1)
	return Period{
		YearFrom: startYear,
		WeekFrom: startWeek,
		YearTo:   year,
		WeekTo:   week,
	}
}
