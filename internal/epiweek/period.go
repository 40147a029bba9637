// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package epiweek implements arithmetic over epidemiological reporting weeks.
//
// An epidemiological week (SE, "semana epidemiológica") is a weekly reporting
// bucket numbered 1..52 within a surveillance year. All arithmetic in this
// package assumes a fixed 52-week year. Real ISO 8601 week numbering has
// occasional 53-week years; the aggregation backend uses the same fixed-52
// model, so this package deliberately does not correct for it. Callers that
// need true ISO semantics must not use this package.
package epiweek

import (
	"fmt"
)

// WeeksPerYear is the fixed number of epidemiological weeks per year.
const WeeksPerYear = 52

// Period is an inclusive span of epidemiological weeks, possibly crossing
// year boundaries. It is a value type; functions return new Periods rather
// than mutating.
type Period struct {
	YearFrom int `json:"year_from" koanf:"year_from" validate:"required,min=1900,max=2200"`
	WeekFrom int `json:"week_from" koanf:"week_from" validate:"required,min=1,max=53"`
	YearTo   int `json:"year_to" koanf:"year_to" validate:"required,min=1900,max=2200"`
	WeekTo   int `json:"week_to" koanf:"week_to" validate:"required,min=1,max=53"`
}

// NewPeriod builds a validated Period.
func NewPeriod(yearFrom, weekFrom, yearTo, weekTo int) (Period, error) {
	p := Period{YearFrom: yearFrom, WeekFrom: weekFrom, YearTo: yearTo, WeekTo: weekTo}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate rejects malformed periods. The pure arithmetic functions in this
// package stay total and do not re-check; validation belongs at the edge
// (HTTP layer, config loading).
func (p Period) Validate() error {
	if p.WeekFrom < 1 || p.WeekFrom > 53 {
		return fmt.Errorf("week_from %d out of range 1..53", p.WeekFrom)
	}
	if p.WeekTo < 1 || p.WeekTo > 53 {
		return fmt.Errorf("week_to %d out of range 1..53", p.WeekTo)
	}
	if p.YearTo < p.YearFrom {
		return fmt.Errorf("year_to %d before year_from %d", p.YearTo, p.YearFrom)
	}
	if p.YearFrom == p.YearTo && p.WeekTo < p.WeekFrom {
		return fmt.Errorf("week_to %d before week_from %d within year %d", p.WeekTo, p.WeekFrom, p.YearFrom)
	}
	return nil
}

// String renders the period in the SE notation used across the dashboard,
// e.g. "SE10/2024-SE2/2025".
func (p Period) String() string {
	return fmt.Sprintf("SE%d/%d-SE%d/%d", p.WeekFrom, p.YearFrom, p.WeekTo, p.YearTo)
}

// WeekSpan returns the inclusive number of weeks covered by p.
//
// For a single-year period this is week_to - week_from + 1. Across years it
// is the remaining weeks of the start year, plus 52 for each full year in
// between, plus the weeks elapsed in the end year.
func WeekSpan(p Period) int {
	if p.YearFrom == p.YearTo {
		return p.WeekTo - p.WeekFrom + 1
	}
	return (WeeksPerYear - p.WeekFrom + 1) + WeeksPerYear*(p.YearTo-p.YearFrom-1) + p.WeekTo
}

// ShiftBackward moves (year, week) back by byWeeks, rolling over year
// boundaries under the fixed 52-week model. Terminates for any non-negative
// byWeeks and any starting week.
func ShiftBackward(year, week, byWeeks int) (int, int) {
	week -= byWeeks
	for week < 1 {
		week += WeeksPerYear
		year--
	}
	return year, week
}
