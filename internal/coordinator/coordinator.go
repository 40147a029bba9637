// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package coordinator issues the current- and previous-period aggregation
// queries for one comparison and merges the two result sets.
//
// The two fetches are independent: they run concurrently and each carries
// its own error, so a failed previous-period fetch never blocks current
// data from reaching the dashboard. Each Compare invocation owns its
// Result; superseded requests are abandoned through context cancellation
// and can never overwrite a newer invocation's state.
package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/nmoralejo/vigia/internal/aggregation"
	"github.com/nmoralejo/vigia/internal/cache"
	"github.com/nmoralejo/vigia/internal/compare"
	"github.com/nmoralejo/vigia/internal/epiweek"
	"github.com/nmoralejo/vigia/internal/logging"
	"github.com/nmoralejo/vigia/internal/metrics"
	"github.com/nmoralejo/vigia/internal/models"
)

// Coordinator fetches row sets for both periods of a comparison. It holds
// no per-request state; one instance serves all requests.
type Coordinator struct {
	querier  aggregation.Querier
	cache    cache.Cacher
	cacheTTL time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCache attaches the response cache used to deduplicate identical
// query tuples. Without it every fetch hits the aggregation service.
func WithCache(c cache.Cacher, ttl time.Duration) Option {
	return func(co *Coordinator) {
		co.cache = c
		co.cacheTTL = ttl
	}
}

// New creates a Coordinator backed by the given querier.
func New(querier aggregation.Querier, opts ...Option) *Coordinator {
	co := &Coordinator{querier: querier}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// fetchOutcome is one period's fetch result.
type fetchOutcome struct {
	rows   []models.MetricRow
	cached bool
	err    error
}

// Compare resolves the comparison period for query and fetches both row
// sets. The returned Result is complete: both fetches have finished (or
// failed) when Compare returns. Cancel ctx to abandon in-flight fetches.
func (co *Coordinator) Compare(ctx context.Context, query models.MetricQuery) *Result {
	metrics.ComparisonRequests.WithLabelValues(string(query.Comparison)).Inc()

	result := &Result{
		Query:         query,
		CurrentPeriod: query.Period,
		Current:       []models.MetricRow{},
		keys:          compare.KeyBuilderForQuery(query),
	}

	prevPeriod, hasPrev := epiweek.DeriveComparison(query.Period, query.Comparison)
	if hasPrev {
		result.PreviousPeriod = &prevPeriod
	}

	currentCh := make(chan fetchOutcome, 1)
	go func() {
		currentCh <- co.fetchPeriod(ctx, query, query.Period, "current")
	}()

	// Mode none skips the previous fetch entirely; no query is issued.
	var previousCh chan fetchOutcome
	if hasPrev {
		previousCh = make(chan fetchOutcome, 1)
		go func() {
			previousCh <- co.fetchPeriod(ctx, query, prevPeriod, "previous")
		}()
	}

	current := <-currentCh
	result.CurrentErr = current.err
	result.CurrentCached = current.cached
	if current.err == nil {
		result.Current = current.rows
	}

	if hasPrev {
		previous := <-previousCh
		result.PreviousErr = previous.err
		result.PreviousCached = previous.cached
		if previous.err == nil {
			result.Previous = previous.rows
			result.buildLookup()
		}
	}

	if result.PartialFailure() {
		metrics.ComparisonPartialResults.Inc()
		logging.Ctx(ctx).Warn().
			Str("measure", query.Measure).
			AnErr("current_err", result.CurrentErr).
			AnErr("previous_err", result.PreviousErr).
			Msg("comparison resolved partially")
	}

	return result
}

// fetchPeriod retrieves one period's rows, consulting the cache under the
// canonical tuple key first.
func (co *Coordinator) fetchPeriod(ctx context.Context, query models.MetricQuery, period epiweek.Period, role string) fetchOutcome {
	key := query.CacheKey(period)

	if co.cache != nil {
		if cached, ok := co.cache.Get(key); ok {
			if rows, ok := cached.([]models.MetricRow); ok {
				metrics.CacheHits.Inc()
				return fetchOutcome{rows: rows, cached: true}
			}
		}
		metrics.CacheMisses.Inc()
	}

	start := time.Now()
	resp, err := co.querier.Query(ctx, models.NewAggregationRequest(query, period))
	metrics.RecordAggregationQuery(query.Measure, role, time.Since(start))
	if err != nil {
		metrics.RecordAggregationError(query.Measure, role, errorType(err))
		return fetchOutcome{err: err}
	}

	metrics.AggregationRowsReturned.WithLabelValues(query.Measure).Observe(float64(len(resp.Data)))

	if co.cache != nil {
		co.cache.SetWithTTL(key, resp.Data, co.cacheTTL)
	}
	return fetchOutcome{rows: resp.Data}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "query"
	}
}
