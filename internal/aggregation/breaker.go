// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package aggregation

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nmoralejo/vigia/internal/logging"
	"github.com/nmoralejo/vigia/internal/metrics"
	"github.com/nmoralejo/vigia/internal/models"
)

// BreakerClient wraps a Querier with a circuit breaker so a degraded
// aggregation service fails fast instead of stacking up 30-second timeouts
// in dashboard requests.
//
// The breaker uses real time for its interval and timeout windows. Tests
// exercise the wrapped Querier directly or trip the breaker explicitly.
type BreakerClient struct {
	inner Querier
	cb    *gobreaker.CircuitBreaker[*models.AggregationResponse]
	name  string
}

// NewBreakerClient wraps inner with production breaker settings:
// opens at >= 60% failures over at least 10 requests, measured over a one
// minute window, with a two minute recovery timeout and 3 trial requests in
// half-open state.
func NewBreakerClient(inner Querier) *BreakerClient {
	const cbName = "aggregation-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*models.AggregationResponse](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("aggregation circuit breaker opening")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("aggregation circuit breaker state change")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			if to == gobreaker.StateOpen {
				metrics.CircuitBreakerTrips.WithLabelValues(name).Inc()
			}
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: cbName}
}

// Query forwards to the wrapped Querier under breaker protection. When the
// circuit is open the call fails immediately with gobreaker.ErrOpenState.
func (b *BreakerClient) Query(ctx context.Context, req models.AggregationRequest) (*models.AggregationResponse, error) {
	return b.cb.Execute(func() (*models.AggregationResponse, error) {
		return b.inner.Query(ctx, req)
	})
}

// State reports the current breaker state for health endpoints.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
