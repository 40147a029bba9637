// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package api provides the HTTP surface of the comparison service: the
// compare endpoints, health probes and the Prometheus scrape target,
// routed through Chi.
package api

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nmoralejo/vigia/internal/cache"
	"github.com/nmoralejo/vigia/internal/config"
	"github.com/nmoralejo/vigia/internal/coordinator"
	"github.com/nmoralejo/vigia/internal/epiweek"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Pinger checks reachability of the aggregation service. Satisfied by
// *aggregation.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater exposes circuit breaker state for the health endpoint.
// Satisfied by *aggregation.BreakerClient.
type BreakerStater interface {
	State() gobreaker.State
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg         *config.Config
	coordinator *coordinator.Coordinator
	cache       cache.Cacher
	pinger      Pinger
	breaker     BreakerStater
	clock       epiweek.Clock
	startTime   time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithCacheStats exposes cache statistics on the health endpoint.
func WithCacheStats(c cache.Cacher) HandlerOption {
	return func(h *Handler) { h.cache = c }
}

// WithPinger wires the readiness probe to the aggregation service.
func WithPinger(p Pinger) HandlerOption {
	return func(h *Handler) { h.pinger = p }
}

// WithBreaker exposes circuit breaker state on the health endpoint.
func WithBreaker(b BreakerStater) HandlerOption {
	return func(h *Handler) { h.breaker = b }
}

// WithClock replaces the ambient clock. Tests pin it to a fixed week.
func WithClock(c epiweek.Clock) HandlerOption {
	return func(h *Handler) { h.clock = c }
}

// NewHandler creates the handler set for the comparison API.
func NewHandler(cfg *config.Config, co *coordinator.Coordinator, opts ...HandlerOption) *Handler {
	h := &Handler{
		cfg:         cfg,
		coordinator: co,
		clock:       epiweek.SystemClock{},
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
