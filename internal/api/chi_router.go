// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nmoralejo/vigia/internal/middleware"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a Router for the given handler set.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, mw: mw}
}

// Setup builds the full routing tree:
//
//	POST /api/v1/compare          dual-period comparison
//	GET  /api/v1/compare/periods  comparison period derivation
//	GET  /api/v1/health           dependency-aware status
//	GET  /api/v1/health/live      liveness probe
//	GET  /api/v1/health/ready     readiness probe
//	GET  /metrics                 Prometheus scrape target
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/compare", func(r chi.Router) {
		r.Use(router.mw.RateLimitCompare())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Post("/", router.handler.Compare)
		r.Get("/periods", router.handler.ComparePeriods)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
