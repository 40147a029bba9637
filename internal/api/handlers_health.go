// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package api

import (
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nmoralejo/vigia/internal/middleware"
	"github.com/nmoralejo/vigia/internal/models"
)

// HealthStatus is the data payload of GET /api/v1/health.
type HealthStatus struct {
	Status      string       `json:"status"`
	Version     string       `json:"version"`
	Uptime      string       `json:"uptime"`
	Aggregation string       `json:"aggregation"`
	Breaker     string       `json:"breaker,omitempty"`
	Cache       *CacheHealth `json:"cache,omitempty"`
}

// CacheHealth summarizes response cache efficiency.
type CacheHealth struct {
	Entries int64   `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Health handles GET /api/v1/health: overall service status with dependency
// detail. Returns 200 with status "degraded" when the aggregation service is
// unreachable; the process itself is still healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := &HealthStatus{
		Status:      "ok",
		Version:     Version,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Aggregation: "unknown",
	}

	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Aggregation = "unreachable"
		} else {
			status.Aggregation = "ok"
		}
	}

	if h.breaker != nil {
		status.Breaker = breakerStateString(h.breaker.State())
		if h.breaker.State() == gobreaker.StateOpen {
			status.Status = "degraded"
		}
	}

	if h.cache != nil {
		stats := h.cache.GetStats()
		status.Cache = &CacheHealth{
			Entries: stats.TotalKeys,
			Hits:    stats.Hits,
			Misses:  stats.Misses,
			HitRate: h.cache.HitRate(),
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// HealthLive handles GET /api/v1/health/live: process liveness only, no
// dependency checks. Used by orchestrators to decide on restarts.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "alive"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles GET /api/v1/health/ready: 200 only when the
// aggregation service answers, 503 otherwise. Load balancers drain traffic
// from instances that report not ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			respondError(w, r, http.StatusServiceUnavailable, "NOT_READY",
				"Aggregation service is unreachable", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "ready"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

func breakerStateString(state gobreaker.State) string {
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
