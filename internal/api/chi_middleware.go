// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/nmoralejo/vigia/internal/config"
)

// ChiMiddleware provides Chi-compatible middleware factories built from
// deployment configuration.
type ChiMiddleware struct {
	corsOrigins []string
	compareRPM  int
	healthRPM   int
	cors        func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory for the given config.
func NewChiMiddleware(cfg *config.Config) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &ChiMiddleware{
		corsOrigins: cfg.Server.CORSOrigins,
		compareRPM:  cfg.RateLimit.CompareRPM,
		healthRPM:   cfg.RateLimit.HealthRPM,
		cors:        corsHandler,
	}
}

// CORS returns the CORS middleware. Global so OPTIONS preflight requests are
// answered on every route.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitCompare limits comparison requests per client IP. Zero or
// negative configuration disables the limiter.
func (m *ChiMiddleware) RateLimitCompare() func(http.Handler) http.Handler {
	return limitByIP(m.compareRPM)
}

// RateLimitHealth is permissive limiting for health endpoints, tolerating
// aggressive monitoring intervals while still capping abuse.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return limitByIP(m.healthRPM)
}

func limitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.LimitByRealIP(requestsPerMinute, time.Minute)
}

// APISecurityHeaders adds standard security headers to API responses. CSP is
// omitted: these endpoints never serve HTML.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
