// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package main is the entry point for the Vigia server.
//
// Vigia sits between surveillance dashboards and a remote aggregation
// service. It turns one comparison request into two concurrent aggregation
// queries (the selected period and a derived comparison period), joins the
// row sets by dimensional key and computes week-over-week deltas.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layering of defaults, YAML file and env vars
//  2. Logging: zerolog, JSON or console format
//  3. Aggregation client: rate-limited HTTP client, optional circuit breaker
//  4. Response cache: TTL cache keyed by the canonical query tuple
//  5. Coordinator: dual-period fetch and join
//  6. HTTP server and cache janitor under a suture supervision tree
//
// # Configuration
//
// The only required setting is the aggregation service URL:
//
//	export AGGREGATION_URL=http://aggregator:9000
//	export AGGREGATION_API_KEY=secret
//	./vigia
//
// See config.example.yaml for the full surface.
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops accepting
// connections and in-flight requests get the configured shutdown timeout to
// finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmoralejo/vigia/internal/aggregation"
	"github.com/nmoralejo/vigia/internal/api"
	"github.com/nmoralejo/vigia/internal/cache"
	"github.com/nmoralejo/vigia/internal/config"
	"github.com/nmoralejo/vigia/internal/coordinator"
	"github.com/nmoralejo/vigia/internal/logging"
	"github.com/nmoralejo/vigia/internal/supervisor"
	"github.com/nmoralejo/vigia/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("aggregation_url", cfg.Aggregation.URL).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Bool("breaker_enabled", cfg.Aggregation.BreakerEnabled).
		Msg("Starting Vigia")

	// Aggregation client, optionally wrapped in a circuit breaker.
	client := aggregation.NewClient(&cfg.Aggregation)
	var querier aggregation.Querier = client
	var breaker *aggregation.BreakerClient
	if cfg.Aggregation.BreakerEnabled {
		breaker = aggregation.NewBreakerClient(client)
		querier = breaker
		logging.Info().Msg("Aggregation circuit breaker enabled")
	}

	// Response cache and the coordinator on top of it.
	var coOpts []coordinator.Option
	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.New(cfg.Cache.TTL)
		coOpts = append(coOpts, coordinator.WithCache(responseCache, cfg.Cache.TTL))
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Response cache enabled")
	}
	co := coordinator.New(querier, coOpts...)

	handlerOpts := []api.HandlerOption{api.WithPinger(client)}
	if breaker != nil {
		handlerOpts = append(handlerOpts, api.WithBreaker(breaker))
	}
	if responseCache != nil {
		handlerOpts = append(handlerOpts, api.WithCacheStats(responseCache))
	}
	handler := api.NewHandler(cfg, co, handlerOpts...)
	router := api.NewRouter(handler, api.NewChiMiddleware(cfg))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision tree: HTTP server in the API layer, cache janitor in the
	// maintenance layer.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if responseCache != nil {
		tree.AddMaintenanceService(services.NewJanitorService(responseCache, cfg.Cache.CleanupInterval))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Vigia stopped gracefully")
}
