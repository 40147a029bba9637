// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package aggregation is the client for the remote analytics aggregation
// service. The service owns all case storage, classification and
// aggregation; this client only issues the query contract:
//
//	POST /api/v1/query
//	{"measure": ..., "dimensions": [...], "filters": {"period": {...}, ...}}
//	-> {"data": [...], "metadata": {...}}
//
// Retries are deliberately absent: the comparison core reports failures per
// period and leaves retry policy to callers. The circuit breaker in
// breaker.go is failure isolation, not retry.
package aggregation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/nmoralejo/vigia/internal/config"
	"github.com/nmoralejo/vigia/internal/models"
)

// queryPath is the aggregation service's query endpoint.
const queryPath = "/api/v1/query"

// apiKeyHeader carries the service credential.
const apiKeyHeader = "X-Api-Key"

// ErrRateLimited is returned when the client-side limiter cannot admit the
// request within the context deadline.
var ErrRateLimited = errors.New("aggregation client rate limit exceeded")

// Querier is the outbound query contract the coordinator depends on.
// Satisfied by *Client and *BreakerClient.
type Querier interface {
	Query(ctx context.Context, req models.AggregationRequest) (*models.AggregationResponse, error)
}

// Client is a plain HTTP client for the aggregation service with a
// client-side rate limiter. Wrap it in a BreakerClient for production use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client from configuration. The limiter smooths bursts
// of dashboard traffic so the aggregation service is never hammered by one
// instance.
func NewClient(cfg *config.AggregationConfig) *Client {
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Query issues one aggregation query. Non-2xx responses become errors with
// a body excerpt; the caller decides what a failure means for its period.
func (c *Client) Query(ctx context.Context, req models.AggregationRequest) (*models.AggregationResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode aggregation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("aggregation query failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		excerpt, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return nil, fmt.Errorf("aggregation query returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("aggregation query returned status %d: %s", resp.StatusCode, string(excerpt))
	}

	var decoded models.AggregationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation response: %w", err)
	}

	// Callers iterate Data unconditionally; a missing field decodes as an
	// empty result, never nil.
	if decoded.Data == nil {
		decoded.Data = []models.MetricRow{}
	}

	return &decoded, nil
}

// Ping issues a minimal query to verify the service is reachable. Used by
// the readiness endpoint with a short deadline.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req := models.AggregationRequest{
		Measure:    "valor",
		Dimensions: []string{},
		Filters:    map[string]any{"limit": 1},
	}
	_, err := c.Query(ctx, req)
	return err
}
