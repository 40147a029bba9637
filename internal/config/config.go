// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package config loads layered configuration via Koanf v2: built-in
// defaults, then an optional YAML file, then environment variables (highest
// priority).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Vigia server.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Cache       CacheConfig       `koanf:"cache"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Logging     LoggingConfig     `koanf:"logging"`
	Defaults    DefaultsConfig    `koanf:"defaults"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// AggregationConfig configures the remote aggregation service client.
type AggregationConfig struct {
	URL            string        `koanf:"url"`
	APIKey         string        `koanf:"api_key"`
	Timeout        time.Duration `koanf:"timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"`
	RateBurst      int           `koanf:"rate_burst"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// CacheConfig configures the response cache / request dedup layer.
type CacheConfig struct {
	Enabled         bool          `koanf:"enabled"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// RateLimitConfig configures inbound request limits (requests per minute).
type RateLimitConfig struct {
	CompareRPM int `koanf:"compare_rpm"`
	HealthRPM  int `koanf:"health_rpm"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DefaultsConfig carries the aggregation service's default field names and
// the width of the seed period shown before the user picks one.
type DefaultsConfig struct {
	MeasureField string `koanf:"measure_field"`
	YearField    string `koanf:"year_field"`
	WeekField    string `koanf:"week_field"`
	PeriodWeeks  int    `koanf:"period_weeks"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8117,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Aggregation: AggregationConfig{
			URL:            "",
			APIKey:         "",
			Timeout:        30 * time.Second,
			RatePerSecond:  20,
			RateBurst:      40,
			BreakerEnabled: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			CompareRPM: 120,
			HealthRPM:  1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Defaults: DefaultsConfig{
			MeasureField: "valor",
			YearField:    "anio",
			WeekField:    "semana_epidemiologica",
			PeriodWeeks:  12,
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Aggregation.URL == "" {
		return fmt.Errorf("aggregation.url is required (set AGGREGATION_URL)")
	}
	if !strings.HasPrefix(c.Aggregation.URL, "http://") && !strings.HasPrefix(c.Aggregation.URL, "https://") {
		return fmt.Errorf("aggregation.url %q must be http(s)", c.Aggregation.URL)
	}
	if c.Aggregation.Timeout <= 0 {
		return fmt.Errorf("aggregation.timeout must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled")
	}
	if c.Defaults.MeasureField == "" || c.Defaults.YearField == "" || c.Defaults.WeekField == "" {
		return fmt.Errorf("defaults.measure_field, year_field and week_field must be non-empty")
	}
	if c.Defaults.PeriodWeeks < 1 {
		return fmt.Errorf("defaults.period_weeks must be at least 1")
	}
	return nil
}
