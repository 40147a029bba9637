// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingCleaner struct {
	calls atomic.Int64
}

func (c *countingCleaner) Cleanup() int {
	c.calls.Add(1)
	return 1
}

func TestJanitorServiceSweeps(t *testing.T) {
	cleaner := &countingCleaner{}
	svc := NewJanitorService(cleaner, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, want deadline exceeded", err)
	}
	if cleaner.calls.Load() == 0 {
		t.Error("Cleanup never called")
	}
}

func TestJanitorServiceStopsOnCancel(t *testing.T) {
	svc := NewJanitorService(&countingCleaner{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestJanitorServiceDefaultInterval(t *testing.T) {
	svc := NewJanitorService(&countingCleaner{}, 0)
	if svc.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m default", svc.interval)
	}
}
