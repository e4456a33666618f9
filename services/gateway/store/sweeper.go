// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/netra-systems/zen/services/gateway/observability"
)

// SweeperConfig holds configuration for the background TTL sweeper.
type SweeperConfig struct {
	// Interval is how often to run sweep cycles. Default: 10 minutes.
	Interval time.Duration
}

// DefaultSweeperConfig returns production defaults.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{Interval: 10 * time.Minute}
}

// Sweeper periodically removes expired sessions. It uses the ticker +
// done channel pattern so Stop blocks until the goroutine exits.
//
// # Thread Safety
//
// Start and Stop are safe to call from multiple goroutines; repeated
// Start calls while running are no-ops.
type Sweeper struct {
	store  *SessionStore
	config SweeperConfig

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSweeper creates a Sweeper over the given store.
func NewSweeper(store *SessionStore, config SweeperConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	return &Sweeper{store: store, config: config}
}

// Start launches the background sweep loop. No-op if already running.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runCycle()
			case <-s.done:
				return
			}
		}
	}()
	slog.Info("session TTL sweeper started", "interval", s.config.Interval)
}

// Stop terminates the sweep loop and waits for it to exit. No-op if not
// running.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("session TTL sweeper stopped")
}

func (s *Sweeper) runCycle() {
	start := time.Now()
	swept, err := s.store.SweepExpired(start.UTC())
	if err != nil {
		slog.Error("session sweep cycle failed", "error", err)
		return
	}
	if swept > 0 {
		if m := observability.DefaultMetrics; m != nil {
			m.SessionsSweptTotal.Add(float64(swept))
		}
		slog.Info("session sweep cycle complete",
			"swept", swept, "duration", time.Since(start))
	}
}
