// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package health

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Probe produces one sample value for a component. Probes must be fast
// and non-blocking; slow checks should cache and return the cached value.
type Probe func() float64

// Sampler periodically runs registered probes and feeds the results into
// a Monitor. Uses the ticker + done channel pattern; Stop blocks until
// the loop exits.
type Sampler struct {
	monitor  *Monitor
	interval time.Duration

	mu      sync.Mutex
	probes  map[string]Probe
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSampler creates a Sampler over the monitor. interval <= 0 defaults
// to 10 seconds.
func NewSampler(monitor *Monitor, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Sampler{
		monitor:  monitor,
		interval: interval,
		probes:   make(map[string]Probe),
	}
}

// AddProbe registers a probe and its thresholds with the monitor.
// Safe to call before or after Start.
func (s *Sampler) AddProbe(name string, t Thresholds, probe Probe) {
	s.monitor.Register(name, t)
	s.mu.Lock()
	s.probes[name] = probe
	s.mu.Unlock()
}

// Start launches the sampling loop and takes an immediate first sample so
// readiness does not report Unknown for a full interval. No-op if running.
func (s *Sampler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	s.mu.Unlock()

	s.sampleAll()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sampleAll()
			case <-s.done:
				return
			}
		}
	}()
	slog.Info("health sampler started", "interval", s.interval)
}

// Stop terminates the loop and waits for it to exit. No-op if not running.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("health sampler stopped")
}

func (s *Sampler) sampleAll() {
	s.mu.Lock()
	probes := make(map[string]Probe, len(s.probes))
	for name, p := range s.probes {
		probes[name] = p
	}
	s.mu.Unlock()

	for name, probe := range probes {
		s.monitor.Observe(name, probe())
	}
}

// =============================================================================
// Built-in Probes
// =============================================================================

// GoroutineProbe returns the current goroutine count. A steadily climbing
// count is the usual signature of a connection leak.
func GoroutineProbe() float64 {
	return float64(runtime.NumGoroutine())
}

// HeapProbe returns heap in-use bytes in MiB.
func HeapProbe() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapInuse) / (1024 * 1024)
}
