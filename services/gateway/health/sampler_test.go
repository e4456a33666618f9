// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package health

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_ImmediateFirstSample(t *testing.T) {
	m := NewMonitor(4)
	s := NewSampler(m, time.Hour) // long interval: only the startup sample runs

	s.AddProbe("goroutines", Thresholds{Warn: 1e6, Critical: 1e7}, GoroutineProbe)
	s.Start()
	defer s.Stop()

	// Start samples synchronously, so status is known right away.
	assert.Equal(t, StatusHealthy, m.ComponentStatus("goroutines"))
}

func TestSampler_PeriodicSampling(t *testing.T) {
	m := NewMonitor(16)
	s := NewSampler(m, 5*time.Millisecond)

	var calls atomic.Int64
	s.AddProbe("counter", Thresholds{Warn: 1e9, Critical: 1e10}, func() float64 {
		return float64(calls.Add(1))
	})

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSampler_StopIsIdempotent(t *testing.T) {
	s := NewSampler(NewMonitor(4), 10*time.Millisecond)
	s.Start()
	s.Stop()
	s.Stop()
}

func TestBuiltinProbes(t *testing.T) {
	assert.Greater(t, GoroutineProbe(), 0.0)
	assert.Greater(t, HeapProbe(), 0.0)
}
