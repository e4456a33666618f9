// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package health

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Thresholds Tests
// =============================================================================

func TestThresholds_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		th    Thresholds
		value float64
		want  Status
	}{
		{"below warn", Thresholds{Warn: 100, Critical: 200}, 50, StatusHealthy},
		{"at warn", Thresholds{Warn: 100, Critical: 200}, 100, StatusDegraded},
		{"between warn and critical", Thresholds{Warn: 100, Critical: 200}, 150, StatusDegraded},
		{"at critical", Thresholds{Warn: 100, Critical: 200}, 200, StatusCritical},
		{"above critical", Thresholds{Warn: 100, Critical: 200}, 999, StatusCritical},
		{"lower-is-worse healthy", Thresholds{Warn: 20, Critical: 5, LowerIsWorse: true}, 80, StatusHealthy},
		{"lower-is-worse degraded", Thresholds{Warn: 20, Critical: 5, LowerIsWorse: true}, 15, StatusDegraded},
		{"lower-is-worse critical", Thresholds{Warn: 20, Critical: 5, LowerIsWorse: true}, 2, StatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.th.evaluate(tt.value))
		})
	}
}

// =============================================================================
// Window Tests
// =============================================================================

func TestWindow_MeanOverWrap(t *testing.T) {
	w := newWindow(3)

	_, ok := w.mean()
	assert.False(t, ok, "empty window has no mean")

	for _, v := range []float64{10, 20, 30, 40} {
		w.push(sample{value: v})
	}

	// Capacity 3: the first sample has been evicted.
	mean, ok := w.mean()
	require.True(t, ok)
	assert.InDelta(t, 30.0, mean, 0.001)
	assert.Equal(t, 3, w.len())

	latest, ok := w.latest()
	require.True(t, ok)
	assert.Equal(t, 40.0, latest.value)
}

// =============================================================================
// Monitor Tests
// =============================================================================

func TestMonitor_StatusFromWindowMean(t *testing.T) {
	m := NewMonitor(4)
	m.Register("latency_ms", Thresholds{Warn: 100, Critical: 500})

	assert.Equal(t, StatusUnknown, m.ComponentStatus("latency_ms"))

	// Mean 75: healthy even though one sample spikes past warn.
	for _, v := range []float64{50, 50, 50, 150} {
		m.Observe("latency_ms", v)
	}
	assert.Equal(t, StatusHealthy, m.ComponentStatus("latency_ms"))

	// Window is now all spikes; mean crosses critical.
	for i := 0; i < 4; i++ {
		m.Observe("latency_ms", 600)
	}
	assert.Equal(t, StatusCritical, m.ComponentStatus("latency_ms"))
}

func TestMonitor_ObserveUnregisteredDropped(t *testing.T) {
	m := NewMonitor(4)
	m.Observe("never_registered", 1.0)

	assert.Equal(t, StatusUnknown, m.ComponentStatus("never_registered"))
	assert.Empty(t, m.Snapshot().Components)
}

func TestMonitor_RegisterReplacesThresholdsKeepsWindow(t *testing.T) {
	m := NewMonitor(4)
	m.Register("queue_depth", Thresholds{Warn: 10, Critical: 20})
	m.Observe("queue_depth", 15)
	assert.Equal(t, StatusDegraded, m.ComponentStatus("queue_depth"))

	// Loosen the thresholds; the same samples now read healthy.
	m.Register("queue_depth", Thresholds{Warn: 100, Critical: 200})
	assert.Equal(t, StatusHealthy, m.ComponentStatus("queue_depth"))

	snap := m.Snapshot()
	require.Len(t, snap.Components, 1)
	assert.Equal(t, 1, snap.Components[0].SampleCount, "re-register keeps the window")
}

func TestMonitor_SnapshotAggregatesWorst(t *testing.T) {
	m := NewMonitor(4)
	m.Register("a_fine", Thresholds{Warn: 10, Critical: 20})
	m.Register("b_bad", Thresholds{Warn: 10, Critical: 20})
	m.Register("c_silent", Thresholds{Warn: 10, Critical: 20})

	m.Observe("a_fine", 1)
	m.Observe("b_bad", 15)
	// c_silent never observed: Unknown must not drag the aggregate down.

	snap := m.Snapshot()
	assert.Equal(t, StatusDegraded, snap.Status)
	require.Len(t, snap.Components, 3)
	// Sorted by name for stable output.
	assert.Equal(t, "a_fine", snap.Components[0].Name)
	assert.Equal(t, "b_bad", snap.Components[1].Name)
	assert.Equal(t, "c_silent", snap.Components[2].Name)
	assert.Equal(t, StatusUnknown, snap.Components[2].Status)
}

func TestMonitor_EmptySnapshotIsUnknown(t *testing.T) {
	m := NewMonitor(0)
	assert.Equal(t, StatusUnknown, m.Snapshot().Status)
}

func TestMonitor_HealthyOnlyFalseWhenCritical(t *testing.T) {
	m := NewMonitor(2)
	m.Register("x", Thresholds{Warn: 10, Critical: 20})

	m.Observe("x", 15)
	assert.True(t, m.Healthy(), "degraded still serves traffic")

	m.Observe("x", 100)
	m.Observe("x", 100)
	assert.False(t, m.Healthy())
}

func TestStatus_JSONIsStringForm(t *testing.T) {
	data, err := json.Marshal(map[string]Status{
		"a": StatusHealthy, "b": StatusCritical, "c": StatusUnknown,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"healthy","b":"critical","c":"unknown"}`, string(data))
}
