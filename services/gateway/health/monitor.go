// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package health implements in-process health monitoring for the gateway.
//
// Each monitored component keeps a fixed-capacity window of recent metric
// samples. Component status is derived by comparing the window mean
// against warn/critical thresholds, and the gateway's aggregate status is
// the worst status across all components.
//
// # Status Model
//
//	Healthy  — mean below warn threshold (or above, for lower-is-worse)
//	Degraded — mean past warn threshold
//	Critical — mean past critical threshold
//	Unknown  — no samples observed yet
//
// Unknown does not degrade the aggregate: a component that has never been
// sampled is not evidence of a problem.
//
// # Thread Safety
//
// Monitor and its components are safe for concurrent use. Observe takes a
// per-component lock; Snapshot takes each lock briefly in turn.
package health

import (
	"sort"
	"sync"
	"time"
)

// Status is the health state of a component or of the whole service.
type Status int

const (
	// StatusUnknown means no samples have been observed.
	StatusUnknown Status = iota

	// StatusHealthy means the metric is within normal bounds.
	StatusHealthy

	// StatusDegraded means the warn threshold has been crossed.
	StatusDegraded

	// StatusCritical means the critical threshold has been crossed.
	StatusCritical
)

// String returns "unknown", "healthy", "degraded", or "critical".
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Thresholds define the warn/critical comparison for a component metric.
// By default higher values are worse (latency, error rate, queue depth).
// Set LowerIsWorse for metrics like free disk percentage.
type Thresholds struct {
	Warn         float64 `json:"warn"`
	Critical     float64 `json:"critical"`
	LowerIsWorse bool    `json:"lower_is_worse,omitempty"`
}

// evaluate maps a metric value to a status.
func (t Thresholds) evaluate(value float64) Status {
	if t.LowerIsWorse {
		switch {
		case value <= t.Critical:
			return StatusCritical
		case value <= t.Warn:
			return StatusDegraded
		default:
			return StatusHealthy
		}
	}
	switch {
	case value >= t.Critical:
		return StatusCritical
	case value >= t.Warn:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// sample is one observation of a component metric.
type sample struct {
	at    time.Time
	value float64
}

// window is a fixed-capacity ring buffer of samples. Not safe for
// concurrent use; the owning component locks around it.
type window struct {
	samples []sample
	next    int
	filled  bool
}

func newWindow(capacity int) *window {
	if capacity <= 0 {
		capacity = 1
	}
	return &window{samples: make([]sample, capacity)}
}

func (w *window) push(s sample) {
	w.samples[w.next] = s
	w.next++
	if w.next == len(w.samples) {
		w.next = 0
		w.filled = true
	}
}

func (w *window) len() int {
	if w.filled {
		return len(w.samples)
	}
	return w.next
}

func (w *window) mean() (float64, bool) {
	n := w.len()
	if n == 0 {
		return 0, false
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += w.samples[i].value
	}
	return sum / float64(n), true
}

func (w *window) latest() (sample, bool) {
	n := w.len()
	if n == 0 {
		return sample{}, false
	}
	idx := w.next - 1
	if idx < 0 {
		idx = len(w.samples) - 1
	}
	return w.samples[idx], true
}

// component tracks one named metric with its window and thresholds.
type component struct {
	mu         sync.Mutex
	name       string
	window     *window
	thresholds Thresholds
}

// ComponentHealth is the reported state of one component.
type ComponentHealth struct {
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Latest      float64    `json:"latest"`
	Mean        float64    `json:"mean"`
	SampleCount int        `json:"sample_count"`
	LastSample  time.Time  `json:"last_sample,omitzero"`
	Thresholds  Thresholds `json:"thresholds"`
}

// Snapshot is the full health report returned to admin clients.
type Snapshot struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Taken      time.Time         `json:"taken"`
}

// Monitor holds all monitored components.
type Monitor struct {
	mu         sync.RWMutex
	components map[string]*component
	windowSize int
}

// NewMonitor creates a Monitor whose components keep windowSize samples.
// windowSize <= 0 defaults to 60.
func NewMonitor(windowSize int) *Monitor {
	if windowSize <= 0 {
		windowSize = 60
	}
	return &Monitor{
		components: make(map[string]*component),
		windowSize: windowSize,
	}
}

// Register adds a component with its thresholds. Registering an existing
// name replaces the thresholds but keeps the sample window.
func (m *Monitor) Register(name string, t Thresholds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.components[name]; ok {
		c.mu.Lock()
		c.thresholds = t
		c.mu.Unlock()
		return
	}
	m.components[name] = &component{
		name:       name,
		window:     newWindow(m.windowSize),
		thresholds: t,
	}
}

// Observe records a metric sample for the named component. Samples for
// unregistered names are dropped; registration defines what is monitored.
func (m *Monitor) Observe(name string, value float64) {
	m.mu.RLock()
	c, ok := m.components[name]
	m.mu.RUnlock()
	if !ok {
		return
	}
	c.mu.Lock()
	c.window.push(sample{at: time.Now().UTC(), value: value})
	c.mu.Unlock()
}

// ComponentStatus returns the current status of one component.
func (m *Monitor) ComponentStatus(name string) Status {
	m.mu.RLock()
	c, ok := m.components[name]
	m.mu.RUnlock()
	if !ok {
		return StatusUnknown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	mean, ok := c.window.mean()
	if !ok {
		return StatusUnknown
	}
	return c.thresholds.evaluate(mean)
}

// Snapshot reports every component and the aggregate status. Components
// are sorted by name for stable output.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	comps := make([]*component, 0, len(m.components))
	for _, c := range m.components {
		comps = append(comps, c)
	}
	m.mu.RUnlock()

	snap := Snapshot{Status: StatusHealthy, Taken: time.Now().UTC()}
	if len(comps) == 0 {
		snap.Status = StatusUnknown
	}

	for _, c := range comps {
		c.mu.Lock()
		ch := ComponentHealth{Name: c.name, Thresholds: c.thresholds}
		if mean, ok := c.window.mean(); ok {
			latest, _ := c.window.latest()
			ch.Mean = mean
			ch.Latest = latest.value
			ch.LastSample = latest.at
			ch.SampleCount = c.window.len()
			ch.Status = c.thresholds.evaluate(mean)
		} else {
			ch.Status = StatusUnknown
		}
		c.mu.Unlock()

		// Unknown components do not count against the aggregate.
		if ch.Status > snap.Status {
			snap.Status = ch.Status
		}
		snap.Components = append(snap.Components, ch)
	}

	sort.Slice(snap.Components, func(i, j int) bool {
		return snap.Components[i].Name < snap.Components[j].Name
	})
	return snap
}

// Healthy reports whether the aggregate status is at worst Degraded.
// Readiness probes treat Critical as not ready.
func (m *Monitor) Healthy() bool {
	return m.Snapshot().Status != StatusCritical
}
