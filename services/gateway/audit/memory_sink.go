// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"context"
	"sync"

	"github.com/netra-systems/zen/pkg/extensions"
)

// MemorySink keeps the most recent events in a fixed-capacity ring so the
// admin API can answer "what just happened" without touching disk. It is
// a convenience view, not the durable record; JSONLSink (or the hosted
// sink) is the record.
//
// Safe for concurrent use.
type MemorySink struct {
	mu    sync.RWMutex
	ring  []extensions.AuditEvent
	next  int
	total int
}

// NewMemorySink creates a sink holding the last capacity events.
// capacity <= 0 defaults to 1024.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemorySink{ring: make([]extensions.AuditEvent, capacity)}
}

// Log implements extensions.AuditLogger.
func (s *MemorySink) Log(_ context.Context, event extensions.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = event
	s.next = (s.next + 1) % len(s.ring)
	s.total++
	return nil
}

// Query returns events for one tenant, newest first, capped at limit.
// Tenant scoping happens here, not at the route layer, so even a buggy
// handler cannot leak another tenant's trail.
func (s *MemorySink) Query(tenant string, limit int) []extensions.AuditEvent {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.total
	if n > len(s.ring) {
		n = len(s.ring)
	}
	out := make([]extensions.AuditEvent, 0, limit)
	// Walk backwards from the newest entry.
	for i := 1; i <= n && len(out) < limit; i++ {
		idx := (s.next - i + len(s.ring)) % len(s.ring)
		ev := s.ring[idx]
		if ev.TenantID == tenant {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns how many events are currently retained.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.total > len(s.ring) {
		return len(s.ring)
	}
	return s.total
}
