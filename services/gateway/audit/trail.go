// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit provides the gateway's audit trail: a fan-out recorder
// over pluggable sinks plus the built-in JSONL file and in-memory sinks.
//
// Audit writes are strictly best-effort from the request path's point of
// view: a failing sink is logged and skipped, never surfaced to clients.
// Compliance-grade delivery is the hosted tier's job via an injected
// extensions.AuditLogger.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/observability"
)

// Trail fans audit events out to all configured sinks.
//
// Safe for concurrent use if the sinks are.
type Trail struct {
	sinks []extensions.AuditLogger
}

// NewTrail builds a Trail over the given sinks. Nil sinks are skipped.
func NewTrail(sinks ...extensions.AuditLogger) *Trail {
	t := &Trail{}
	for _, s := range sinks {
		if s != nil {
			t.sinks = append(t.sinks, s)
		}
	}
	return t
}

// Record stamps the event and delivers it to every sink. Sink failures
// are logged, not returned: audit must never fail a request.
func (t *Trail) Record(ctx context.Context, event extensions.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.UserID == "" {
		event.UserID = "anonymous"
	}
	if m := observability.DefaultMetrics; m != nil {
		m.AuditEventsTotal.WithLabelValues(event.EventType).Inc()
	}
	for _, sink := range t.sinks {
		if err := sink.Log(ctx, event); err != nil {
			slog.Error("audit sink failed",
				"event_type", event.EventType, "error", err)
		}
	}
}
