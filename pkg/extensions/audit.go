// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// AuditEvent represents a security-relevant event for compliance logging.
//
// # Event Categories
//
// Events are categorized by type for filtering and alerting:
//   - Authentication: "auth.failed"
//   - Authorization: "authz.denied"
//   - Sessions: "session.create", "session.delete", "session.purge"
//   - Agents: "agent.register", "agent.deregister", "agent.invoke"
//   - Admin: "admin.audit_query", "admin.health_query"
//
// # Compliance Fields
//
// For regulatory reporting, always populate UserID and TenantID (right-to-know
// requests), Timestamp (audit trail integrity), and ResourceType/ResourceID
// (data lineage).
type AuditEvent struct {
	// EventType categorizes the event, format "category.action"
	// (e.g. "session.delete").
	EventType string

	// Timestamp is when the event occurred (always UTC). If zero,
	// sinks set it to time.Now().UTC().
	Timestamp time.Time

	// UserID identifies who performed the action. Use "system" for
	// automated actions, "anonymous" if unknown.
	UserID string

	// TenantID identifies the tenant the action was scoped to.
	TenantID string

	// Action describes the operation: "create", "read", "delete", "invoke".
	Action string

	// ResourceType is the category of resource: "session", "agent", "audit".
	ResourceType string

	// ResourceID is the specific resource instance, if any.
	ResourceID string

	// Outcome indicates the result: "success", "failure", "blocked", "error".
	Outcome string

	// Metadata holds additional event-specific data. Common keys:
	// "error", "ip_address", "duration_ms", "model", "session_id".
	Metadata Metadata
}

// AuditLogger records audit events for compliance and investigation.
//
// Implementations must be safe for concurrent use and must never block
// request processing: failures are logged by callers but not propagated
// to clients, and slow sinks should buffer internally.
type AuditLogger interface {
	// Log records a single audit event. The context carries request
	// cancellation; sinks doing network IO should honor it.
	Log(ctx context.Context, event AuditEvent) error
}

// NopAuditLogger discards all events. This is the self-hosted default.
type NopAuditLogger struct{}

// Log does nothing and returns nil.
func (l *NopAuditLogger) Log(_ context.Context, _ AuditEvent) error { return nil }
