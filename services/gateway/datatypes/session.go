// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides data structures for the gateway service.
package datatypes

import "time"

// Session is a conversation owned by a single user within a single tenant.
// TenantID and UserID are always taken from the authenticated identity,
// never from request payloads.
type Session struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// ExpiresAt is when the TTL sweeper may remove the session.
	// Zero means no expiry.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	// Turns is the number of stored messages (denormalized for listings).
	Turns int `json:"turns"`
}

// Expired reports whether the session's TTL has passed as of now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Message is a single turn in a session.
type Message struct {
	Role      string    `json:"role"` // "user", "assistant", "system", "agent"
	Content   string    `json:"content"`
	AgentName string    `json:"agent_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
