// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains request and response types for the agent endpoints.
package datatypes

import "time"

// AgentSpec describes a registered agent as seen by API clients.
type AgentSpec struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Description  string    `json:"description,omitempty"`
	TenantID     string    `json:"tenant_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AgentRegisterRequest is the body of POST /v1/agents: a tenant-defined
// agent built from a persona over the configured model.
type AgentRegisterRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=64"`
	Version     string `json:"version,omitempty" binding:"omitempty,max=32"`
	Description string `json:"description,omitempty" binding:"omitempty,max=256"`
	// Persona is prepended as the system prompt on every invocation.
	Persona string `json:"persona,omitempty" binding:"omitempty,max=4096"`
	// TimeoutSeconds is the agent's default execution deadline.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" binding:"omitempty,min=1,max=300"`
}

// AgentInvokeRequest is the body of POST /v1/agents/:name/invoke.
type AgentInvokeRequest struct {
	Input     string `json:"input" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
	// TimeoutSeconds overrides the agent's default timeout, capped by
	// the server. Zero means use the agent default.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" binding:"omitempty,min=1,max=300"`
}

// AgentInvokeResponse is the body returned by agent invocation.
type AgentInvokeResponse struct {
	Agent      string `json:"agent"`
	Output     string `json:"output"`
	SessionID  string `json:"session_id,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}
