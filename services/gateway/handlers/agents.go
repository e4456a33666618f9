// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/agents"
	"github.com/netra-systems/zen/services/gateway/apierr"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/observability"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/llm"
)

// ListAgents serves GET /v1/agents: the caller's tenant's agents.
func ListAgents(registry *agents.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		entries := registry.List(info.TenantID)
		specs := make([]datatypes.AgentSpec, 0, len(entries))
		for _, e := range entries {
			specs = append(specs, datatypes.AgentSpec{
				Name:         e.Agent.Name(),
				Version:      e.Agent.Version(),
				Description:  e.Agent.Describe(),
				TenantID:     e.TenantID,
				RegisteredAt: e.RegisteredAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"agents": specs})
	}
}

// RegisterAgent serves POST /v1/agents: registers a tenant-defined
// agent (a persona over the configured model) in the caller's tenant.
// Registrations live for the process lifetime; built-ins of the same
// name are shadowed, never replaced.
func RegisterAgent(registry *agents.Registry, client llm.Client,
	trail *audit.Trail) gin.HandlerFunc {

	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}

		var req datatypes.AgentRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apierr.E(apierr.KindValidation, "malformed request body", err))
			return
		}
		version := req.Version
		if version == "" {
			version = "1.0.0"
		}

		agent := agents.NewPromptAgent(req.Name, version, req.Description,
			req.Persona, time.Duration(req.TimeoutSeconds)*time.Second, client)
		if err := registry.Register(info.TenantID, agent); err != nil {
			if errors.Is(err, agents.ErrAlreadyRegistered) {
				_ = c.Error(apierr.E(apierr.KindConflict, "agent name already registered", err))
				return
			}
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}

		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "agent.register",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "create",
			ResourceType: "agent",
			ResourceID:   req.Name,
			Outcome:      "success",
		})

		entry, err := registry.Get(info.TenantID, req.Name)
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}
		c.JSON(http.StatusCreated, datatypes.AgentSpec{
			Name:         entry.Agent.Name(),
			Version:      entry.Agent.Version(),
			Description:  entry.Agent.Describe(),
			TenantID:     entry.TenantID,
			RegisteredAt: entry.RegisteredAt,
		})
	}
}

// DeregisterAgent serves DELETE /v1/agents/:name. Only tenant-registered
// agents can be removed; built-in defaults report not found.
func DeregisterAgent(registry *agents.Registry, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		name := c.Param("name")

		if err := registry.Deregister(info.TenantID, name); err != nil {
			_ = c.Error(apierr.E(apierr.KindNotFound, "agent not found", err))
			return
		}

		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "agent.deregister",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "delete",
			ResourceType: "agent",
			ResourceID:   name,
			Outcome:      "success",
		})

		c.Status(http.StatusNoContent)
	}
}

// InvokeAgent serves POST /v1/agents/:name/invoke. Execution is scoped
// to the caller's identity; the optional session must belong to the
// caller and receives the agent's output as a turn.
func InvokeAgent(registry *agents.Registry, sessions *store.SessionStore,
	trail *audit.Trail) gin.HandlerFunc {

	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		name := c.Param("name")

		var req datatypes.AgentInvokeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apierr.E(apierr.KindValidation, "malformed request body", err))
			return
		}

		entry, err := registry.Get(info.TenantID, name)
		if errors.Is(err, agents.ErrNotFound) {
			_ = c.Error(apierr.E(apierr.KindNotFound, "agent not found", err))
			return
		}

		if req.SessionID != "" {
			if _, err := sessions.Get(info.TenantID, info.UserID, req.SessionID); err != nil {
				_ = c.Error(apierr.E(apierr.KindNotFound, "session not found", err))
				return
			}
		}

		ec := agents.ExecutionContext{
			TenantID:  info.TenantID,
			UserID:    info.UserID,
			SessionID: req.SessionID,
			Input:     req.Input,
		}
		result, err := agents.Run(c.Request.Context(), entry.Agent, ec,
			time.Duration(req.TimeoutSeconds)*time.Second)

		status := "success"
		if err != nil {
			status = "error"
			if errors.Is(err, agents.ErrTimeout) {
				status = "timeout"
			}
		}
		if m := observability.DefaultMetrics; m != nil {
			m.AgentInvocationsTotal.WithLabelValues(name, status).Inc()
			if result != nil {
				m.AgentDurationSeconds.WithLabelValues(name).Observe(result.Duration.Seconds())
			}
		}
		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "agent.invoke",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "invoke",
			ResourceType: "agent",
			ResourceID:   name,
			Outcome:      status,
			Metadata:     extensions.NewMetadata().Set("session_id", req.SessionID),
		})

		if err != nil {
			if errors.Is(err, agents.ErrTimeout) {
				_ = c.Error(apierr.E(apierr.KindUpstream, "agent timed out", err))
				return
			}
			_ = c.Error(apierr.E(apierr.KindUpstream, "agent failed", err))
			return
		}

		if req.SessionID != "" {
			if aerr := sessions.AppendMessage(info.TenantID, info.UserID, req.SessionID,
				datatypes.Message{Role: "agent", AgentName: name, Content: result.Output}); aerr != nil {
				// Output already computed; surface the answer anyway.
				slog.Warn("failed to persist agent turn",
					"session_id", req.SessionID, "error", aerr)
			}
		}

		c.JSON(http.StatusOK, datatypes.AgentInvokeResponse{
			Agent:      name,
			Output:     result.Output,
			SessionID:  req.SessionID,
			DurationMS: result.Duration.Milliseconds(),
		})
	}
}
