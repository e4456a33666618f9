// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/agents"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/handlers"
	"github.com/netra-systems/zen/services/gateway/health"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/gateway/ws"
	"github.com/netra-systems/zen/services/llm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the route table needs. All fields are required
// except Limiter, which may be nil to disable rate limiting (tests).
type Deps struct {
	Options   extensions.ServiceOptions
	Sessions  *store.SessionStore
	Agents    *agents.Registry
	WSClients *ws.Registry
	Monitor   *health.Monitor
	Trail     *audit.Trail
	Events    *audit.MemorySink
	LLM       llm.Client
	Limiter   *middleware.TenantLimiter
}

// SetupRoutes wires the gateway's route table.
//
// Probes and /metrics are unauthenticated; everything under /v1 runs
// behind the auth middleware, and /v1/admin additionally requires the
// admin role.
func SetupRoutes(router *gin.Engine, d Deps) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/readyz", handlers.Readyz(d.Monitor))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.ErrorHandler())
	v1.Use(middleware.AuthMiddleware(d.Options.AuthProvider, d.Trail))
	if d.Limiter != nil {
		v1.Use(d.Limiter.Middleware())
	}
	{
		v1.POST("/chat", middleware.Metrics("chat"), handlers.HandleChat(d.Sessions, d.LLM))
		v1.GET("/chat/ws", middleware.Metrics("ws"),
			handlers.HandleChatWebSocket(d.WSClients, d.Sessions, d.LLM))

		sessions := v1.Group("/sessions", middleware.Metrics("sessions"))
		{
			sessions.GET("", handlers.ListSessions(d.Sessions))
			sessions.GET("/:sessionId/history", handlers.GetSessionHistory(d.Sessions))
			sessions.DELETE("/:sessionId", handlers.DeleteSession(d.Sessions, d.Trail))
		}

		agentRoutes := v1.Group("/agents", middleware.Metrics("agents"))
		{
			agentRoutes.GET("", handlers.ListAgents(d.Agents))
			agentRoutes.POST("", handlers.RegisterAgent(d.Agents, d.LLM, d.Trail))
			agentRoutes.DELETE("/:name", handlers.DeregisterAgent(d.Agents, d.Trail))
			agentRoutes.POST("/:name/invoke", handlers.InvokeAgent(d.Agents, d.Sessions, d.Trail))
		}

		admin := v1.Group("/admin", middleware.Metrics("admin"), middleware.RequireRole("admin", d.Trail))
		{
			admin.GET("/sessions", handlers.AdminListSessions(d.Sessions))
			admin.DELETE("/users/:userId/sessions", handlers.AdminPurgeUser(d.Sessions, d.Trail))
			admin.GET("/audit", handlers.AdminAuditQuery(d.Events, d.Trail))
			admin.GET("/health", handlers.AdminHealth(d.Monitor))
		}
	}
}
