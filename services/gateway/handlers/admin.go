// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Admin handlers. All routes here sit behind RequireRole("admin") and are
// still scoped to the admin's own tenant: there is no cross-tenant
// surface, only elevated access within one.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/apierr"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/gateway/health"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/store"
)

// AdminListSessions serves GET /v1/admin/sessions: every session in the
// admin's tenant, across users.
func AdminListSessions(sessions *store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		out, err := sessions.List(info.TenantID, "")
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}
		if out == nil {
			out = []datatypes.Session{}
		}
		c.JSON(http.StatusOK, gin.H{"sessions": out})
	}
}

// AdminPurgeUser serves DELETE /v1/admin/users/:userId/sessions: removes
// all of a user's sessions in the admin's tenant. This is the
// right-to-erasure hook.
func AdminPurgeUser(sessions *store.SessionStore, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		userID := c.Param("userId")
		purged, err := sessions.PurgeUser(info.TenantID, userID)

		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "session.purge",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "delete",
			ResourceType: "user_sessions",
			ResourceID:   userID,
			Outcome:      outcome,
			Metadata:     extensions.NewMetadata().Set("purged", purged),
		})
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "purged": purged})
	}
}

// AdminAuditQuery serves GET /v1/admin/audit?limit=N: the tenant's recent
// audit events from the in-memory ring. The durable trail lives in the
// JSONL file or the hosted sink.
func AdminAuditQuery(events *audit.MemorySink, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		limit := 100
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 1000 {
				_ = c.Error(apierr.Errorf(apierr.KindValidation, "limit must be 1..1000"))
				return
			}
			limit = n
		}

		out := events.Query(info.TenantID, limit)
		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "admin.audit_query",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "read",
			ResourceType: "audit",
			Outcome:      "success",
		})
		c.JSON(http.StatusOK, gin.H{"events": out, "count": len(out)})
	}
}

// AdminHealth serves GET /v1/admin/health: the full component snapshot.
func AdminHealth(monitor *health.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, monitor.Snapshot())
	}
}
