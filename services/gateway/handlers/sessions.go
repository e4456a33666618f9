// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/apierr"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/store"
)

// ListSessions serves GET /v1/sessions: the caller's own sessions,
// newest first.
func ListSessions(sessions *store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		out, err := sessions.List(info.TenantID, info.UserID)
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

// GetSessionHistory serves GET /v1/sessions/:sessionId/history.
func GetSessionHistory(sessions *store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		id := c.Param("sessionId")
		msgs, err := sessions.Messages(info.TenantID, info.UserID, id)
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(apierr.E(apierr.KindNotFound, "session not found", err))
			return
		}
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}
		if msgs == nil {
			msgs = []datatypes.Message{}
		}
		c.JSON(http.StatusOK, gin.H{"session_id": id, "messages": msgs})
	}
}

// DeleteSession serves DELETE /v1/sessions/:sessionId and records the
// deletion in the audit trail.
func DeleteSession(sessions *store.SessionStore, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}
		id := c.Param("sessionId")
		err := sessions.Delete(info.TenantID, info.UserID, id)
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(apierr.E(apierr.KindNotFound, "session not found", err))
			return
		}
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
			return
		}

		trail.Record(c.Request.Context(), extensions.AuditEvent{
			EventType:    "session.delete",
			UserID:       info.UserID,
			TenantID:     info.TenantID,
			Action:       "delete",
			ResourceType: "session",
			ResourceID:   id,
			Outcome:      "success",
		})
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}
