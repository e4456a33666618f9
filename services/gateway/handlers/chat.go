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
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/apierr"
	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/llm"
)

// HandleChat serves POST /v1/chat: one synchronous completion turn.
//
// When the request carries a session ID the stored history is replayed
// to the model and the new turn is persisted; otherwise a fresh session
// is created. Persistence failures after a successful completion are
// logged but do not fail the response — the user already has the answer.
func HandleChat(sessions *store.SessionStore, client llm.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			_ = c.Error(apierr.Errorf(apierr.KindUnauthorized, "unauthorized"))
			return
		}

		var req datatypes.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apierr.E(apierr.KindValidation, "malformed request body", err))
			return
		}
		if err := req.Validate(); err != nil {
			_ = c.Error(apierr.E(apierr.KindValidation, err.Error(), nil))
			return
		}

		ctx := c.Request.Context()

		// Resolve or create the session, always in the caller's scope.
		var sess *datatypes.Session
		var history []datatypes.Message
		var err error
		if req.SessionID != "" {
			sess, err = sessions.Get(info.TenantID, info.UserID, req.SessionID)
			if errors.Is(err, store.ErrNotFound) {
				_ = c.Error(apierr.E(apierr.KindNotFound, "session not found", err))
				return
			}
			if err != nil {
				_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
				return
			}
			history, err = sessions.Messages(info.TenantID, info.UserID, sess.ID)
			if err != nil {
				_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
				return
			}
		} else {
			sess, err = sessions.Create(info.TenantID, info.UserID, truncateTitle(req.Query))
			if err != nil {
				_ = c.Error(apierr.E(apierr.KindInternal, "internal error", err))
				return
			}
		}

		messages := append(history, req.History...)
		messages = append(messages, datatypes.Message{Role: "user", Content: req.Query})

		answer, err := client.Chat(ctx, messages, llm.GenerationParams{})
		if err != nil {
			_ = c.Error(apierr.E(apierr.KindUpstream, "model backend failed", err))
			return
		}

		now := time.Now().UTC()
		turns := []datatypes.Message{
			{Role: "user", Content: req.Query, CreatedAt: now},
			{Role: "assistant", Content: answer, CreatedAt: now},
		}
		for _, m := range turns {
			if err := sessions.AppendMessage(info.TenantID, info.UserID, sess.ID, m); err != nil {
				slog.Warn("failed to persist chat turn",
					"session_id", sess.ID, "error", err)
				break
			}
		}

		c.JSON(http.StatusOK, datatypes.ChatResponse{
			Answer:    answer,
			SessionID: sess.ID,
			Model:     client.Model(),
		})
	}
}

// truncateTitle derives a session title from the first query. The cut
// backs up to a rune boundary so a multi-byte character is never split.
func truncateTitle(q string) string {
	const max = 80
	if len(q) <= max {
		return q
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(q[cut]) {
		cut--
	}
	return q[:cut]
}
