package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/observability"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/gateway/ws"
	"github.com/netra-systems/zen/services/llm"
)

// WSRequest is a client frame on the chat socket.
type WSRequest struct {
	Query     string              `json:"query"`
	History   []datatypes.Message `json:"history,omitempty"`
	Action    string              `json:"action,omitempty"` // e.g. "ping"
	SessionID string              `json:"session_id,omitempty"`
}

// WSResponse is a standard chat reply frame.
type WSResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
	Error     string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// HandleChatWebSocket serves GET /v1/chat/ws.
//
// Each connection gets its own session unless the first frame names an
// existing one owned by the caller. The connection is tracked in the
// registry under the caller's tenant and user, so server-side pushes can
// only ever reach the caller's own connections.
func HandleChatWebSocket(registry *ws.Registry, sessions *store.SessionStore,
	client llm.Client) gin.HandlerFunc {

	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "unauthorized"},
			})
			return
		}

		sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer sock.Close()

		conn := registry.Add(info.TenantID, info.UserID, sock)
		defer registry.Remove(conn)
		if m := observability.DefaultMetrics; m != nil {
			m.ActiveWebsockets.Inc()
			defer m.ActiveWebsockets.Dec()
		}

		sess, err := sessions.Create(info.TenantID, info.UserID, "")
		if err != nil {
			slog.Error("failed to create websocket session", "error", err)
			return
		}
		slog.Info("websocket client connected",
			"tenant_id", info.TenantID, "user_id", info.UserID, "session_id", sess.ID)

		if err := conn.SendJSON(map[string]any{
			"action":     "session_created",
			"session_id": sess.ID,
		}); err != nil {
			return // close if we can't even send the first frame
		}

		for {
			var req WSRequest
			if err := sock.ReadJSON(&req); err != nil {
				slog.Info("websocket client disconnected", "error", err.Error())
				break
			}
			ctx := c.Request.Context()

			if req.Action != "" {
				switch req.Action {
				case "ping":
					if err := conn.SendJSON(map[string]any{"action": "pong"}); err != nil {
						return
					}
				default:
					if err := conn.SendJSON(map[string]any{
						"action": "error", "message": "unknown action",
					}); err != nil {
						return
					}
				}
				continue
			}

			// Frame may redirect to another session the caller owns.
			sessionID := sess.ID
			if req.SessionID != "" {
				if _, err := sessions.Get(info.TenantID, info.UserID, req.SessionID); err != nil {
					if err := conn.SendJSON(WSResponse{
						SessionID: req.SessionID, Error: "session not found",
					}); err != nil {
						return
					}
					continue
				}
				sessionID = req.SessionID
			}

			resp := WSResponse{SessionID: sessionID}
			messages := append(req.History, datatypes.Message{Role: "user", Content: req.Query})
			answer, llmErr := client.Chat(ctx, messages, llm.GenerationParams{})
			if llmErr != nil {
				resp.Error = llmErr.Error()
			} else {
				resp.Answer = answer
			}
			if resp.Error == "" && strings.TrimSpace(resp.Answer) == "" {
				resp.Answer = "(The model returned an empty response.)"
			}

			if resp.Error == "" {
				// Save the turn in the background.
				go func(sessionID, query, answer string) {
					now := time.Now().UTC()
					for _, m := range []datatypes.Message{
						{Role: "user", Content: query, CreatedAt: now},
						{Role: "assistant", Content: answer, CreatedAt: now},
					} {
						if err := sessions.AppendMessage(info.TenantID, info.UserID, sessionID, m); err != nil {
							slog.Warn("failed to save websocket turn",
								"session_id", sessionID, "error", err)
							return
						}
					}
				}(sessionID, req.Query, resp.Answer)
			}

			if err := conn.SendJSON(resp); err != nil {
				return
			}
		}
	}
}
