// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/agents"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/health"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/gateway/ws"
	"github.com/netra-systems/zen/services/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full route table against in-memory backends and
// a static token provider with one member and one admin.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := store.Open(store.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := llm.NewEchoClient()
	registry := agents.NewRegistry()
	registry.RegisterDefault(agents.NewAssistantAgent(client))

	events := audit.NewMemorySink(64)
	provider := &extensions.StaticTokenProvider{Tokens: map[string]*extensions.AuthInfo{
		"tok-member": {UserID: "alice", TenantID: "acme", Roles: []string{"member"}},
		"tok-admin":  {UserID: "root", TenantID: "acme", Roles: []string{"admin"}},
	}}

	router := gin.New()
	SetupRoutes(router, Deps{
		Options:   extensions.DefaultOptions().WithAuth(provider),
		Sessions:  store.NewSessionStore(db, time.Hour),
		Agents:    registry,
		WSClients: ws.NewRegistry(),
		Monitor:   health.NewMonitor(8),
		Trail:     audit.NewTrail(events),
		Events:    events,
		LLM:       client,
	})
	return router
}

func request(router *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Route Table Tests
// =============================================================================

func TestRoutes_ProbesAndMetricsAreOpen(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, request(router, "GET", "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, request(router, "GET", "/readyz", "", "").Code)
	assert.Equal(t, http.StatusOK, request(router, "GET", "/metrics", "", "").Code)
}

func TestRoutes_V1RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct{ method, path string }{
		{"POST", "/v1/chat"},
		{"GET", "/v1/sessions"},
		{"GET", "/v1/agents"},
		{"GET", "/v1/admin/sessions"},
	}
	for _, p := range paths {
		w := request(router, p.method, p.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
		assert.Contains(t, w.Body.String(), "unauthorized")
	}
}

func TestRoutes_MemberCanChat(t *testing.T) {
	router := newTestRouter(t)

	w := request(router, "POST", "/v1/chat", "tok-member", `{"query":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echo: hello")
}

func TestRoutes_AgentRegisterLifecycle(t *testing.T) {
	router := newTestRouter(t)

	w := request(router, "POST", "/v1/agents", "tok-member",
		`{"name":"pirate","persona":"You are a pirate."}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(router, "POST", "/v1/agents/pirate/invoke", "tok-member",
		`{"input":"ahoy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(router, "DELETE", "/v1/agents/pirate", "tok-member", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRoutes_AdminGateEnforced(t *testing.T) {
	router := newTestRouter(t)

	w := request(router, "GET", "/v1/admin/sessions", "tok-member", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(router, "GET", "/v1/admin/sessions", "tok-admin", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_UnknownTokenRejected(t *testing.T) {
	router := newTestRouter(t)

	w := request(router, "GET", "/v1/sessions", "tok-forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
