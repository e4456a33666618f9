// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// mockAuthProvider is a configurable mock for testing.
type mockAuthProvider struct {
	authInfo *extensions.AuthInfo
	err      error
}

func (m *mockAuthProvider) Validate(_ context.Context, _ string) (*extensions.AuthInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.authInfo, nil
}

// =============================================================================
// extractBearerToken Tests
// =============================================================================

func TestExtractBearerToken_ValidToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("Authorization", "Bearer abc123")

	assert.Equal(t, "abc123", extractBearerToken(c))
}

func TestExtractBearerToken_CaseInsensitivePrefix(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("Authorization", "bearer ABC123")

	assert.Equal(t, "ABC123", extractBearerToken(c))
}

func TestExtractBearerToken_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "abc123"},
		{"basic auth", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"only bearer", "Bearer"},
		{"missing header", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			assert.Empty(t, extractBearerToken(c))
		})
	}
}

// =============================================================================
// AuthMiddleware Tests
// =============================================================================

func TestAuthMiddleware_StoresIdentity(t *testing.T) {
	provider := &mockAuthProvider{authInfo: &extensions.AuthInfo{
		UserID: "user-1", TenantID: "acme", Roles: []string{"member"},
	}}

	router := gin.New()
	router.Use(AuthMiddleware(provider, nil))
	router.GET("/whoami", func(c *gin.Context) {
		info := GetAuthInfo(c)
		require.NotNil(t, info)
		c.JSON(http.StatusOK, gin.H{"user": info.UserID, "tenant": info.TenantID})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), "acme")
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	provider := &mockAuthProvider{err: extensions.ErrUnauthorized}

	router := gin.New()
	router.Use(AuthMiddleware(provider, nil))
	router.GET("/whoami", func(c *gin.Context) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bad")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestAuthMiddleware_ProviderFailureIsUnauthorized(t *testing.T) {
	provider := &mockAuthProvider{err: errors.New("idp timeout")}

	router := gin.New()
	router.Use(AuthMiddleware(provider, nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication failed")
}

// A rejected token must leave an auth.failed event on the trail.
func TestAuthMiddleware_RejectionIsAudited(t *testing.T) {
	events := audit.NewMemorySink(16)
	trail := audit.NewTrail(events)
	provider := &mockAuthProvider{err: extensions.ErrUnauthorized}

	router := gin.New()
	router.Use(AuthMiddleware(provider, trail))
	router.GET("/v1/sessions", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer bad")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	recorded := events.Query("", 10)
	require.Len(t, recorded, 1)
	assert.Equal(t, "auth.failed", recorded[0].EventType)
	assert.Equal(t, "failure", recorded[0].Outcome)
	assert.Equal(t, "/v1/sessions", recorded[0].ResourceID)
	assert.Equal(t, "anonymous", recorded[0].UserID)
}

// Provider failures audit as errors, not failures.
func TestAuthMiddleware_ProviderFailureIsAuditedAsError(t *testing.T) {
	events := audit.NewMemorySink(16)
	trail := audit.NewTrail(events)
	provider := &mockAuthProvider{err: errors.New("idp timeout")}

	router := gin.New()
	router.Use(AuthMiddleware(provider, trail))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	recorded := events.Query("", 10)
	require.Len(t, recorded, 1)
	assert.Equal(t, "auth.failed", recorded[0].EventType)
	assert.Equal(t, "error", recorded[0].Outcome)
}

// =============================================================================
// RequireRole Tests
// =============================================================================

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		info     *extensions.AuthInfo
		wantCode int
	}{
		{"admin allowed", &extensions.AuthInfo{UserID: "u", TenantID: "t", Roles: []string{"admin"}}, http.StatusOK},
		{"member forbidden", &extensions.AuthInfo{UserID: "u", TenantID: "t", Roles: []string{"member"}}, http.StatusForbidden},
		{"no identity unauthorized", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.info != nil {
					SetAuthInfo(c, tt.info)
				}
			})
			router.Use(RequireRole("admin", nil))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// A role denial must leave an authz.denied event scoped to the caller.
func TestRequireRole_DenialIsAudited(t *testing.T) {
	events := audit.NewMemorySink(16)
	trail := audit.NewTrail(events)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		SetAuthInfo(c, &extensions.AuthInfo{
			UserID: "bob", TenantID: "acme", Roles: []string{"member"},
		})
	})
	router.Use(RequireRole("admin", trail))
	router.GET("/v1/admin/sessions", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/admin/sessions", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	recorded := events.Query("acme", 10)
	require.Len(t, recorded, 1)
	assert.Equal(t, "authz.denied", recorded[0].EventType)
	assert.Equal(t, "bob", recorded[0].UserID)
	assert.Equal(t, "blocked", recorded[0].Outcome)
	assert.Equal(t, "/v1/admin/sessions", recorded[0].ResourceID)
}

// GetAuthInfo must tolerate a wrong-typed context value.
func TestGetAuthInfo_WrongType(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(authInfoKey, "not an AuthInfo")

	assert.Nil(t, GetAuthInfo(c))
}
