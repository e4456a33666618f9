// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the gateway service.
//
// # Authentication Flow
//
// The auth middleware extracts a bearer token from the Authorization
// header, validates it using the configured AuthProvider, and stores the
// resulting AuthInfo in the Gin context for downstream handlers.
//
//	Request
//	   │
//	   ▼
//	AuthMiddleware
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► provider.Validate(ctx, token)
//	   │
//	   └─► Store AuthInfo in context
//	           │
//	           ▼
//	       Handler (retrieves via GetAuthInfo)
//
// Token parsing happens exactly once, here. Handlers and stores consume
// the stored AuthInfo and never see the raw token, which is what makes
// the identity a single source of truth.
//
// # Self-Hosted Behavior
//
// With NopAuthProvider (default), all requests are authenticated as
// "local-user" in the "local" tenant with admin privileges, so the
// backend functions without any authentication infrastructure.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/audit"
)

// authInfoKey is the context key for storing AuthInfo. A namespaced key
// prevents collisions with other context values.
const authInfoKey = "zen_auth_info"

// SetAuthInfo stores the authenticated user info in the Gin context.
// Called by AuthMiddleware after successful authentication; exported for
// tests that need to fabricate an identity.
func SetAuthInfo(c *gin.Context, info *extensions.AuthInfo) {
	c.Set(authInfoKey, info)
}

// GetAuthInfo retrieves the authenticated user info from the Gin context.
// Returns nil if the request was not authenticated or the stored value
// has the wrong type.
func GetAuthInfo(c *gin.Context) *extensions.AuthInfo {
	if info, exists := c.Get(authInfoKey); exists {
		if authInfo, ok := info.(*extensions.AuthInfo); ok {
			return authInfo
		}
	}
	return nil
}

// AuthMiddleware creates a Gin middleware that authenticates requests.
//
// The middleware expects tokens in the Authorization header:
//
//	Authorization: Bearer <token>
//
// If the header is missing or malformed, the token passed to Validate is
// the empty string; NopAuthProvider accepts this and returns the local
// user, real providers reject it.
//
// Rejections are recorded on the audit trail as "auth.failed" events.
// A nil trail disables auditing (tests).
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func AuthMiddleware(provider extensions.AuthProvider, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)

		authInfo, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			outcome := "error"
			if errors.Is(err, extensions.ErrUnauthorized) {
				outcome = "failure"
			}
			if trail != nil {
				trail.Record(c.Request.Context(), extensions.AuditEvent{
					EventType:    "auth.failed",
					Action:       "authenticate",
					ResourceType: "route",
					ResourceID:   c.Request.URL.Path,
					Outcome:      outcome,
				})
			}
			if errors.Is(err, extensions.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{"code": "unauthorized", "message": "unauthorized"},
				})
				return
			}
			// Provider failures, network issues, etc.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "authentication failed"},
			})
			return
		}

		SetAuthInfo(c, authInfo)
		c.Next()
	}
}

// RequireRole gates a route group on a role. Must run after
// AuthMiddleware. Missing identity is treated as unauthorized, missing
// role as forbidden; denials are recorded as "authz.denied" events
// (nil trail disables auditing).
func RequireRole(role string, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := GetAuthInfo(c)
		if info == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "unauthorized"},
			})
			return
		}
		if !info.HasRole(role) {
			if trail != nil {
				trail.Record(c.Request.Context(), extensions.AuditEvent{
					EventType:    "authz.denied",
					UserID:       info.UserID,
					TenantID:     info.TenantID,
					Action:       "authorize",
					ResourceType: "route",
					ResourceID:   c.Request.URL.Path,
					Outcome:      "blocked",
				})
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "forbidden", "message": "insufficient role"},
			})
			return
		}
		c.Next()
	}
}

// extractBearerToken parses the Authorization header expecting
// "Bearer <token>". Returns empty string if the header is missing or
// malformed. The "Bearer" prefix is case-insensitive per RFC 7235.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
