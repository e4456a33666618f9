// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication or authorization fails.
// Hosted implementations should wrap this error with additional context:
//
//	if !validToken {
//	    return nil, fmt.Errorf("token expired: %w", extensions.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication. This is the single source of truth for the caller's
// identity: every handler, store, and agent lookup derives tenant and
// user scoping from this struct, never from request bodies.
//
// Required fields (always populated):
//   - UserID: unique identifier for the user
//   - TenantID: the tenant the user belongs to
//
// Optional fields (may be empty):
//   - Email: user's email address
//   - Roles: roles/groups for authorization decisions
//   - Metadata: arbitrary provider-specific claims
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	// Never empty after successful validation.
	UserID string

	// TenantID identifies the tenant the user belongs to. All data access
	// is scoped by this value. Never empty after successful validation.
	TenantID string

	// Email is the user's email address, if the provider supplies one.
	Email string

	// Roles contains role memberships for authorization decisions.
	// Common roles: "admin", "operator", "member", "auditor".
	Roles []string

	// Metadata holds additional claims from the identity provider.
	// Hosted implementations can store provider-specific data here
	// without requiring changes to the core struct.
	Metadata Metadata
}

// HasRole reports whether the user has a specific role.
//
//	if !authInfo.HasRole("admin") {
//	    return ErrUnauthorized
//	}
func (a *AuthInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates authentication tokens and returns user identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Self-Hosted Behavior
//
// The default NopAuthProvider always returns a valid "local-user" in the
// "local" tenant with admin privileges. This allows the backend to run
// without any authentication infrastructure.
//
// # Hosted Implementation
//
// Hosted versions validate JWTs against the identity service. Token
// parsing happens in exactly one place (the provider), so there is a
// single source of truth for what a token means.
type AuthProvider interface {
	// Validate checks the token and returns the caller's identity.
	// Returns an error wrapping ErrUnauthorized if the token is invalid.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// AuthzProvider checks whether an authenticated user may perform an action
// on a resource. Implementations must be safe for concurrent use.
type AuthzProvider interface {
	// Authorize returns nil if the action is permitted, or an error
	// wrapping ErrUnauthorized if it is denied.
	Authorize(ctx context.Context, info *AuthInfo, action, resource string) error
}

// =============================================================================
// No-op Defaults (self-hosted)
// =============================================================================

// NopAuthProvider authenticates every request as a local admin user.
type NopAuthProvider struct{}

// Validate always succeeds with a local admin identity. The token is ignored.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID:   "local-user",
		TenantID: "local",
		Roles:    []string{"admin"},
	}, nil
}

// NopAuthzProvider allows every action.
type NopAuthzProvider struct{}

// Authorize always returns nil.
func (p *NopAuthzProvider) Authorize(_ context.Context, _ *AuthInfo, _, _ string) error {
	return nil
}

// =============================================================================
// Static Token Provider (tests and small deployments)
// =============================================================================

// StaticTokenProvider validates tokens against a fixed in-memory map.
// Useful for tests and single-box deployments with pre-shared tokens.
type StaticTokenProvider struct {
	// Tokens maps bearer token values to the identity they grant.
	Tokens map[string]*AuthInfo
}

// Validate looks the token up in the static map.
func (p *StaticTokenProvider) Validate(_ context.Context, token string) (*AuthInfo, error) {
	info, ok := p.Tokens[token]
	if !ok || token == "" {
		return nil, ErrUnauthorized
	}
	// Copy so callers cannot mutate the shared map entry.
	out := *info
	return &out, nil
}
