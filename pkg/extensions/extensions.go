// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines interfaces for hosted-tier functionality.
//
// This package provides extension points that allow the hosted Zen
// control plane to add capabilities without modifying the core backend.
// The self-hosted version uses no-op defaults for all interfaces.
//
// # Design Philosophy
//
// The Zen gateway is designed as a fully functional self-hosted backend
// that works without any external identity or compliance infrastructure.
// Hosted features are implemented by providing concrete implementations
// of these interfaces and injecting them via ServiceOptions.
//
// # Extension Categories
//
//   - auth.go: authentication and authorization (AuthProvider, AuthzProvider)
//   - audit.go: compliance audit logging (AuditLogger)
//
// # Usage (self-hosted)
//
//	opts := extensions.DefaultOptions()
//	srv := gateway.New(cfg, opts)
//
// # Usage (hosted)
//
//	opts := extensions.ServiceOptions{
//	    AuthProvider: hosted.NewJWTProvider(issuer),
//	    AuditLogger:  hosted.NewWarehouseAuditor(cfg),
//	}
//
// # Thread Safety
//
// All interface implementations must be safe for concurrent use.
package extensions

// ServiceOptions groups all extension points for service configuration.
//
// All fields are optional; nil values are replaced with no-op defaults
// when DefaultOptions() is called or when services check for nil.
type ServiceOptions struct {
	// AuthProvider validates authentication tokens.
	// Default: NopAuthProvider (always returns a valid local user).
	AuthProvider AuthProvider

	// AuthzProvider checks authorization permissions.
	// Default: NopAuthzProvider (allows all actions).
	AuthzProvider AuthzProvider

	// AuditLogger records security-relevant events.
	// Default: NopAuditLogger (discards all events).
	AuditLogger AuditLogger
}

// DefaultOptions returns ServiceOptions with no-op defaults.
// This is the configuration used by the self-hosted version.
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		AuthProvider:  &NopAuthProvider{},
		AuthzProvider: &NopAuthzProvider{},
		AuditLogger:   &NopAuditLogger{},
	}
}

// WithAuth returns a copy of opts with the given AuthProvider.
func (opts ServiceOptions) WithAuth(provider AuthProvider) ServiceOptions {
	opts.AuthProvider = provider
	return opts
}

// WithAuthz returns a copy of opts with the given AuthzProvider.
func (opts ServiceOptions) WithAuthz(provider AuthzProvider) ServiceOptions {
	opts.AuthzProvider = provider
	return opts
}

// WithAudit returns a copy of opts with the given AuditLogger.
func (opts ServiceOptions) WithAudit(logger AuditLogger) ServiceOptions {
	opts.AuditLogger = logger
	return opts
}
