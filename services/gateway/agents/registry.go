// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agents

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when an agent does not exist in the
	// caller's tenant. Agents in other tenants are indistinguishable
	// from absent ones.
	ErrNotFound = errors.New("agent not found")

	// ErrAlreadyRegistered is returned on duplicate registration within
	// a tenant.
	ErrAlreadyRegistered = errors.New("agent already registered")
)

// Entry is a registered agent with its registration time.
type Entry struct {
	Agent        Agent
	TenantID     string
	RegisteredAt time.Time
}

// Registry holds agents keyed by tenant, then by name. All lookups take
// the tenant from the authenticated identity, so cross-tenant access is
// structurally impossible.
//
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]map[string]Entry

	// defaults are built-in agents visible to every tenant. They are
	// code, not tenant data, so sharing them does not weaken isolation.
	defaults map[string]Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tenants:  make(map[string]map[string]Entry),
		defaults: make(map[string]Entry),
	}
}

// RegisterDefault installs a built-in agent visible to every tenant.
// A tenant-registered agent with the same name shadows the default.
func (r *Registry) RegisterDefault(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[a.Name()] = Entry{Agent: a, RegisteredAt: time.Now().UTC()}
}

// Register adds an agent to a tenant's namespace. Returns
// ErrAlreadyRegistered if the name is taken within that tenant; the same
// name may exist in different tenants.
func (r *Registry) Register(tenant string, a Agent) error {
	if tenant == "" {
		return errors.New("tenant is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byName, ok := r.tenants[tenant]
	if !ok {
		byName = make(map[string]Entry)
		r.tenants[tenant] = byName
	}
	if _, exists := byName[a.Name()]; exists {
		return ErrAlreadyRegistered
	}
	byName[a.Name()] = Entry{Agent: a, TenantID: tenant, RegisteredAt: time.Now().UTC()}
	return nil
}

// Get returns the entry for tenant/name, falling back to the built-in
// defaults, or ErrNotFound.
func (r *Registry) Get(tenant, name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if byName, ok := r.tenants[tenant]; ok {
		if entry, ok := byName[name]; ok {
			return entry, nil
		}
	}
	if entry, ok := r.defaults[name]; ok {
		entry.TenantID = tenant
		return entry, nil
	}
	return Entry{}, ErrNotFound
}

// List returns a tenant's entries plus the built-in defaults, sorted by
// name. Tenant registrations shadow defaults of the same name.
func (r *Registry) List(tenant string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byName := r.tenants[tenant]
	out := make([]Entry, 0, len(byName)+len(r.defaults))
	for name, e := range r.defaults {
		if _, shadowed := byName[name]; shadowed {
			continue
		}
		e.TenantID = tenant
		out = append(out, e)
	}
	for _, e := range byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Agent.Name() < out[j].Agent.Name()
	})
	return out
}

// Deregister removes an agent from a tenant's namespace. Returns
// ErrNotFound if absent.
func (r *Registry) Deregister(tenant, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byName, ok := r.tenants[tenant]
	if !ok {
		return ErrNotFound
	}
	if _, exists := byName[name]; !exists {
		return ErrNotFound
	}
	delete(byName, name)
	return nil
}
