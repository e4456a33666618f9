// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ws tracks live WebSocket connections keyed by tenant and user.
//
// The registry exists for isolation, not delivery semantics: a message
// sent to a user fans out only to that user's own connections, and there
// is no API that addresses another tenant's connections. Ordering and
// reconnection guarantees beyond TCP are out of scope.
package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection with a write lock. Gorilla
// connections do not allow concurrent writers, so every send goes
// through SendJSON.
type Conn struct {
	id     string
	tenant string
	user   string

	mu   sync.Mutex
	sock *websocket.Conn
}

// ID returns the registry-assigned connection ID.
func (c *Conn) ID() string { return c.id }

// SendJSON marshals v and writes it to the socket, serialized with any
// other senders on this connection.
func (c *Conn) SendJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock.WriteJSON(v)
}

// Registry tracks connections by tenant, then user. Safe for
// concurrent use.
type Registry struct {
	mu sync.RWMutex
	// conns[tenant][user][connID]
	conns map[string]map[string]map[string]*Conn
	total int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[string]map[string]*Conn)}
}

// Add registers a socket under tenant/user and returns the wrapped Conn.
func (r *Registry) Add(tenant, user string, sock *websocket.Conn) *Conn {
	c := &Conn{
		id:     uuid.New().String(),
		tenant: tenant,
		user:   user,
		sock:   sock,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser, ok := r.conns[tenant]
	if !ok {
		byUser = make(map[string]map[string]*Conn)
		r.conns[tenant] = byUser
	}
	byID, ok := byUser[user]
	if !ok {
		byID = make(map[string]*Conn)
		byUser[user] = byID
	}
	byID[c.id] = c
	r.total++
	return c
}

// Remove unregisters a connection. Closing the underlying socket is the
// caller's responsibility. No-op if already removed.
func (r *Registry) Remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser, ok := r.conns[c.tenant]
	if !ok {
		return
	}
	byID, ok := byUser[c.user]
	if !ok {
		return
	}
	if _, exists := byID[c.id]; !exists {
		return
	}
	delete(byID, c.id)
	r.total--
	if len(byID) == 0 {
		delete(byUser, c.user)
	}
	if len(byUser) == 0 {
		delete(r.conns, c.tenant)
	}
}

// SendToUser delivers v to every live connection of one user in one
// tenant, and returns how many connections were reached. Failed sends
// are skipped; the read loop owns connection teardown.
func (r *Registry) SendToUser(tenant, user string, v any) int {
	r.mu.RLock()
	var targets []*Conn
	if byUser, ok := r.conns[tenant]; ok {
		for _, c := range byUser[user] {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.SendJSON(v); err == nil {
			sent++
		}
	}
	return sent
}

// CountForUser returns the number of live connections for one user.
func (r *Registry) CountForUser(tenant, user string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if byUser, ok := r.conns[tenant]; ok {
		return len(byUser[user])
	}
	return 0
}

// Count returns the total number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}
