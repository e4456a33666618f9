// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/netra-systems/zen/services/gateway/datatypes"
)

// ErrNotFound is returned when a session does not exist in the caller's
// tenant/user scope. Sessions in other tenants are indistinguishable
// from absent ones.
var ErrNotFound = errors.New("session not found")

// SessionStore persists sessions and messages in BadgerDB.
//
// # Tenant Isolation
//
// Every method takes tenant and user explicitly and builds keys with the
// tenant as the leading segment. Callers are expected to pass values from
// the authenticated identity; there is no method that crosses tenants.
//
// # Thread Safety
//
// Safe for concurrent use. Badger transactions provide isolation;
// AppendMessage serializes the turn counter within a single update
// transaction.
type SessionStore struct {
	db *badger.DB

	// ttl is the sliding session expiry. Zero disables expiry.
	ttl time.Duration
}

// NewSessionStore wraps an open Badger database. ttl is the sliding
// session expiry; zero disables TTL.
func NewSessionStore(db *badger.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

func sessKey(tenant, user, id string) []byte {
	return []byte(fmt.Sprintf("sess/%s/%s/%s", tenant, user, id))
}

func msgKey(tenant, user, id string, seq int) []byte {
	return []byte(fmt.Sprintf("msg/%s/%s/%s/%08d", tenant, user, id, seq))
}

func msgPrefix(tenant, user, id string) []byte {
	return []byte(fmt.Sprintf("msg/%s/%s/%s/", tenant, user, id))
}

// Create stores a new session owned by tenant/user and returns it.
func (s *SessionStore) Create(tenant, user, title string) (*datatypes.Session, error) {
	if tenant == "" || user == "" {
		return nil, errors.New("tenant and user are required")
	}
	now := time.Now().UTC()
	sess := &datatypes.Session{
		ID:        uuid.New().String(),
		TenantID:  tenant,
		UserID:    user,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return s.putSession(txn, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) putSession(txn *badger.Txn, sess *datatypes.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return txn.Set(sessKey(sess.TenantID, sess.UserID, sess.ID), data)
}

func (s *SessionStore) getSession(txn *badger.Txn, tenant, user, id string) (*datatypes.Session, error) {
	item, err := txn.Get(sessKey(tenant, user, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess datatypes.Session
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &sess)
	}); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get returns the session, or ErrNotFound if it does not exist in the
// given tenant/user scope.
func (s *SessionStore) Get(tenant, user, id string) (*datatypes.Session, error) {
	var sess *datatypes.Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		sess, err = s.getSession(txn, tenant, user, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// List returns sessions for a user, newest update first. An empty user
// lists all sessions in the tenant (admin use only; route-gated).
func (s *SessionStore) List(tenant, user string) ([]datatypes.Session, error) {
	prefix := fmt.Sprintf("sess/%s/", tenant)
	if user != "" {
		prefix = fmt.Sprintf("sess/%s/%s/", tenant, user)
	}
	var out []datatypes.Session
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var sess datatypes.Session
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			}); err != nil {
				return err
			}
			out = append(out, sess)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	// Newest first. Small N per user, so a simple insertion sort is fine.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].UpdatedAt.After(out[j-1].UpdatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

// AppendMessage adds a turn to the session, bumps the turn counter, and
// slides the TTL forward.
func (s *SessionStore) AppendMessage(tenant, user, id string, msg datatypes.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	return s.db.Update(func(txn *badger.Txn) error {
		sess, err := s.getSession(txn, tenant, user, id)
		if err != nil {
			return err
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := txn.Set(msgKey(tenant, user, id, sess.Turns), data); err != nil {
			return err
		}
		sess.Turns++
		sess.UpdatedAt = time.Now().UTC()
		if s.ttl > 0 {
			sess.ExpiresAt = sess.UpdatedAt.Add(s.ttl)
		}
		return s.putSession(txn, sess)
	})
}

// Messages returns the session's messages in insertion order.
// Returns ErrNotFound if the session does not exist.
func (s *SessionStore) Messages(tenant, user, id string) ([]datatypes.Message, error) {
	var out []datatypes.Message
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := s.getSession(txn, tenant, user, id); err != nil {
			return err
		}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := msgPrefix(tenant, user, id)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var msg datatypes.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			}); err != nil {
				return err
			}
			out = append(out, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a session and all its messages. Returns ErrNotFound if
// the session does not exist in scope.
func (s *SessionStore) Delete(tenant, user, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := s.getSession(txn, tenant, user, id); err != nil {
			return err
		}
		if err := txn.Delete(sessKey(tenant, user, id)); err != nil {
			return err
		}
		return deletePrefix(txn, msgPrefix(tenant, user, id))
	})
}

// PurgeUser removes all sessions and messages for a user within a tenant.
// Returns the number of sessions removed. Used by admin right-to-erasure.
func (s *SessionStore) PurgeUser(tenant, user string) (int, error) {
	sessions, err := s.List(tenant, user)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, sess := range sessions {
		if err := s.Delete(tenant, user, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// SweepExpired deletes sessions whose TTL has passed, with their messages.
// Returns the number of sessions removed. Called by the background sweeper.
func (s *SessionStore) SweepExpired(now time.Time) (int, error) {
	type ref struct{ tenant, user, id string }
	var expired []ref

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte("sess/")
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			var sess datatypes.Session
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			}); err != nil {
				// A corrupt record must not stall expiry for every
				// other session; the key still identifies the scope.
				tenant, user, id, _ := splitSessionKey(string(item.Key()))
				slog.Warn("skipping malformed session record",
					"tenant", tenant, "user", user, "session_id", id,
					"error", err)
				continue
			}
			if sess.Expired(now) {
				expired = append(expired, ref{sess.TenantID, sess.UserID, sess.ID})
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan expired sessions: %w", err)
	}

	swept := 0
	for _, r := range expired {
		if err := s.Delete(r.tenant, r.user, r.id); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // already gone, racing delete
			}
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// deletePrefix removes every key under the prefix within the transaction.
func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// splitSessionKey breaks a raw session key into tenant, user, session ID.
// Returns ok=false for malformed keys.
func splitSessionKey(key string) (tenant, user, id string, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != "sess" {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}
