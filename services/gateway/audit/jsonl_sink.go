// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/netra-systems/zen/pkg/extensions"
)

// JSONLSink appends audit events to a JSON Lines file, one event per
// line. The format is append-only and greppable, which is what operators
// actually reach for during an incident.
//
// Safe for concurrent use; a mutex serializes writes so lines never
// interleave.
type JSONLSink struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	path string
}

// NewJSONLSink opens (or creates) the audit log file in append mode,
// creating parent directories as needed.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create audit log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open audit log file %s: %w", path, err)
	}
	return &JSONLSink{file: f, enc: json.NewEncoder(f), path: path}, nil
}

// Path returns the file the sink writes to.
func (s *JSONLSink) Path() string { return s.path }

// Log implements extensions.AuditLogger.
func (s *JSONLSink) Log(_ context.Context, event extensions.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(wireEvent(event)); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// wireRecord is the serialized form of an audit event. Field names are
// part of the on-disk contract.
type wireRecord struct {
	EventType    string         `json:"event_type"`
	Timestamp    string         `json:"timestamp"`
	UserID       string         `json:"user_id"`
	TenantID     string         `json:"tenant_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Outcome      string         `json:"outcome"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func wireEvent(e extensions.AuditEvent) wireRecord {
	return wireRecord{
		EventType:    e.EventType,
		Timestamp:    e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		UserID:       e.UserID,
		TenantID:     e.TenantID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Outcome:      e.Outcome,
		Metadata:     e.Metadata,
	}
}
