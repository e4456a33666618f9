// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestLevel_ToSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.toSlogLevel())
	assert.Equal(t, slog.LevelInfo, LevelInfo.toSlogLevel())
	assert.Equal(t, slog.LevelWarn, LevelWarn.toSlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.toSlogLevel())
}

// =============================================================================
// File Logging Tests
// =============================================================================

func TestNew_FileLoggingWritesJSON(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "gateway",
		Quiet:   true,
	})

	logger.Info("session created", "session_id", "abc", "tenant_id", "acme")
	logger.Debug("should be filtered")
	require.NoError(t, logger.Close())

	name := "gateway_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entry must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "session created", entry["msg"])
	assert.Equal(t, "gateway", entry["service"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "acme", entry["tenant_id"])
}

func TestNew_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger := New(Config{LogDir: dir, Service: "gateway", Quiet: true})
	logger.Info("hello")
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNew_BadLogDirDegradesGracefully(t *testing.T) {
	// A file standing where the directory should be makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	logger := New(Config{LogDir: blocked, Service: "gateway", Quiet: true})
	logger.Info("still works")
	assert.NoError(t, logger.Close())
}

func TestLogger_With(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Service: "gateway", Quiet: true})
	child := logger.With("request_id", "r-1")
	child.Info("handled")
	require.NoError(t, logger.Close())

	name := "gateway_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "r-1", entry["request_id"])
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	logger := New(Config{Quiet: true})
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

// =============================================================================
// Exporter Tests
// =============================================================================

type captureExporter struct {
	mu      sync.Mutex
	entries []LogEntry
	flushed bool
	closed  bool
}

func (e *captureExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

func (e *captureExporter) Flush(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushed = true
	return nil
}

func (e *captureExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *captureExporter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

func TestLogger_ExporterReceivesEntries(t *testing.T) {
	exp := &captureExporter{}
	logger := New(Config{Level: LevelInfo, Service: "gateway", Quiet: true, Exporter: exp})

	logger.Info("exported", "key", "value")
	logger.Debug("below level, not exported")

	require.Eventually(t, func() bool { return exp.count() == 1 }, time.Second, 10*time.Millisecond)

	exp.mu.Lock()
	entry := exp.entries[0]
	exp.mu.Unlock()
	assert.Equal(t, "exported", entry.Message)
	assert.Equal(t, LevelInfo, entry.Level)
	assert.Equal(t, "gateway", entry.Service)
	assert.Equal(t, "value", entry.Attrs["key"])

	require.NoError(t, logger.Close())
	assert.True(t, exp.flushed)
	assert.True(t, exp.closed)
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestAttrsToMap(t *testing.T) {
	assert.Nil(t, attrsToMap(nil))

	m := attrsToMap([]any{"a", 1, "b", "two", 3, "skipped-key", "trailing"})
	assert.Equal(t, 1, m["a"])
	assert.Equal(t, "two", m["b"])
	assert.Len(t, m, 2)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandHome("~/logs"))
	assert.Equal(t, "/var/log/zen", expandHome("/var/log/zen"))
	assert.Equal(t, "", expandHome(""))
}
