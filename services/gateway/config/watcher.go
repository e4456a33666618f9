// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads tenant limits when the config file changes on disk.
//
// The parent directory is watched rather than the file itself, because
// most editors and config rollouts replace the file (rename over it)
// instead of writing in place, which would drop an inode-scoped watch.
type Watcher struct {
	cfg     *Config
	fsw     *fsnotify.Watcher
	done    chan struct{}
	onError func(error)
}

// NewWatcher starts watching the config file's directory. Returns nil
// (no watcher) when the Config has no file.
func NewWatcher(cfg *Config) (*Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(cfg.ConfigFile)); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{cfg: cfg, fsw: fsw, done: make(chan struct{})}
	go w.loop()
	slog.Info("config watcher started", "file", cfg.ConfigFile)
	return w, nil
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.cfg.ConfigFile)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.cfg.ReloadFile(); err != nil {
				slog.Error("config reload failed, keeping previous limits", "error", err)
				continue
			}
			slog.Info("tenant limits reloaded", "file", target)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. Safe to call on a nil receiver so callers can
// unconditionally defer it.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	close(w.done)
	return w.fsw.Close()
}
