// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads gateway configuration from the environment and an
// optional YAML file, and hot-reloads tenant rate-limit overrides when
// the file changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// TenantLimits are the per-tenant request limits. A zero RatePerSecond
// means the tenant uses the default limits.
type TenantLimits struct {
	// RatePerSecond is the sustained request rate.
	RatePerSecond float64 `yaml:"rate_per_second"`
	// Burst is the bucket size for short spikes.
	Burst int `yaml:"burst"`
}

// FileConfig is the YAML file schema. Everything in it is optional;
// env vars win for scalar settings.
type FileConfig struct {
	DefaultLimits TenantLimits            `yaml:"default_limits"`
	TenantLimits  map[string]TenantLimits `yaml:"tenant_limits"`
}

// Config is the resolved gateway configuration.
//
// Scalar fields are fixed at startup. Limits are captured behind a mutex
// because the watcher replaces them on file change.
type Config struct {
	// Port the HTTP server listens on. Env: ZEN_GATEWAY_PORT. Default 8420.
	Port string

	// StorePath is the BadgerDB directory. Env: ZEN_STORE_PATH.
	// Default /var/lib/zen/gateway.
	StorePath string

	// AuditLogPath is the JSONL audit file. Env: ZEN_AUDIT_LOG.
	// Default /var/log/zen/audit.jsonl.
	AuditLogPath string

	// LLMBackend selects the model backend: "openai" or "echo".
	// Env: ZEN_LLM_BACKEND. Default "openai".
	LLMBackend string

	// SessionTTL is the sliding session expiry. Env: ZEN_SESSION_TTL_HOURS.
	// Default 720h (30 days). Zero disables expiry.
	SessionTTL time.Duration

	// ConfigFile is the optional YAML file with tenant limit overrides.
	// Env: ZEN_CONFIG_FILE.
	ConfigFile string

	mu            sync.RWMutex
	defaultLimits TenantLimits
	tenantLimits  map[string]TenantLimits
}

// Load resolves configuration from the environment and, if present, the
// YAML file named by ZEN_CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         envOr("ZEN_GATEWAY_PORT", "8420"),
		StorePath:    envOr("ZEN_STORE_PATH", "/var/lib/zen/gateway"),
		AuditLogPath: envOr("ZEN_AUDIT_LOG", "/var/log/zen/audit.jsonl"),
		LLMBackend:   envOr("ZEN_LLM_BACKEND", "openai"),
		ConfigFile:   os.Getenv("ZEN_CONFIG_FILE"),
		defaultLimits: TenantLimits{
			RatePerSecond: 10,
			Burst:         20,
		},
		tenantLimits: map[string]TenantLimits{},
	}

	ttlHours := 720
	if v := os.Getenv("ZEN_SESSION_TTL_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid ZEN_SESSION_TTL_HOURS %q", v)
		}
		ttlHours = n
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	if cfg.ConfigFile != "" {
		if err := cfg.ReloadFile(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ReloadFile re-reads the YAML file and swaps in the new limits. Called
// at startup and by the watcher. Malformed files leave the previous
// limits in place and return an error.
func (c *Config) ReloadFile() error {
	if c.ConfigFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", c.ConfigFile, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", c.ConfigFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if fc.DefaultLimits.RatePerSecond > 0 {
		c.defaultLimits = fc.DefaultLimits
	}
	if fc.TenantLimits != nil {
		c.tenantLimits = fc.TenantLimits
	}
	return nil
}

// LimitsFor returns the limits for a tenant, falling back to the default.
func (c *Config) LimitsFor(tenant string) TenantLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if tl, ok := c.tenantLimits[tenant]; ok && tl.RatePerSecond > 0 {
		return tl
	}
	return c.defaultLimits
}

// SetLimits replaces a tenant's limits at runtime. Used by tests and by
// the watcher indirectly through ReloadFile.
func (c *Config) SetLimits(tenant string, tl TenantLimits) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tenantLimits[tenant] = tl
}
