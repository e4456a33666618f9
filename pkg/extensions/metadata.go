// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import "time"

// Metadata is a typed map for provider-specific claims and event details.
// The fluent Set and the typed getters keep call sites free of type
// assertions:
//
//	md := extensions.NewMetadata().
//	    Set("plan", "enterprise").
//	    Set("mfa_verified", true)
//
//	plan, ok := md.GetString("plan")
type Metadata map[string]any

// NewMetadata returns an empty Metadata map ready for fluent Set calls.
func NewMetadata() Metadata {
	return make(Metadata)
}

// Set stores a value and returns the map for chaining. A nil receiver
// is replaced with a fresh map.
func (m Metadata) Set(key string, value any) Metadata {
	if m == nil {
		m = NewMetadata()
	}
	m[key] = value
	return m
}

// Get returns the raw value and whether the key exists.
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// GetString returns the value if it exists and is a string.
func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns the value if it exists and is an int-compatible number.
// JSON round-trips store numbers as float64, so those are accepted when
// they hold an integral value.
func (m Metadata) GetInt(key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// GetBool returns the value if it exists and is a bool.
func (m Metadata) GetBool(key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetTime returns the value if it exists and is a time.Time.
func (m Metadata) GetTime(key string) (time.Time, bool) {
	v, ok := m[key]
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Has reports whether the key exists.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Clone returns a shallow copy. Mutating the copy does not affect the
// original.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a new map containing all entries from m overlaid with
// entries from other. Neither input is modified.
func (m Metadata) Merge(other Metadata) Metadata {
	out := m.Clone()
	if out == nil {
		out = NewMetadata()
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Len returns the number of entries; nil-safe.
func (m Metadata) Len() int { return len(m) }
