// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_StartStop(t *testing.T) {
	s := newTestStore(t, time.Hour)
	sw := NewSweeper(s, SweeperConfig{Interval: 10 * time.Millisecond})

	sw.Start()
	sw.Start() // second Start is a no-op

	time.Sleep(30 * time.Millisecond)

	sw.Stop()
	sw.Stop() // second Stop is a no-op
}

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	s := newTestStore(t, time.Millisecond)
	sess, err := s.Create("acme", "alice", "short-lived")
	require.NoError(t, err)

	sw := NewSweeper(s, SweeperConfig{Interval: 10 * time.Millisecond})
	sw.Start()
	defer sw.Stop()

	require.Eventually(t, func() bool {
		_, err := s.Get("acme", "alice", sess.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond, "expired session should be swept")
}

func TestSweeper_DefaultInterval(t *testing.T) {
	s := newTestStore(t, 0)
	sw := NewSweeper(s, SweeperConfig{})
	assert.Equal(t, 10*time.Minute, sw.config.Interval)
}
