// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agents

import (
	"context"
	"testing"
	"time"

	"github.com/netra-systems/zen/services/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptAgent_PersonaGoesThroughChat(t *testing.T) {
	client := &llm.EchoClient{Prefix: "echo: "}
	agent := NewPromptAgent("pirate", "1.0.0", "talks like a pirate",
		"You are a pirate.", 0, client)

	assert.Equal(t, "pirate", agent.Name())
	assert.Equal(t, 60*time.Second, agent.DefaultTimeout())

	result, err := Run(context.Background(), agent,
		ExecutionContext{TenantID: "acme", UserID: "alice", Input: "ahoy"}, 0)
	require.NoError(t, err)
	// The echo backend returns the last turn, which is the user input.
	assert.Equal(t, "echo: ahoy", result.Output)
}

func TestPromptAgent_EmptyPersonaGenerates(t *testing.T) {
	client := &llm.EchoClient{Prefix: "echo: "}
	agent := NewPromptAgent("plain", "1.0.0", "", "", time.Second, client)

	out, err := agent.Execute(context.Background(), ExecutionContext{Input: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}
