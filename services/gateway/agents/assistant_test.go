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

	"github.com/netra-systems/zen/services/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantAgent_Execute(t *testing.T) {
	a := NewAssistantAgent(&llm.EchoClient{Prefix: "echo: "})

	assert.Equal(t, "assistant", a.Name())

	res, err := Run(context.Background(), a, ExecutionContext{
		TenantID: "acme", UserID: "alice", Input: "hello",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", res.Output)
}
