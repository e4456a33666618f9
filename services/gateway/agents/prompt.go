// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agents

import (
	"context"
	"time"

	"github.com/netra-systems/zen/services/gateway/datatypes"
	"github.com/netra-systems/zen/services/llm"
)

// PromptAgent is a tenant-defined agent created at runtime via the
// register endpoint: a persona (system prompt) layered over the
// configured LLM client. It carries no state beyond its definition.
type PromptAgent struct {
	BaseAgent
	persona string
	client  llm.Client
}

// NewPromptAgent builds a tenant-defined agent. An empty persona makes
// it behave like the plain assistant.
func NewPromptAgent(name, version, description, persona string,
	timeout time.Duration, client llm.Client) *PromptAgent {

	return &PromptAgent{
		BaseAgent: NewBase(name, version, description, timeout),
		persona:   persona,
		client:    client,
	}
}

// Execute sends the persona and the input as a two-turn chat.
func (a *PromptAgent) Execute(ctx context.Context, ec ExecutionContext) (string, error) {
	if a.persona == "" {
		return a.client.Generate(ctx, ec.Input, llm.GenerationParams{})
	}
	messages := []datatypes.Message{
		{Role: "system", Content: a.persona},
		{Role: "user", Content: ec.Input},
	}
	return a.client.Chat(ctx, messages, llm.GenerationParams{})
}
