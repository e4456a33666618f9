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

	"github.com/netra-systems/zen/services/llm"
)

// AssistantAgent is the built-in general-purpose agent backed by the
// configured LLM client. Registered for every tenant at startup.
type AssistantAgent struct {
	BaseAgent
	client llm.Client
}

// NewAssistantAgent wraps an LLM client as an agent.
func NewAssistantAgent(client llm.Client) *AssistantAgent {
	return &AssistantAgent{
		BaseAgent: NewBase("assistant", "1.0.0",
			"general-purpose assistant backed by the configured model", 60*time.Second),
		client: client,
	}
}

// Execute sends the input straight to the model.
func (a *AssistantAgent) Execute(ctx context.Context, ec ExecutionContext) (string, error) {
	return a.client.Generate(ctx, ec.Input, llm.GenerationParams{})
}
