// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package agents defines the agent abstraction and the per-tenant registry.
//
// An Agent is a named unit of work invoked synchronously on behalf of an
// authenticated user. Execution is always scoped by an ExecutionContext
// carrying the caller's tenant and user, so an agent can never observe
// state belonging to another tenant. There is no scheduler here: callers
// invoke agents directly and the context deadline bounds execution.
package agents

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when an agent exceeds its execution deadline.
var ErrTimeout = errors.New("agent execution timed out")

// ExecutionContext carries the identity and session scope for one
// invocation. Agents must treat it as read-only.
type ExecutionContext struct {
	// TenantID and UserID come from the authenticated identity,
	// never from the request payload.
	TenantID string
	UserID   string

	// SessionID is the conversation the invocation belongs to.
	// May be empty for sessionless invocations.
	SessionID string

	// Input is the caller-supplied payload.
	Input string
}

// Result is the outcome of one invocation.
type Result struct {
	Output   string
	Duration time.Duration
}

// Agent is the interface all agents implement.
//
// Execute must honor ctx cancellation and must not retain the
// ExecutionContext after returning.
type Agent interface {
	// Name returns the agent's registry name, unique per tenant.
	Name() string

	// Version returns the agent implementation version.
	Version() string

	// Describe returns a one-line human-readable description.
	Describe() string

	// DefaultTimeout returns the execution deadline applied when the
	// caller does not override it.
	DefaultTimeout() time.Duration

	// Execute runs the agent. Implementations return their raw output;
	// the registry handles timing and deadline mapping.
	Execute(ctx context.Context, ec ExecutionContext) (string, error)
}

// BaseAgent supplies the identity plumbing so concrete agents only
// implement Execute. Embed it and populate the fields:
//
//	type summarizer struct {
//	    agents.BaseAgent
//	    llm llm.Client
//	}
//
//	func NewSummarizer(client llm.Client) *summarizer {
//	    return &summarizer{
//	        BaseAgent: agents.NewBase("summarizer", "1.2.0", "summarizes a session", 30*time.Second),
//	        llm:       client,
//	    }
//	}
type BaseAgent struct {
	name        string
	version     string
	description string
	timeout     time.Duration
}

// NewBase constructs the embedded base. timeout <= 0 defaults to
// 60 seconds.
func NewBase(name, version, description string, timeout time.Duration) BaseAgent {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return BaseAgent{name: name, version: version, description: description, timeout: timeout}
}

// Name implements Agent.
func (b BaseAgent) Name() string { return b.name }

// Version implements Agent.
func (b BaseAgent) Version() string { return b.version }

// Describe implements Agent.
func (b BaseAgent) Describe() string { return b.description }

// DefaultTimeout implements Agent.
func (b BaseAgent) DefaultTimeout() time.Duration { return b.timeout }

// Run executes an agent with deadline handling and timing. The effective
// timeout is the override if positive, else the agent default. Deadline
// expiry is mapped to ErrTimeout.
func Run(ctx context.Context, a Agent, ec ExecutionContext, override time.Duration) (*Result, error) {
	timeout := a.DefaultTimeout()
	if override > 0 {
		timeout = override
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	output, err := a.Execute(ctx, ec)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("agent %q after %v: %w", a.Name(), elapsed, ErrTimeout)
		}
		return nil, fmt.Errorf("agent %q: %w", a.Name(), err)
	}
	return &Result{Output: output, Duration: elapsed}, nil
}
