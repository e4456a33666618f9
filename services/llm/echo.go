package llm

import (
	"context"
	"fmt"

	"github.com/netra-systems/zen/services/gateway/datatypes"
)

// EchoClient is a deterministic backend for tests and smoke deployments.
// It echoes the last user message back with a fixed prefix.
type EchoClient struct {
	Prefix string
}

func NewEchoClient() *EchoClient {
	return &EchoClient{Prefix: "echo: "}
}

func (e *EchoClient) Model() string { return "echo" }

func (e *EchoClient) Generate(ctx context.Context, prompt string, _ GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.Prefix + prompt, nil
}

func (e *EchoClient) Chat(ctx context.Context, messages []datatypes.Message, _ GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	return e.Prefix + messages[len(messages)-1].Content, nil
}
