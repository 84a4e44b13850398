package llm

import (
	"context"
)

// Provider defines the interface for LLM chat completion.
// Implementations sample at temperature 0 so identical prompts give reproducible replies.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
	Close() error
}
