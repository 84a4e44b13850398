package criteria

import (
	"context"
	"fmt"

	"github.com/Kavirubc/tplcheck/internal/llm"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Checker asks the model to restructure one row's content against the reference template.
type Checker struct {
	llm      llm.Provider
	template string
}

// NewChecker creates a checker; an empty template selects DefaultTemplate.
func NewChecker(provider llm.Provider, template string) *Checker {
	if template == "" {
		template = DefaultTemplate
	}
	return &Checker{
		llm:      provider,
		template: template,
	}
}

// Query sends content to the model and returns its raw reply.
// It makes exactly one call; failures come back wrapped in models.ErrExternalService.
func (c *Checker) Query(ctx context.Context, content string) (string, error) {
	reply, err := c.llm.Complete(ctx, BuildPrompt(c.template, content))
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrExternalService, err)
	}
	return reply, nil
}
