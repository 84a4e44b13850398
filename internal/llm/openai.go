package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// zeroTemperature asks for greedy sampling; a literal 0 is dropped by omitempty.
const zeroTemperature = math.SmallestNonzeroFloat32

// OpenAIProvider implements Provider against any OpenAI-compatible chat endpoint,
// including Ollama's /v1 API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI chat provider.
// baseURL may point at any OpenAI-compatible gateway; empty means api.openai.com.
func NewOpenAIProvider(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newOpenAICompatible(cfg, model, timeout), nil
}

// NewOllamaProvider creates a provider talking to an Ollama server's OpenAI-compatible API
func NewOllamaProvider(baseURL, model string, timeout time.Duration) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	if model == "" {
		model = "qwen2.5"
	}

	// Ollama ignores the key but the client insists on sending one.
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = baseURL
	return newOpenAICompatible(cfg, model, timeout), nil
}

func newOpenAICompatible(cfg openai.ClientConfig, model string, timeout time.Duration) *OpenAIProvider {
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete generates a completion for the given prompt
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem generates a completion with a system prompt
func (p *OpenAIProvider) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}

	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: zeroTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// Close releases resources
func (p *OpenAIProvider) Close() error {
	return nil
}
