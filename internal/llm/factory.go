package llm

import (
	"fmt"
	"time"

	"github.com/Kavirubc/tplcheck/internal/config"
)

// NewProvider creates an LLM provider based on config, wrapped in a reply cache
// when cache_size is positive.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var (
		provider Provider
		err      error
	)
	switch cfg.Provider {
	case "ollama":
		provider, err = NewOllamaProvider(cfg.BaseURL, cfg.Model, timeout)
	case "openai":
		provider, err = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, timeout)
	case "gemini":
		provider, err = NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		return NewCachedProvider(provider, cfg.CacheSize)
	}
	return provider, nil
}
