package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider remembers replies for prompts it has already seen.
// Failed calls are not cached.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, string]
}

// NewCachedProvider wraps inner with an LRU of the given size
func NewCachedProvider(inner Provider, size int) (*CachedProvider, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply cache: %w", err)
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

// Complete generates a completion for the given prompt
func (p *CachedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem returns a cached reply or asks the wrapped provider
func (p *CachedProvider) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	key := cacheKey(system, prompt)
	if reply, ok := p.cache.Get(key); ok {
		return reply, nil
	}

	reply, err := p.inner.CompleteWithSystem(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	p.cache.Add(key, reply)
	return reply, nil
}

// Len reports the number of cached replies
func (p *CachedProvider) Len() int {
	return p.cache.Len()
}

// Close releases resources
func (p *CachedProvider) Close() error {
	p.cache.Purge()
	return p.inner.Close()
}

func cacheKey(system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
