package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kavirubc/tplcheck/internal/config"
)

type countingProvider struct {
	calls atomic.Int32
	reply string
	err   error
}

func (p *countingProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt)
}

func (p *countingProvider) CompleteWithSystem(_ context.Context, _, prompt string) (string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return "", p.err
	}
	return p.reply + ":" + prompt, nil
}

func (p *countingProvider) Close() error { return nil }

func TestCachedProvider_ReusesReplies(t *testing.T) {
	inner := &countingProvider{reply: "ok"}
	cached, err := NewCachedProvider(inner, 8)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached.Complete(ctx, "same")
	require.NoError(t, err)
	second, err := cached.Complete(ctx, "same")
	require.NoError(t, err)
	_, err = cached.Complete(ctx, "other")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, 2, cached.Len())
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("unreachable")}
	cached, err := NewCachedProvider(inner, 8)
	require.NoError(t, err)

	_, err = cached.Complete(context.Background(), "p")
	require.Error(t, err)
	_, err = cached.Complete(context.Background(), "p")
	require.Error(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, 0, cached.Len())
}

func TestOllamaProvider_SendsZeroTemperatureChat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Similarity: 100%"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL+"/v1", "qwen2.5", 0)
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), "check this")
	require.NoError(t, err)
	assert.Equal(t, "Similarity: 100%", reply)

	assert.Equal(t, "qwen2.5", got["model"])
	temp, ok := got["temperature"].(float64)
	require.True(t, ok, "temperature must be sent explicitly")
	assert.InDelta(t, 0, temp, 1e-9)

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestOllamaProvider_PropagatesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL+"/v1", "missing", 0)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestGeminiProvider_SendsZeroTemperatureRequest(t *testing.T) {
	var got struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig map[string]any `json:"generationConfig"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Similarity: "},{"text":"80%"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider("g-key", srv.URL, "gemini-test", 5*time.Second)
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), "check this")
	require.NoError(t, err)
	assert.Equal(t, "Similarity: 80%", reply)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "check this", got.Contents[0].Parts[0].Text)

	temp, ok := got.GenerationConfig["temperature"].(float64)
	require.True(t, ok, "temperature must be sent explicitly")
	assert.InDelta(t, 0, temp, 1e-9)
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider("g-key", srv.URL, "gemini-test", 0)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "check this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiProvider_PropagatesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider("bad", srv.URL, "", 0)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "check this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), defaultGeminiModel)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(&config.LLMConfig{Provider: "ollama", CacheSize: 4})
	require.NoError(t, err)
	_, isCached := p.(*CachedProvider)
	assert.True(t, isCached)

	_, err = NewProvider(&config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewProvider(&config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewProvider(&config.LLMConfig{Provider: "bard"})
	assert.Error(t, err)
}
