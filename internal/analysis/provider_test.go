package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(t *testing.T, status int, body interface{}, inspect func(r *http.Request, payload map[string]interface{})) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if inspect != nil {
			inspect(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	}
}

func TestChatCompletionProvider(t *testing.T) {
	answer := `{"emotions":[{"name":"Happy","score":80}],"themes":["Work"]}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, map[string]interface{}{
		"choices": []map[string]interface{}{{"message": map[string]string{"content": answer}, "finish_reason": "stop"}},
	}, func(r *http.Request, payload map[string]interface{}) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "gpt-4o", payload["model"])
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, payload["response_format"])
		messages, _ := payload["messages"].([]interface{})
		if assert.Len(t, messages, 2) {
			assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		}
	}))
	defer srv.Close()

	p := NewChatCompletionProvider("openai", srv.URL, "sk-test", "gpt-4o", 5*time.Second)
	out, err := p.Generate(context.Background(), AnalysisPrompt("great day at work"))

	require.NoError(t, err)
	assert.Equal(t, answer, out)
}

func TestChatCompletionProviderOmitsResponseFormat(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, map[string]interface{}{
		"choices": []map[string]interface{}{{"message": map[string]string{"content": "[]"}}},
	}, func(_ *http.Request, payload map[string]interface{}) {
		_, ok := payload["response_format"]
		assert.False(t, ok)
	}))
	defer srv.Close()

	p := NewChatCompletionProvider("deepseek", srv.URL, "k", "deepseek-chat", 5*time.Second)
	_, err := p.Generate(context.Background(), Prompt{User: "list"})
	require.NoError(t, err)
}

func TestChatCompletionProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    interface{}
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, map[string]string{"error": "boom"}, ErrProviderStatus},
		{"rate limited upstream", http.StatusTooManyRequests, map[string]string{"error": "slow down"}, ErrProviderStatus},
		{"no choices", http.StatusOK, map[string]interface{}{"choices": []interface{}{}}, ErrEmptyResponse},
		{"content filter", http.StatusOK, map[string]interface{}{
			"choices": []map[string]interface{}{{"message": map[string]string{"content": ""}, "finish_reason": "content_filter"}},
		}, ErrBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(t, tt.status, tt.body, nil))
			defer srv.Close()

			p := NewChatCompletionProvider("glm", srv.URL, "k", "glm-5", 5*time.Second)
			_, err := p.Generate(context.Background(), Prompt{User: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGeminiProvider(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content":      map[string]interface{}{"parts": []map[string]string{{"text": `{"emotions":`}, {"text": `[]}`}}},
			"finishReason": "STOP",
		}},
	}, func(r *http.Request, payload map[string]interface{}) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		assert.NotNil(t, payload["systemInstruction"])
		assert.NotNil(t, payload["contents"])
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL+"/", "g-key", "gemini-1.5-flash", 5*time.Second)
	out, err := p.Generate(context.Background(), AnalysisPrompt("text"))

	require.NoError(t, err)
	assert.Equal(t, `{"emotions":[]}`, out)
}

func TestGeminiProviderSafetyBlocks(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"prompt blocked", map[string]interface{}{"promptFeedback": map[string]string{"blockReason": "SAFETY"}}},
		{"candidate blocked", map[string]interface{}{
			"candidates": []map[string]interface{}{{"finishReason": "SAFETY", "content": map[string]interface{}{"parts": []interface{}{}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(t, http.StatusOK, tt.body, nil))
			defer srv.Close()

			p := NewGeminiProvider(srv.URL, "k", "m", 5*time.Second)
			_, err := p.Generate(context.Background(), Prompt{User: "x"})
			assert.ErrorIs(t, err, ErrBlocked)
			assert.Equal(t, "blocked", FailureReason(err))
		})
	}
}

func TestChainProviderFallsThrough(t *testing.T) {
	first := &fakeProvider{name: "first", err: ErrBlocked}
	second := &fakeProvider{name: "second", answer: "ok"}
	third := &fakeProvider{name: "third", answer: "unused"}

	out, err := NewChainProvider(first, second, third).Generate(context.Background(), Prompt{User: "x"})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChainProviderJoinsErrors(t *testing.T) {
	c := NewChainProvider(
		&fakeProvider{name: "a", err: ErrBlocked},
		&fakeProvider{name: "b", err: errors.New("timeout")},
	)

	_, err := c.Generate(context.Background(), Prompt{User: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlocked)
	assert.Contains(t, err.Error(), "b: timeout")
	assert.Equal(t, "chain", c.Name())

	_, err = NewChainProvider().Generate(context.Background(), Prompt{})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestRateLimitedProviderRefusesOverBudget(t *testing.T) {
	inner := &fakeProvider{answer: "ok"}
	p := NewRateLimitedProvider(inner, 2)

	for i := 0; i < 2; i++ {
		_, err := p.Generate(context.Background(), Prompt{})
		require.NoError(t, err)
	}
	_, err := p.Generate(context.Background(), Prompt{})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, inner.calls)
}

func TestNewProviderFromConfig(t *testing.T) {
	t.Run("no keys", func(t *testing.T) {
		cfg := &config.Config{AIProviders: []string{"gemini", "openai"}}
		assert.Nil(t, NewProviderFromConfig(cfg, nil))
	})

	t.Run("skips keyless providers", func(t *testing.T) {
		cfg := &config.Config{
			AIProviders:         []string{"gemini", "mystery", "deepseek"},
			DeepSeekAPIKey:      "k",
			AIRequestsPerMinute: 10,
			AITimeout:           time.Second,
		}
		p := NewProviderFromConfig(cfg, nil)
		require.NotNil(t, p)
		assert.Equal(t, "deepseek", p.Name())
	})
}
