package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/config"
	"github.com/ashureev/shsh-demos/internal/domain"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gemini-2.5-pro",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %q}}]
}`

func newTestServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, completionJSON, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{APIKey: "test-key", BaseURL: baseURL + "/v1", Timeout: 5 * time.Second}
}

func TestComplete_SendsMessagesAndOptions(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, "Hello there", &body)
	c := NewClient(testConfig(srv.URL), srv.Client())

	got, err := c.Complete(context.Background(), Request{
		Model: "gpt-3.5-turbo",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "be nice"},
			{Role: domain.RoleUser, Content: "hi"},
			{Role: domain.RoleAssistant, Content: "hello"},
			{Role: domain.RoleUser, Content: "again"},
		},
		MaxTokens:   300,
		Temperature: Temperature(0.7),
		Extra:       map[string]any{"aspect": "3:2", "quality": "high"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", got)

	assert.Equal(t, "gpt-3.5-turbo", body["model"])
	assert.EqualValues(t, 300, body["max_tokens"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.Equal(t, "3:2", body["aspect"])
	assert.Equal(t, "high", body["quality"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
}

func TestComplete_MissingKey(t *testing.T) {
	c := NewClient(config.LLMConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	assert.False(t, c.Configured())

	_, err := c.Complete(context.Background(), Request{Model: "gpt-4"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestComplete_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.Complete(context.Background(), Request{Model: "gpt-4", Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}})
	require.Error(t, err)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.Complete(context.Background(), Request{Model: "m", Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"![img](https://cdn.example.com/a.png)", "https://cdn.example.com/a.png"},
		{"see http://x.io/p?q=1 and more", "http://x.io/p?q=1"},
		{"no link here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractURL(tt.in))
	}
}
