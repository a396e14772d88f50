// Package llm talks to the hosted OpenAI-compatible completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ashureev/shsh-demos/internal/config"
	"github.com/ashureev/shsh-demos/internal/domain"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is not configured")
	// ErrEmptyResponse is returned when the endpoint answers without choices.
	ErrEmptyResponse = errors.New("completion endpoint returned no choices")
)

// Request is one chat-completion call.
type Request struct {
	Model       string
	Messages    []domain.ChatMessage
	MaxTokens   int64
	Temperature *float64
	// Extra holds additional top-level body fields, e.g. image options.
	Extra map[string]any
}

// Completer produces the assistant text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client is the Completer backed by openai-go.
type Client struct {
	client openaigo.Client
	apiKey string
}

// NewClient builds a Client for cfg. A nil httpClient uses http.DefaultClient.
func NewClient(cfg config.LLMConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/"),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{client: openaigo.NewClient(opts...), apiKey: apiKey}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends req and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(req.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	params := openaigo.ChatCompletionNewParams{
		Model:    openaigo.ChatModel(req.Model),
		Messages: toParams(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaigo.Int(req.MaxTokens)
	}
	if req.Temperature != nil {
		params.Temperature = openaigo.Float(*req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, extraOptions(req.Extra)...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func toParams(msgs []domain.ChatMessage) []openaigo.ChatCompletionMessageParamUnion {
	out := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openaigo.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openaigo.AssistantMessage(m.Content))
		default:
			out = append(out, openaigo.UserMessage(m.Content))
		}
	}
	return out
}

// extraOptions turns Extra into body-field options in key order.
func extraOptions(extra map[string]any) []option.RequestOption {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]option.RequestOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, option.WithJSONSet(k, extra[k]))
	}
	return opts
}

var urlPattern = regexp.MustCompile(`https?://[^\s)]+`)

// ExtractURL returns the first http(s) URL in text, or "" if there is none.
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// Temperature is a helper for the optional Request.Temperature.
func Temperature(t float64) *float64 {
	return &t
}
