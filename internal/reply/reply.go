// Package reply implements the message reply generator: saved tone
// preferences plus a reply for every pasted message.
package reply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
)

// App is the state document name.
const App = "reply"

const (
	model       = "gpt-3.5-turbo"
	maxTokens   = 300
	temperature = 0.7

	missingKeyText = "API 金鑰未設定，請在環境變數或 .env 中設定 API_KEY。"
	callErrorText  = "呼叫 AI 時發生錯誤："
)

// Preferences shape every generated reply.
type Preferences struct {
	Audience string `json:"audience"`
	Style    string `json:"style"`
	Issue    string `json:"issue"`
	Length   string `json:"length"`
}

// State holds the saved preferences and the conversation.
type State struct {
	Preferences Preferences          `json:"preferences"`
	Messages    []domain.ChatMessage `json:"messages"`
}

// Service runs the reply generator.
type Service struct {
	llm     llm.Completer
	catalog *catalog.Catalog
}

// NewService creates a reply Service.
func NewService(c llm.Completer, cat *catalog.Catalog) *Service {
	return &Service{llm: c, catalog: cat}
}

// NewState returns empty preferences and no messages.
func NewState() State {
	return State{Messages: []domain.ChatMessage{}}
}

// SavePreferences validates and stores p.
func (s *Service) SavePreferences(st *State, p Preferences) error {
	opts := s.catalog.Reply
	check := func(field, v string, allowed []string) error {
		if v != "" && !slices.Contains(allowed, v) {
			return fmt.Errorf("%w: unknown %s %q", domain.ErrInvalidInput, field, v)
		}
		return nil
	}
	if err := errors.Join(
		check("audience", p.Audience, opts.Audiences),
		check("style", p.Style, opts.Styles),
		check("length", p.Length, opts.Lengths),
	); err != nil {
		return err
	}
	p.Issue = strings.TrimSpace(p.Issue)
	st.Preferences = p
	return nil
}

// Send appends the received message and the generated reply.
func (s *Service) Send(ctx context.Context, st *State, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	st.Messages = append(st.Messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	text, err := s.llm.Complete(ctx, llm.Request{
		Model: model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: SystemPrompt(st.Preferences)},
			{Role: domain.RoleUser, Content: message},
		},
		MaxTokens:   maxTokens,
		Temperature: llm.Temperature(temperature),
	})
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		text = missingKeyText
	case err != nil:
		slog.Warn("Reply generation failed", "error", err)
		text = callErrorText + err.Error()
	default:
		text = strings.TrimSpace(text)
	}
	st.Messages = append(st.Messages, domain.ChatMessage{Role: domain.RoleAssistant, Content: text})
	return nil
}

// Clear empties the conversation and keeps the preferences.
func (s *Service) Clear(st *State) {
	st.Messages = []domain.ChatMessage{}
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// SystemPrompt renders the preferences into the assistant instructions.
func SystemPrompt(p Preferences) string {
	return "你係一個幫助撰寫短訊/回覆嘅助理。" +
		"收件人: " + or(p.Audience, "不指定") + "；" +
		"風格: " + or(p.Style, "中性") + "；" +
		"主題/議題: " + or(p.Issue, "一般") + "；" +
		"長度: " + or(p.Length, "中等") + "。" +
		"請用簡潔、禮貌且實用嘅語氣回覆使用者訊息。"
}
