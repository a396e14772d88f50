// Package chat implements the chat assistant: a preset-driven system prompt,
// a model choice and an append-only message log.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
)

// App is the state document name.
const App = "chat"

// Settings are the sidebar choices.
type Settings struct {
	Preset       string `json:"preset"`
	SystemPrompt string `json:"system_prompt"`
	Model        string `json:"model"`
}

// State is the chat session document.
type State struct {
	Settings Settings             `json:"settings"`
	Messages []domain.ChatMessage `json:"messages"`
}

// SettingsInput is a partial settings change. Nil fields are left alone.
type SettingsInput struct {
	Preset       *string `json:"preset"`
	SystemPrompt *string `json:"system_prompt"`
	Model        *string `json:"model"`
}

// Service runs chat interactions.
type Service struct {
	llm     llm.Completer
	catalog *catalog.Catalog
}

// NewService creates a chat Service.
func NewService(c llm.Completer, cat *catalog.Catalog) *Service {
	return &Service{llm: c, catalog: cat}
}

// NewState returns the initial document: Custom preset, default model.
func (s *Service) NewState() State {
	return State{
		Settings: Settings{Preset: catalog.CustomPreset, Model: s.catalog.DefaultModel()},
		Messages: []domain.ChatMessage{},
	}
}

// ApplySettings changes the settings. Picking a preset loads its prompt
// unless the same input also carries an explicit prompt.
func (s *Service) ApplySettings(st *State, in SettingsInput) error {
	if in.Model != nil {
		if !s.catalog.HasModel(*in.Model) {
			return fmt.Errorf("%w: unknown model %q", domain.ErrInvalidInput, *in.Model)
		}
		st.Settings.Model = *in.Model
	}
	if in.Preset != nil {
		p, ok := s.catalog.Preset(*in.Preset)
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", domain.ErrInvalidInput, *in.Preset)
		}
		st.Settings.Preset = p.Name
		if in.SystemPrompt == nil {
			st.Settings.SystemPrompt = p.Prompt
		}
	}
	if in.SystemPrompt != nil {
		st.Settings.SystemPrompt = *in.SystemPrompt
	}
	return nil
}

// Send appends the user's message and the assistant's reply. A failed
// completion is appended as an "Error: ..." assistant message.
func (s *Service) Send(ctx context.Context, st *State, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	st.Messages = append(st.Messages, domain.ChatMessage{Role: domain.RoleUser, Content: text})

	reply, err := s.llm.Complete(ctx, llm.Request{
		Model:    st.Settings.Model,
		Messages: BuildMessages(st.Settings.SystemPrompt, st.Messages),
	})
	if err != nil {
		slog.Warn("Chat completion failed", "model", st.Settings.Model, "error", err)
		reply = "Error: " + err.Error()
	}
	st.Messages = append(st.Messages, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	return nil
}

// Clear empties the message log and keeps the settings.
func (s *Service) Clear(st *State) {
	st.Messages = []domain.ChatMessage{}
}

// BuildMessages prefixes the log with the system prompt when it is not blank.
func BuildMessages(systemPrompt string, log []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(log)+1)
	if sys, ok := domain.SystemMessage(systemPrompt); ok {
		out = append(out, sys)
	}
	return append(out, log...)
}
