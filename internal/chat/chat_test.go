package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm/llmtest"
)

func ptr(s string) *string { return &s }

func TestApplySettings_PresetFillsPrompt(t *testing.T) {
	svc := NewService(llmtest.Text(""), catalog.Default())
	st := svc.NewState()

	require.NoError(t, svc.ApplySettings(&st, SettingsInput{Preset: ptr("Tech Support")}))
	assert.Contains(t, st.Settings.SystemPrompt, "tech support specialist")

	require.NoError(t, svc.ApplySettings(&st, SettingsInput{Preset: ptr("Creative Writer"), SystemPrompt: ptr("Talk like a pirate.")}))
	assert.Equal(t, "Creative Writer", st.Settings.Preset)
	assert.Equal(t, "Talk like a pirate.", st.Settings.SystemPrompt, "explicit prompt overrides the preset")
}

func TestApplySettings_Rejects(t *testing.T) {
	svc := NewService(llmtest.Text(""), catalog.Default())
	st := svc.NewState()

	err := svc.ApplySettings(&st, SettingsInput{Model: ptr("gpt-2")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.ApplySettings(&st, SettingsInput{Preset: ptr("Villain")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "gemini-2.5-pro", st.Settings.Model)
}

func TestSend_BuildsRequestFromLog(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: "Hi!"}, llmtest.Response{Text: "Sure."})
	svc := NewService(fake, catalog.Default())
	st := svc.NewState()
	require.NoError(t, svc.ApplySettings(&st, SettingsInput{SystemPrompt: ptr("  Be brief.  "), Model: ptr("gpt-4")}))

	require.NoError(t, svc.Send(context.Background(), &st, "Hello"))
	require.NoError(t, svc.Send(context.Background(), &st, "Help me"))

	require.Len(t, st.Messages, 4)
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleAssistant, Content: "Sure."}, st.Messages[3])

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "gpt-4", reqs[1].Model)
	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "Be brief."},
		{Role: domain.RoleUser, Content: "Hello"},
		{Role: domain.RoleAssistant, Content: "Hi!"},
		{Role: domain.RoleUser, Content: "Help me"},
	}, reqs[1].Messages)
}

func TestSend_ErrorBecomesAssistantMessage(t *testing.T) {
	svc := NewService(llmtest.New(llmtest.Response{Err: errors.New("rate limited")}), catalog.Default())
	st := svc.NewState()

	require.NoError(t, svc.Send(context.Background(), &st, "Hello"))
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "Error: rate limited", st.Messages[1].Content)
}

func TestSend_EmptyMessage(t *testing.T) {
	svc := NewService(llmtest.Text("x"), catalog.Default())
	st := svc.NewState()

	err := svc.Send(context.Background(), &st, "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, st.Messages)
}

func TestBuildMessages_BlankSystemPrompt(t *testing.T) {
	log := []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}
	assert.Equal(t, log, BuildMessages(" \n ", log))
}

func TestClear(t *testing.T) {
	svc := NewService(llmtest.Text("ok"), catalog.Default())
	st := svc.NewState()
	require.NoError(t, svc.Send(context.Background(), &st, "Hello"))

	svc.Clear(&st)
	assert.Empty(t, st.Messages)
	assert.Equal(t, "gemini-2.5-pro", st.Settings.Model)
}
