package reply

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
	"github.com/ashureev/shsh-demos/internal/llm/llmtest"
)

func TestSystemPrompt_Defaults(t *testing.T) {
	assert.Equal(t,
		"你係一個幫助撰寫短訊/回覆嘅助理。收件人: 不指定；風格: 中性；主題/議題: 一般；長度: 中等。請用簡潔、禮貌且實用嘅語氣回覆使用者訊息。",
		SystemPrompt(Preferences{}))
	assert.Contains(t, SystemPrompt(Preferences{Audience: "teacher", Style: "formal"}), "收件人: teacher；風格: formal；")
}

func TestSend_UsesPreferencesAndFixedParameters(t *testing.T) {
	fake := llmtest.Text("  Sure, see you at 3pm.  ")
	svc := NewService(fake, catalog.Default())
	st := NewState()
	require.NoError(t, svc.SavePreferences(&st, Preferences{Audience: "colleague", Issue: " meeting ", Length: "1 sentence only"}))

	require.NoError(t, svc.Send(context.Background(), &st, "Can we move the meeting?"))

	require.Len(t, st.Messages, 2)
	assert.Equal(t, "Sure, see you at 3pm.", st.Messages[1].Content)

	req := fake.Requests()[0]
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.EqualValues(t, 300, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.7, *req.Temperature, 1e-9)
	require.Len(t, req.Messages, 2, "only the system prompt and the current message are sent")
	assert.Contains(t, req.Messages[0].Content, "主題/議題: meeting；")
}

func TestSend_ErrorTexts(t *testing.T) {
	svc := NewService(llmtest.New(
		llmtest.Response{Err: llm.ErrMissingAPIKey},
		llmtest.Response{Err: errors.New("boom")},
	), catalog.Default())
	st := NewState()

	require.NoError(t, svc.Send(context.Background(), &st, "a"))
	require.NoError(t, svc.Send(context.Background(), &st, "b"))

	assert.Equal(t, missingKeyText, st.Messages[1].Content)
	assert.Equal(t, "呼叫 AI 時發生錯誤：boom", st.Messages[3].Content)
}

func TestSavePreferences_Rejects(t *testing.T) {
	svc := NewService(llmtest.Text(""), catalog.Default())
	st := NewState()

	require.ErrorIs(t, svc.SavePreferences(&st, Preferences{Style: "grumpy"}), domain.ErrInvalidInput)
	assert.Equal(t, Preferences{}, st.Preferences)

	require.ErrorIs(t, svc.Send(context.Background(), &st, ""), domain.ErrInvalidInput)
}
