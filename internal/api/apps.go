package api

import (
	"fmt"
	"net/http"

	"github.com/ashureev/shsh-demos/internal/chat"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/facts"
	"github.com/ashureev/shsh-demos/internal/identity"
	"github.com/ashureev/shsh-demos/internal/recipe"
	"github.com/ashureev/shsh-demos/internal/reply"
	"github.com/ashureev/shsh-demos/internal/state"
)

// load reads the caller's document for app, writing the error response on
// failure.
func load[T any](w http.ResponseWriter, r *http.Request, s *state.Store, app string, init func() T) (T, bool) {
	v, err := state.Load(r.Context(), s, identity.SessionKeyFromContext(r.Context()), app, init)
	if err != nil {
		writeError(w, r, err)
		return v, false
	}
	return v, true
}

// mutate applies fn to the caller's document for app under the session lock.
func mutate[T any](w http.ResponseWriter, r *http.Request, s *state.Store, app string, init func() T, fn func(*T) error) (T, bool) {
	v, err := state.Update(r.Context(), s, identity.SessionKeyFromContext(r.Context()), app, init, fn)
	if err != nil {
		writeError(w, r, err)
		return v, false
	}
	return v, true
}

type messageRequest struct {
	Message string `json:"message"`
}

// GetChat returns the chat settings and message log.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	if st, ok := load(w, r, h.State, chat.App, h.Chat.NewState); ok {
		JSON(w, http.StatusOK, st)
	}
}

// UpdateChatSettings changes preset, system prompt or model.
func (h *Handler) UpdateChatSettings(w http.ResponseWriter, r *http.Request) {
	var in chat.SettingsInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, chat.App, h.Chat.NewState, func(st *chat.State) error {
		return h.Chat.ApplySettings(st, in)
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// SendChatMessage appends a message and the assistant's reply.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, chat.App, h.Chat.NewState, func(st *chat.State) error {
		return h.Chat.Send(r.Context(), st, in.Message)
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// ClearChat empties the message log.
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	st, ok := mutate(w, r, h.State, chat.App, h.Chat.NewState, func(st *chat.State) error {
		h.Chat.Clear(st)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// GetFacts returns the fact collection, newest first.
func (h *Handler) GetFacts(w http.ResponseWriter, r *http.Request) {
	if st, ok := load(w, r, h.State, facts.App, h.Facts.NewState); ok {
		JSON(w, http.StatusOK, st.Render())
	}
}

// UpdateFactSettings changes the category or model.
func (h *Handler) UpdateFactSettings(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Category string `json:"category"`
		Model    string `json:"model"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, facts.App, h.Facts.NewState, func(st *facts.State) error {
		return h.Facts.Select(st, in.Category, in.Model)
	})
	if ok {
		JSON(w, http.StatusOK, st.Render())
	}
}

// GenerateFact asks for one more fact.
func (h *Handler) GenerateFact(w http.ResponseWriter, r *http.Request) {
	st, ok := mutate(w, r, h.State, facts.App, h.Facts.NewState, func(st *facts.State) error {
		h.Facts.Generate(r.Context(), st)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, st.Render())
	}
}

// ClearFacts empties the collection.
func (h *Handler) ClearFacts(w http.ResponseWriter, r *http.Request) {
	st, ok := mutate(w, r, h.State, facts.App, h.Facts.NewState, func(st *facts.State) error {
		h.Facts.Clear(st)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, st.Render())
	}
}

// GetRecipe returns the last generated recipe.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	if st, ok := load(w, r, h.State, recipe.App, recipe.NewState); ok {
		JSON(w, http.StatusOK, st)
	}
}

// GenerateRecipe writes and illustrates a recipe from the form answers.
func (h *Handler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var p recipe.Preferences
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Recipe.Validate(p); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, recipe.App, recipe.NewState, func(st *recipe.State) error {
		h.Recipe.Generate(r.Context(), st, p)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// ClearRecipe forgets the stored recipe.
func (h *Handler) ClearRecipe(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKeyFromContext(r.Context())
	if err := h.State.Reset(r.Context(), key, recipe.App); err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, recipe.NewState())
}

// GetReply returns the reply preferences and conversation.
func (h *Handler) GetReply(w http.ResponseWriter, r *http.Request) {
	if st, ok := load(w, r, h.State, reply.App, reply.NewState); ok {
		JSON(w, http.StatusOK, st)
	}
}

// UpdateReplyPreferences saves audience, style, issue and length.
func (h *Handler) UpdateReplyPreferences(w http.ResponseWriter, r *http.Request) {
	var p reply.Preferences
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, reply.App, reply.NewState, func(st *reply.State) error {
		return h.Reply.SavePreferences(st, p)
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// SendReplyMessage appends a received message and the generated reply.
func (h *Handler) SendReplyMessage(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := mutate(w, r, h.State, reply.App, reply.NewState, func(st *reply.State) error {
		return h.Reply.Send(r.Context(), st, in.Message)
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

// ClearReply empties the conversation.
func (h *Handler) ClearReply(w http.ResponseWriter, r *http.Request) {
	st, ok := mutate(w, r, h.State, reply.App, reply.NewState, func(st *reply.State) error {
		h.Reply.Clear(st)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, st)
	}
}

func requiredField(name string) error {
	return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
}
