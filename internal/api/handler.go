// Package api provides HTTP handlers for the demos API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/chat"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/facts"
	"github.com/ashureev/shsh-demos/internal/live"
	"github.com/ashureev/shsh-demos/internal/middleware"
	"github.com/ashureev/shsh-demos/internal/quiz"
	"github.com/ashureev/shsh-demos/internal/recipe"
	"github.com/ashureev/shsh-demos/internal/reply"
	"github.com/ashureev/shsh-demos/internal/search"
	"github.com/ashureev/shsh-demos/internal/state"
	"github.com/ashureev/shsh-demos/internal/todo"
)

const maxJSONBody = 1 << 20

// Deps are the services behind the handlers.
type Deps struct {
	State         *state.Store
	Sessions      *live.SessionManager
	Catalog       *catalog.Catalog
	Chat          *chat.Service
	Facts         *facts.Service
	Recipe        *recipe.Service
	Reply         *reply.Service
	Quiz          *quiz.Service
	Todo          *todo.List
	Local         *search.Local
	Wikipedia     *search.Wikipedia
	Limiter       *middleware.RateLimiter
	LLMConfigured bool
	SessionTTL    time.Duration
}

// Handler serves every demo app.
type Handler struct {
	Deps
}

// NewHandler creates a new Handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to their status codes. Anything else is a
// storage or programming failure and is logged, not shown.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
