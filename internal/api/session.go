package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/shsh-demos/internal/chat"
	"github.com/ashureev/shsh-demos/internal/facts"
	"github.com/ashureev/shsh-demos/internal/identity"
	"github.com/ashureev/shsh-demos/internal/quiz"
	"github.com/ashureev/shsh-demos/internal/recipe"
	"github.com/ashureev/shsh-demos/internal/reply"
	"github.com/ashureev/shsh-demos/internal/todo"
)

const healthCheckTimeout = 5 * time.Second

// sessionApps are the apps whose documents live under a session key.
var sessionApps = []string{chat.App, facts.App, recipe.App, reply.App, quiz.App, todo.App}

// GetMe returns the caller's identity and server capabilities.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKeyFromContext(r.Context())
	JSON(w, http.StatusOK, map[string]any{
		"user_id":        key.UserID,
		"session_id":     key.SessionID,
		"llm_configured": h.LLMConfigured,
		"session_ttl":    int64(h.SessionTTL.Seconds()),
	})
}

// GetCatalog returns the option tables for the app forms.
func (h *Handler) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.Catalog)
}

// ResetSession drops every app's state for the caller's session and closes
// its live connections.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKeyFromContext(r.Context())

	if err := h.State.ResetSession(r.Context(), key, sessionApps...); err != nil {
		writeError(w, r, err)
		return
	}
	h.Sessions.CloseSession(key)

	slog.Info("Session reset", "user_id", key.UserID, "session_id", key.SessionID)
	JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Health returns the health status of the API and its state backend.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok", "state": "ok"}
	status, code := "healthy", http.StatusOK

	if err := h.State.Repository().Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		checks["state"] = "unreachable"
		status, code = "degraded", http.StatusServiceUnavailable
	}

	JSON(w, code, map[string]any{"status": status, "checks": checks})
}
