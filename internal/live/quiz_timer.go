package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ashureev/shsh-demos/internal/identity"
	"github.com/ashureev/shsh-demos/internal/quiz"
	"github.com/ashureev/shsh-demos/internal/state"
)

// Tick is one timer frame.
type Tick struct {
	Type           string  `json:"type"`
	Elapsed        string  `json:"elapsed"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	ScorePerMinute float64 `json:"score_per_minute"`
	Score          int     `json:"score"`
	Total          int     `json:"total"`
}

// QuizTimerHandler streams the quiz count-up timer once per interval.
type QuizTimerHandler struct {
	store         *state.Store
	sm            *SessionManager
	allowedOrigin string
	isDev         bool
	interval      time.Duration
}

// NewQuizTimerHandler creates the /ws/quiz handler.
func NewQuizTimerHandler(st *state.Store, sm *SessionManager, allowedOrigin string, isDev bool) *QuizTimerHandler {
	return &QuizTimerHandler{
		store:         st,
		sm:            sm,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		interval:      time.Second,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *QuizTimerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKeyFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", key.UserID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "timer stopped"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", key.UserID)
		}
	}()

	h.sm.Register(key, ws)
	defer h.sm.Unregister(key, ws)

	// The client never sends; CloseRead cancels ctx when it goes away.
	ctx := ws.CloseRead(r.Context())

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, ws); err != nil {
			slog.Debug("Quiz timer stopped", "user_id", key.UserID, "error", err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *QuizTimerHandler) push(ctx context.Context, ws *websocket.Conn) error {
	key := identity.SessionKeyFromContext(ctx)
	st, err := state.Load(ctx, h.store, key, quiz.App, quiz.NewState)
	if err != nil {
		return err
	}
	stats := st.Stats(time.Now())

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(writeCtx, ws, Tick{
		Type:           "tick",
		Elapsed:        stats.Elapsed,
		ElapsedSeconds: stats.ElapsedSeconds,
		ScorePerMinute: stats.ScorePerMinute,
		Score:          st.Score,
		Total:          st.Total,
	})
}

func (h *QuizTimerHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
