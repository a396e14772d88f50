package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ashureev/shsh-demos/internal/identity"
	"github.com/ashureev/shsh-demos/internal/middleware"
	"github.com/ashureev/shsh-demos/internal/telemetry"
)

// RouterOptions configures the middleware stack around the handlers.
type RouterOptions struct {
	ServiceName    string
	IsDev          bool
	AllowedOrigins []string
	Tracing        bool
	QuizTimer      http.Handler
	Static         http.Handler
}

// NewRouter builds the full HTTP surface: middleware, /api routes, the quiz
// websocket and the embedded frontend.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	if opts.Tracing {
		r.Use(telemetry.Middleware(opts.ServiceName, "/health", "/ws/quiz"))
	}
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(identity.Middleware(opts.IsDev))

	h.RegisterRoutes(r)

	if opts.QuizTimer != nil {
		r.Get("/ws/quiz", opts.QuizTimer.ServeHTTP)
	}
	if opts.Static != nil {
		r.Handle("/*", opts.Static)
	}
	return r
}
