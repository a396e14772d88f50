package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers every /api route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/me", h.GetMe)
		r.Get("/catalog", h.GetCatalog)
		r.Delete("/session", h.ResetSession)

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", h.GetChat)
			r.Put("/settings", h.UpdateChatSettings)
			r.With(h.limitCompletions).Post("/messages", h.SendChatMessage)
			r.Delete("/messages", h.ClearChat)
		})

		r.Route("/facts", func(r chi.Router) {
			r.Get("/", h.GetFacts)
			r.Put("/settings", h.UpdateFactSettings)
			r.With(h.limitCompletions).Post("/", h.GenerateFact)
			r.Delete("/", h.ClearFacts)
		})

		r.Route("/recipe", func(r chi.Router) {
			r.Get("/", h.GetRecipe)
			r.With(h.limitCompletions).Post("/", h.GenerateRecipe)
			r.Delete("/", h.ClearRecipe)
		})

		r.Route("/reply", func(r chi.Router) {
			r.Get("/", h.GetReply)
			r.Put("/preferences", h.UpdateReplyPreferences)
			r.With(h.limitCompletions).Post("/messages", h.SendReplyMessage)
			r.Delete("/messages", h.ClearReply)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", h.GetQuiz)
			r.Put("/settings", h.ConfigureQuiz)
			r.Post("/answer", h.SubmitAnswer)
			r.Post("/next", h.NextQuestion)
			r.Post("/reset", h.ResetQuiz)
		})

		r.Route("/todo", func(r chi.Router) {
			r.Get("/", h.GetTodo)
			r.Post("/", h.AddTodo)
			r.Delete("/", h.ClearTodo)
			r.Post("/{id}/complete", h.CompleteTodo)
			r.Delete("/{id}", h.DeleteTodo)
		})

		r.Post("/cards/student", h.StudentCard)
		r.Post("/cards/pet", h.PetCard)

		r.Get("/search/local", h.SearchLocal)
		r.Get("/search/wikipedia", h.SearchWikipedia)
	})
}

// limitCompletions rate-limits the routes that call the completion endpoint.
func (h *Handler) limitCompletions(next http.Handler) http.Handler {
	if h.Limiter == nil {
		return next
	}
	return h.Limiter.Middleware(next)
}
