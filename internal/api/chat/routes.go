package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes. r must already authenticate callers.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)
	r.Get("/providers", h.ListProviders)

	r.Route("/chat-sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/", h.ListSessions)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/messages", h.SendMessage)
			r.Get("/export", h.ExportSession)
		})
	})
}
