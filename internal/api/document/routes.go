package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes. r must already authenticate callers.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", h.Upload)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/storage-usage", h.StorageUsage)
}
