package classroom

import (
	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers assignment, grading and attendance routes. r must already authenticate callers.
func RegisterRoutes(r chi.Router, h *Handler) {
	educatorOnly := middleware.RequireRole(entity.RoleEducator)

	r.Route("/assignments", func(r chi.Router) {
		r.With(educatorOnly).Post("/", h.CreateAssignment)
		r.With(educatorOnly).Get("/educator", h.ListEducatorAssignments)
		r.Get("/{id}", h.GetAssignment)
	})
	r.Post("/submissions/grade", h.GradeSubmission)
	r.With(educatorOnly).Post("/attendance", h.RecordAttendance)
}
