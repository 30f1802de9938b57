package api

import (
	"net/http"
	"time"

	authapi "github.com/futig/tutor-backend/internal/api/auth"
	chatapi "github.com/futig/tutor-backend/internal/api/chat"
	classroomapi "github.com/futig/tutor-backend/internal/api/classroom"
	"github.com/futig/tutor-backend/internal/api/docs"
	documentapi "github.com/futig/tutor-backend/internal/api/document"
	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Auth      *authapi.Handler
	Chat      *chatapi.Handler
	Document  *documentapi.Handler
	Classroom *classroomapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, tokens middleware.TokenValidator, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.Metrics)                    // Request durations per route
	r.Use(middleware.CORS)                       // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	authapi.RegisterRoutes(r, h.Auth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		chatapi.RegisterRoutes(r, h.Chat)
		documentapi.RegisterRoutes(r, h.Document)
		classroomapi.RegisterRoutes(r, h.Classroom)
	})

	return r
}
