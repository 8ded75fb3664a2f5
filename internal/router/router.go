package router

import (
	"dodies-rest-api/internal/handler"
	"dodies-rest-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler    *handler.Handler
	Dispatcher *handler.Dispatcher
}

// New creates and configures the HTTP router. The whole public API is one
// GET endpoint dispatched on the action parameter; the storefront calls it
// cross-origin, hence the permissive CORS and the JSONP support inside the
// dispatcher.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// The single dispatch endpoint
	if cfg.Dispatcher != nil {
		r.Get("/exec", cfg.Dispatcher.Handle)
	}

	// Monitoring endpoints
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/v1/health", cfg.Handler.Health)
	}

	return r
}
