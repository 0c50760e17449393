// api/internal/api/router/router.go
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ember/api/internal/api/handlers"
	auth_middleware "ember/api/internal/api/middleware"
)

// RouterConfig defines the strict dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins []string
	SecretHandler  *handlers.SecretHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *auth_middleware.AuthMiddleware
	Logger         *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Gateway Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(auth_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Limit all incoming JSON requests to 1 Megabyte max (OOM Protection)
	r.Use(auth_middleware.MaxBytes(1_048_576))

	// In-memory token bucket rate limiting; also bounds password guessing
	// against stored records
	r.Use(cfg.AuthMiddleware.RateLimit)

	// Strict CORS Configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-api-key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// =========================================================================
	// 2. API Routing Tree
	// =========================================================================

	r.Route("/api", func(r chi.Router) {
		// Both operations sit behind the shared credential gate; neither is
		// reachable without it.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.RequireAPIKey)

			r.Post("/store", cfg.SecretHandler.Store)
			r.Post("/view/{token}", cfg.SecretHandler.View)
		})
	})

	// Unauthenticated probes
	r.Get("/health", cfg.HealthHandler.Check)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}
