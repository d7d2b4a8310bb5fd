package app

import (
	"net/http"
	"todoApp/internal/config"
	"todoApp/internal/handlers"
	"todoApp/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter(h *handlers.TaskHandler, metrics *middleware.Metrics, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(metrics.Middleware)
	// Everything above observes the 500 written for a panic.
	r.Use(middleware.Recover)
	r.Use(middleware.SecurityHeaders)
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit.RPM))

	r.Get("/", h.ListTasks)                  // GET /
	r.Post("/add", h.AddTask)                // POST /add
	r.Post("/complete/{id}", h.CompleteTask) // POST /complete/{id}
	r.Post("/delete/{id}", h.DeleteTask)     // POST /delete/{id}

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	return r
}
