package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Tasks    *TaskHandler
	Projects *ProjectHandler
	Sync     *SyncHandler
	System   *SystemHandler
}

// NewRouter mounts every endpoint under prefix (e.g. "/api").
func NewRouter(prefix string, h Handlers) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.System.Root)
		r.Get("/health", h.System.Health)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.Tasks.Create)
			r.Get("/", h.Tasks.List)
			r.Get("/{id}", h.Tasks.Get)
			r.Put("/{id}", h.Tasks.Update)
			r.Delete("/{id}", h.Tasks.Delete)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", h.Projects.Create)
			r.Get("/", h.Projects.List)
			r.Get("/{id}/tasks", h.Projects.Tasks)
		})

		r.Post("/sync", h.Sync.Sync)
		r.Get("/sync/status", h.Sync.Status)
	})

	return r
}
