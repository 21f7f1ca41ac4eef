package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-admin/storage"
	"github.com/rs/zerolog/log"
)

// setupAdminRoutes mounts the project administration routes behind authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/projects/create", handlers.projectHandler.createForm())
		r.Post("/projects", handlers.projectHandler.storeProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.showProject())
		r.Get("/projects/{projectID}/edit", handlers.projectHandler.editForm())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Patch("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.destroyProject())
	})
}

// setupPublicRoutes exposes the health check and, for disk storage, the uploaded assets
func setupPublicRoutes(r chi.Router, store storage.Store, startupTime time.Time) {
	responder := NewResponder(log.With().Str("handlerName", "healthHandler").Logger())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		responder.WriteJSON(w, HealthResponse{
			Status: "ok",
			Uptime: time.Since(startupTime).Round(time.Second).String(),
		})
	})

	if local, ok := store.(*storage.LocalStore); ok {
		fileServer := http.StripPrefix(LocalStoragePath, http.FileServer(http.Dir(local.Root())))
		r.Get(LocalStoragePath+"/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}
}
