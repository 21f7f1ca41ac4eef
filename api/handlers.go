package api

import (
	"github.com/rpupo63/portfolio-admin/database"
	"github.com/rpupo63/portfolio-admin/services"
	"github.com/rpupo63/portfolio-admin/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, store storage.Store, maxUploadBytes int64) *routeHandlers {
	projectService := services.NewProjectService(
		database.ProjectRepo(),
		database.CategoryRepo(),
		database.TechnologyRepo(),
		store,
	)

	return &routeHandlers{
		projectHandler: newProjectHandler(projectService, store, maxUploadBytes),
	}
}
