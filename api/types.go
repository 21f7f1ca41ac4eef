package api

import (
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
}

// StatusResponse is the flash-style confirmation returned by mutating endpoints
type StatusResponse struct {
	Type    string `json:"type" example:"success"`
	Message string `json:"msg" example:"New project created"`
	ID      string `json:"id,omitempty"`
}

// ProjectView is a project with its screenshot resolved to a URL
type ProjectView struct {
	models.Project
	ScreenURL string `json:"screen_url,omitempty"`
}

// ProjectCollection is the project listing
type ProjectCollection struct {
	Projects []ProjectView `json:"projects"`
	Total    int           `json:"total"`
}

// ProjectFormResponse feeds the create and edit forms
type ProjectFormResponse struct {
	*services.ProjectForm
	ScreenURL string `json:"screen_url,omitempty"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}
