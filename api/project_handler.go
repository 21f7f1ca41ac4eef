package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin/errs"
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/services"
	"github.com/rpupo63/portfolio-admin/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	service        *services.ProjectService
	store          storage.Store
	maxUploadBytes int64
}

func newProjectHandler(service *services.ProjectService, store storage.Store, maxUploadBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		service:        service,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

// listProjects retrieves all projects, most recently updated first
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection
// @Failure 500 {object} ErrorResponse
// @Router /admin/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.service.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		views := make([]ProjectView, 0, len(projects))
		for _, project := range projects {
			views = append(views, h.view(project))
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: views, Total: len(views)})
	}
}

// createForm returns the options needed to render the create form
// @Summary New project form data
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectFormResponse
// @Router /admin/projects/create [get]
func (h projectHandler) createForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.service.PrepareCreate(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ProjectFormResponse{ProjectForm: form})
	}
}

// storeProject creates a project from a form submission
// @Summary Create project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title, 5 to 20 characters"
// @Param description formData string true "Description"
// @Param screen formData file false "Screenshot (jpeg or png)"
// @Param category_id formData int false "Category id"
// @Param technologies[] formData []int false "Technology ids"
// @Success 201 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Unknown field or malformed form"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /admin/projects [post]
func (h projectHandler) storeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseProjectInput(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := h.service.Store(r.Context(), requestContext(r), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/admin/projects/%s", id))
		h.responder.WriteJSONStatus(w, http.StatusCreated, StatusResponse{
			Type:    "success",
			Message: "New project created",
			ID:      id.String(),
		})
	}
}

// showProject retrieves a single project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectView
// @Failure 404 {object} ErrorResponse
// @Router /admin/projects/{projectID} [get]
func (h projectHandler) showProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.service.Show(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, h.view(project))
	}
}

// editForm returns the project with the options and current selections for the edit form
// @Summary Edit project form data
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectFormResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/projects/{projectID}/edit [get]
func (h projectHandler) editForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		form, err := h.service.PrepareEdit(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := ProjectFormResponse{ProjectForm: form}
		if form.Project.Screen != nil {
			response.ScreenURL = h.store.URL(*form.Project.Screen)
		}
		h.responder.WriteJSON(w, response)
	}
}

// updateProject overwrites a project from a form submission. Omitted technologies clear the set.
// @Summary Update project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /admin/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in, err := parseProjectInput(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.service.Update(r.Context(), requestContext(r), projectID, in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Type:    "success",
			Message: "Project updated",
			ID:      projectID.String(),
		})
	}
}

// destroyProject deletes a project
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/projects/{projectID} [delete]
func (h projectHandler) destroyProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		title, err := h.service.Destroy(r.Context(), requestContext(r), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Type:    "danger",
			Message: fmt.Sprintf("%s has been deleted.", title),
		})
	}
}

func (h projectHandler) view(project *models.Project) ProjectView {
	view := ProjectView{Project: *project}
	if project.Screen != nil {
		view.ScreenURL = h.store.URL(*project.Screen)
	}
	return view
}

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}

	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}
