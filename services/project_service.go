package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin/database"
	"github.com/rpupo63/portfolio-admin/errs"
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// screenNamespace is the storage namespace project screenshots are written under
const screenNamespace = "projects"

type ProjectRepository interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	TitleExists(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uuid.UUID, changes database.ProjectChanges) error
	AttachTechnologies(ctx context.Context, project *models.Project, technologies []models.Technology) error
	SyncTechnologies(ctx context.Context, project *models.Project, technologies []models.Technology) error
	DetachTechnologies(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, project *models.Project) error
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type TechnologyRepository interface {
	FindAll(ctx context.Context) ([]models.Technology, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Technology, error)
}

// ProjectService implements the project admin workflow: validate, derive the slug,
// manage the screenshot asset and persist.
type ProjectService struct {
	projects     ProjectRepository
	categories   CategoryRepository
	technologies TechnologyRepository
	store        storage.Store
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewProjectService(projects ProjectRepository, categories CategoryRepository, technologies TechnologyRepository, store storage.Store) *ProjectService {
	return &ProjectService{
		projects:     projects,
		categories:   categories,
		technologies: technologies,
		store:        store,
		validate:     newValidator(),
		logger:       log.With().Str("serviceName", "projectService").Logger(),
	}
}

// List returns all projects, most recently updated first
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// PrepareCreate returns an empty project and the options for its selects
func (s *ProjectService) PrepareCreate(ctx context.Context) (*ProjectForm, error) {
	form, err := s.formOptions(ctx)
	if err != nil {
		return nil, err
	}
	form.Project = &models.Project{}
	return form, nil
}

// Store validates in, uploads the screenshot and creates the project. It returns the new id.
func (s *ProjectService) Store(ctx context.Context, rc RequestContext, in ProjectInput) (uuid.UUID, error) {
	logger := s.requestLogger(rc)

	valid, err := s.validateInput(ctx, &in, nil)
	if err != nil {
		return uuid.Nil, err
	}

	var screen *string
	if valid.screen != nil {
		reference, err := s.store.Put(ctx, screenNamespace, *valid.screen)
		if err != nil {
			return uuid.Nil, errs.NewStorageError("store", valid.screen.Filename, err)
		}
		screen = &reference
	}

	project := &models.Project{
		Title:       in.Title,
		Slug:        Slugify(in.Title),
		Description: in.Description,
		Screen:      screen,
		CategoryID:  valid.categoryID,
	}
	if err := s.projects.Add(ctx, project); err != nil {
		s.discardAsset(ctx, logger, screen)
		return uuid.Nil, errs.NewDatabaseError("create", "project", err)
	}

	if valid.technologiesSet {
		if err := s.projects.AttachTechnologies(ctx, project, valid.technologies); err != nil {
			return uuid.Nil, errs.NewDatabaseError("attach technologies to", "project", err)
		}
	}

	logger.Info().Str("projectID", project.ID.String()).Str("slug", project.Slug).Msg("project created")
	return project.ID, nil
}

// Show returns a single project
func (s *ProjectService) Show(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.find(ctx, id)
}

// PrepareEdit returns the project, the select options and the ids of its technologies
func (s *ProjectService) PrepareEdit(ctx context.Context, id uuid.UUID) (*ProjectForm, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	form, err := s.formOptions(ctx)
	if err != nil {
		return nil, err
	}
	form.Project = project
	form.ProjectTechnologies = project.TechnologyIDs()
	return form, nil
}

// Update overwrites the project's fields and replaces its technology set.
// Omitting technologies clears the set, omitting category_id clears the category,
// and omitting screen keeps the current one.
func (s *ProjectService) Update(ctx context.Context, rc RequestContext, id uuid.UUID, in ProjectInput) error {
	logger := s.requestLogger(rc).With().Str("projectID", id.String()).Logger()

	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	valid, err := s.validateInput(ctx, &in, &existing.ID)
	if err != nil {
		return err
	}

	changes := database.ProjectChanges{
		Title:       in.Title,
		Slug:        Slugify(in.Title),
		Description: in.Description,
		CategoryID:  valid.categoryID,
	}

	if valid.screen != nil {
		reference, err := s.store.Put(ctx, screenNamespace, *valid.screen)
		if err != nil {
			return errs.NewStorageError("store", valid.screen.Filename, err)
		}
		changes.Screen = &reference
	}

	if err := s.projects.Update(ctx, id, changes); err != nil {
		s.discardAsset(ctx, logger, changes.Screen)
		return errs.NewDatabaseError("update", "project", err)
	}

	if valid.technologiesSet {
		err = s.projects.SyncTechnologies(ctx, existing, valid.technologies)
	} else {
		err = s.projects.DetachTechnologies(ctx, existing)
	}
	if err != nil {
		return errs.NewDatabaseError("sync technologies of", "project", err)
	}

	// the old screenshot goes only once nothing references it; the update is already saved,
	// so a failed delete leaves an orphan rather than failing the request
	if changes.Screen != nil && existing.Screen != nil {
		s.discardAsset(ctx, logger, existing.Screen)
	}

	logger.Info().Str("slug", changes.Slug).Msg("project updated")
	return nil
}

// Destroy deletes the project and returns its title. The screenshot asset is kept.
func (s *ProjectService) Destroy(ctx context.Context, rc RequestContext, id uuid.UUID) (string, error) {
	logger := s.requestLogger(rc).With().Str("projectID", id.String()).Logger()

	project, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.projects.Delete(ctx, project); err != nil {
		return "", errs.NewDatabaseError("delete", "project", err)
	}

	event := logger.Info().Str("title", project.Title)
	if project.Screen != nil {
		// TODO: decide whether destroy should also remove the screenshot, as replacing it on update does
		event = event.Str("retainedScreen", *project.Screen)
	}
	event.Msg("project deleted")

	return project.Title, nil
}

func (s *ProjectService) find(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

// formOptions loads categories and technologies concurrently
func (s *ProjectService) formOptions(ctx context.Context) (*ProjectForm, error) {
	form := &ProjectForm{ProjectTechnologies: []uint{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := s.categories.FindAll(gctx)
		if err != nil {
			return errs.NewDatabaseError("list", "categories", err)
		}
		form.Categories = categories
		return nil
	})
	g.Go(func() error {
		technologies, err := s.technologies.FindAll(gctx)
		if err != nil {
			return errs.NewDatabaseError("list", "technologies", err)
		}
		form.Technologies = technologies
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return form, nil
}

// discardAsset removes an asset nothing references any more. Failures are logged, not returned.
func (s *ProjectService) discardAsset(ctx context.Context, logger zerolog.Logger, reference *string) {
	if reference == nil {
		return
	}
	if err := s.store.Delete(ctx, *reference); err != nil {
		logger.Error().Err(err).Str("reference", *reference).Msg("failed to remove unreferenced asset")
	}
}

func (s *ProjectService) requestLogger(rc RequestContext) zerolog.Logger {
	return s.logger.With().Str("actor", rc.Actor).Str("requestID", rc.RequestID).Logger()
}
