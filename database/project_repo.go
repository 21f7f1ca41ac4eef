package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin/models"
	"gorm.io/gorm"
)

// ProjectChanges is the complete set of columns an update may write. Screen is only written when non-nil.
type ProjectChanges struct {
	Title       string
	Slug        string
	Description string
	CategoryID  *uint
	Screen      *string
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every project, most recently updated first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Technologies", func(db *gorm.DB) *gorm.DB { return db.Order("technologies.id") }).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project with its category and technologies.
// A missing row yields gorm.ErrRecordNotFound.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Technologies", func(db *gorm.DB) *gorm.DB { return db.Order("technologies.id") }).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// TitleExists reports whether another project already uses title. excludeID may be nil.
func (r *ProjectRepo) TitleExists(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("title = ?", title)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a new project. Associations are written separately.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Category", "Technologies").Create(project).Error
}

// Update writes exactly the columns in changes and refreshes updated_at
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, changes ProjectChanges) error {
	columns := []string{"title", "slug", "description", "category_id", "updated_at"}
	values := map[string]interface{}{
		"title":       changes.Title,
		"slug":        changes.Slug,
		"description": changes.Description,
		"category_id": changes.CategoryID,
		"updated_at":  time.Now(),
	}
	if changes.Screen != nil {
		columns = append(columns, "screen")
		values["screen"] = *changes.Screen
	}

	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Select(columns).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AttachTechnologies adds join rows without touching existing ones
func (r *ProjectRepo) AttachTechnologies(ctx context.Context, project *models.Project, technologies []models.Technology) error {
	if len(technologies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(project).Association("Technologies").Append(technologies)
}

// SyncTechnologies makes the join rows exactly match technologies
func (r *ProjectRepo) SyncTechnologies(ctx context.Context, project *models.Project, technologies []models.Technology) error {
	if len(technologies) == 0 {
		return r.DetachTechnologies(ctx, project)
	}
	return r.db.WithContext(ctx).Model(project).Association("Technologies").Replace(technologies)
}

// DetachTechnologies removes every join row for the project
func (r *ProjectRepo) DetachTechnologies(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Model(project).Association("Technologies").Clear()
}

// Delete removes a project and its join rows
func (r *ProjectRepo) Delete(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Select("Technologies").Delete(project).Error
}
