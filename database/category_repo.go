package database

import (
	"context"

	"github.com/rpupo63/portfolio-admin/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all categories ordered by label
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("label ASC").Find(&categories).Error
	return categories, err
}

// Exists reports whether a category with id exists
func (r *CategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FirstOrCreate returns the category labelled label, inserting it if needed
func (r *CategoryRepo) FirstOrCreate(ctx context.Context, label string) (*models.Category, error) {
	category := models.Category{Label: label}
	err := r.db.WithContext(ctx).Where(models.Category{Label: label}).FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
