package database

import (
	"context"

	"github.com/rpupo63/portfolio-admin/models"
	"gorm.io/gorm"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindAll returns every technology as an {id, label} pair ordered by id
func (r *TechnologyRepo) FindAll(ctx context.Context) ([]models.Technology, error) {
	var technologies []models.Technology
	err := r.db.WithContext(ctx).Select("id", "label").Order("id ASC").Find(&technologies).Error
	return technologies, err
}

// FindByIDs returns the technologies among ids that exist. Callers compare lengths to detect unknown ids.
func (r *TechnologyRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Technology, error) {
	if len(ids) == 0 {
		return []models.Technology{}, nil
	}
	var technologies []models.Technology
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&technologies).Error
	return technologies, err
}

// FirstOrCreate returns the technology labelled label, inserting it if needed
func (r *TechnologyRepo) FirstOrCreate(ctx context.Context, label string) (*models.Technology, error) {
	technology := models.Technology{Label: label}
	err := r.db.WithContext(ctx).Where(models.Technology{Label: label}).FirstOrCreate(&technology).Error
	if err != nil {
		return nil, err
	}
	return &technology, nil
}
