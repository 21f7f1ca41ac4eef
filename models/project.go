package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a portfolio entry managed from the admin panel
type Project struct {
	ID           uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string       `json:"title" db:"title" gorm:"type:text;not null;uniqueIndex:idx_projects_title"`
	Slug         string       `json:"slug" db:"slug" gorm:"type:text;not null;index:idx_projects_slug"`
	Description  string       `json:"description" db:"description" gorm:"type:text;not null"`
	Screen       *string      `json:"screen" db:"screen" gorm:"type:text"`
	CategoryID   *uint        `json:"category_id" db:"category_id" gorm:"index:idx_projects_category_id"`
	Category     *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL"`
	Technologies []Technology `json:"technologies,omitempty" gorm:"many2many:project_technology;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at" gorm:"index:idx_projects_updated_at"`
}

// BeforeCreate assigns the primary key so the same model works on postgres and sqlite
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TechnologyIDs returns the ids of the loaded technologies association
func (p *Project) TechnologyIDs() []uint {
	ids := make([]uint, 0, len(p.Technologies))
	for _, technology := range p.Technologies {
		ids = append(ids, technology.ID)
	}
	return ids
}
