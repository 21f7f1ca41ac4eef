package models

// Category groups projects; a project belongs to at most one
type Category struct {
	ID    uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Label string `json:"label" db:"label" gorm:"type:text;not null;uniqueIndex:idx_categories_label"`
}
