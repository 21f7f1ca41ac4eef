package models

// Technology is a tool or language a project was built with
type Technology struct {
	ID    uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Label string `json:"label" db:"label" gorm:"type:text;not null;uniqueIndex:idx_technologies_label"`
}
