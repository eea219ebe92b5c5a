package models

import "time"

// Note is an append-only remark attached to a project.
type Note struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"type:varchar(255);not null" json:"author"`
	IsPublic  bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	Position  int       `gorm:"not null;default:0" json:"-"`
}
