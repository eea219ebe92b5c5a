package models

import "time"

// Role is the closed set of dashboard roles.
type Role string

const (
	// RoleOriginator creates project records (sales).
	RoleOriginator Role = "originator"
	// RoleReviewer approves, rejects and assigns projects (CTO).
	RoleReviewer Role = "reviewer"
	// RoleAssignee delivers the project work (developer).
	RoleAssignee Role = "assignee"
)

type User struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Position keeps snapshot order stable across reloads.
	Position int `gorm:"not null;default:0" json:"-"`
}
