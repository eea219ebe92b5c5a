package models

import "time"

// Known credential type tags. Other values are stored as given.
const (
	CredentialTypeDomain   = "domain"
	CredentialTypeHosting  = "hosting"
	CredentialTypeDatabase = "database"
	CredentialTypeAPI      = "api"
	CredentialTypeOther    = "other"
)

// Credential is an append-only secret stored for a project. Values are kept in clear text.
type Credential struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	DateAdded time.Time `json:"date_added"`
	Position  int       `gorm:"not null;default:0" json:"-"`
}
