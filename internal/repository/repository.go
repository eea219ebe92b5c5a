package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/agency-project-tracker/internal/models"
)

var (
	// ErrNoSnapshot is returned by Load when nothing has been saved yet.
	ErrNoSnapshot = errors.New("repository: no snapshot stored yet")
	// ErrSaveSnapshot is returned when writing a snapshot fails.
	ErrSaveSnapshot = errors.New("repository: save snapshot failed")
)

// UserRepository persists the full list of known users.
type UserRepository interface {
	// Load returns the last saved user list, or ErrNoSnapshot on first run
	Load(ctx context.Context) ([]models.User, error)

	// Save replaces the stored user list
	Save(ctx context.Context, users []models.User) error
}

// ProjectRepository persists the full list of projects with their notes and credentials.
type ProjectRepository interface {
	// Load returns the last saved project list, or ErrNoSnapshot on first run
	Load(ctx context.Context) ([]models.Project, error)

	// Save replaces the stored project list
	Save(ctx context.Context, projects []models.Project) error
}
