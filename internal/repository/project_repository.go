package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Load returns projects with notes and credentials in append order
func (r *GormProjectRepository) Load(ctx context.Context) ([]models.Project, error) {
	db := r.db.WithContext(ctx)
	if err := ensureSnapshot(db, constants.SnapshotProjects); err != nil {
		return nil, err
	}

	byPosition := func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}

	var projects []models.Project
	if err := db.
		Preload("Notes", byPosition).
		Preload("Credentials", byPosition).
		Order("position ASC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	for i := range projects {
		if projects[i].Notes == nil {
			projects[i].Notes = []models.Note{}
		}
		if projects[i].Credentials == nil {
			projects[i].Credentials = []models.Credential{}
		}
	}

	return projects, nil
}

// Save replaces every stored project, note and credential in a single transaction
func (r *GormProjectRepository) Save(ctx context.Context, projects []models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Note{}, &models.Credential{}, &models.Project{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
			}
		}

		rows := make([]models.Project, len(projects))
		var notes []models.Note
		var credentials []models.Credential

		for i, project := range projects {
			project.Position = i
			for j, note := range project.Notes {
				note.ProjectID = project.ID
				note.Position = j
				notes = append(notes, note)
			}
			for j, credential := range project.Credentials {
				credential.ProjectID = project.ID
				credential.Position = j
				credentials = append(credentials, credential)
			}
			project.Notes = nil
			project.Credentials = nil
			rows[i] = project
		}

		if len(rows) > 0 {
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
			}
		}
		if len(notes) > 0 {
			if err := tx.Create(&notes).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
			}
		}
		if len(credentials) > 0 {
			if err := tx.Create(&credentials).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
			}
		}

		return markSnapshot(tx, constants.SnapshotProjects)
	})
}
