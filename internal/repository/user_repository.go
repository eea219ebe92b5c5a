package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Load returns users in their saved order
func (r *GormUserRepository) Load(ctx context.Context) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	if err := ensureSnapshot(db, constants.SnapshotUsers); err != nil {
		return nil, err
	}

	var users []models.User
	if err := db.Order("position ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// Save replaces every stored user in a single transaction
func (r *GormUserRepository) Save(ctx context.Context, users []models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
		}

		if len(users) > 0 {
			rows := make([]models.User, len(users))
			for i, user := range users {
				user.Position = i
				rows[i] = user
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
			}
		}

		return markSnapshot(tx, constants.SnapshotUsers)
	})
}

// ensureSnapshot returns ErrNoSnapshot unless a marker row exists for name
func ensureSnapshot(db *gorm.DB, name string) error {
	var marker models.SnapshotMarker
	err := db.Where("name = ?", name).First(&marker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot marker: %w", err)
	}
	return nil
}

func markSnapshot(tx *gorm.DB, name string) error {
	marker := models.SnapshotMarker{Name: name, SavedAt: time.Now().UTC()}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"saved_at"}),
	}).Create(&marker).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
	}
	return nil
}
