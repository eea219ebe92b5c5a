package repository

import (
	"context"
	"sync"

	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// memorySnapshot keeps the last saved list in process memory.
type memorySnapshot[T any] struct {
	mu    sync.Mutex
	items []T
	saved bool
	clone func(T) T
}

func (s *memorySnapshot[T]) load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return nil, ErrNoSnapshot
	}
	return s.copyOf(s.items), nil
}

func (s *memorySnapshot[T]) save(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.copyOf(items)
	s.saved = true
}

func (s *memorySnapshot[T]) copyOf(items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = s.clone(item)
	}
	return out
}

// MemoryUserRepository is a process-local UserRepository
type MemoryUserRepository struct {
	snapshot *memorySnapshot[models.User]
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		snapshot: &memorySnapshot[models.User]{clone: func(u models.User) models.User { return u }},
	}
}

func (r *MemoryUserRepository) Load(_ context.Context) ([]models.User, error) {
	return r.snapshot.load()
}

func (r *MemoryUserRepository) Save(_ context.Context, users []models.User) error {
	r.snapshot.save(users)
	return nil
}

// MemoryProjectRepository is a process-local ProjectRepository
type MemoryProjectRepository struct {
	snapshot *memorySnapshot[models.Project]
}

// NewMemoryProjectRepository creates an empty in-memory ProjectRepository
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		snapshot: &memorySnapshot[models.Project]{clone: models.Project.Clone},
	}
}

func (r *MemoryProjectRepository) Load(_ context.Context) ([]models.Project, error) {
	return r.snapshot.load()
}

func (r *MemoryProjectRepository) Save(_ context.Context, projects []models.Project) error {
	r.snapshot.save(projects)
	return nil
}
