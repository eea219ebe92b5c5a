package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// redisSnapshot stores a whole list as one JSON array under a single key.
type redisSnapshot[T any] struct {
	client redis.Cmdable
	key    string
}

func (s redisSnapshot[T]) load(ctx context.Context) ([]T, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return items, nil
}

func (s redisSnapshot[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveSnapshot, err)
	}
	return nil
}

// userRecord keeps the password hash, which the public JSON form omits.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash,omitempty"`
}

// RedisUserRepository stores users as a JSON array under constants.SnapshotUsers
type RedisUserRepository struct {
	snapshot redisSnapshot[userRecord]
}

// NewRedisUserRepository creates a redis backed UserRepository
func NewRedisUserRepository(client redis.Cmdable) UserRepository {
	return &RedisUserRepository{
		snapshot: redisSnapshot[userRecord]{client: client, key: constants.SnapshotUsers},
	}
}

func (r *RedisUserRepository) Load(ctx context.Context) ([]models.User, error) {
	records, err := r.snapshot.load(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, len(records))
	for i, rec := range records {
		user := rec.User
		user.PasswordHash = rec.PasswordHash
		user.Position = i
		users[i] = user
	}
	return users, nil
}

func (r *RedisUserRepository) Save(ctx context.Context, users []models.User) error {
	records := make([]userRecord, len(users))
	for i, user := range users {
		records[i] = userRecord{User: user, PasswordHash: user.PasswordHash}
	}
	return r.snapshot.save(ctx, records)
}

// RedisProjectRepository stores projects as a JSON array under constants.SnapshotProjects
type RedisProjectRepository struct {
	snapshot redisSnapshot[models.Project]
}

// NewRedisProjectRepository creates a redis backed ProjectRepository
func NewRedisProjectRepository(client redis.Cmdable) ProjectRepository {
	return &RedisProjectRepository{
		snapshot: redisSnapshot[models.Project]{client: client, key: constants.SnapshotProjects},
	}
}

func (r *RedisProjectRepository) Load(ctx context.Context) ([]models.Project, error) {
	projects, err := r.snapshot.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i] = projects[i].Clone()
		projects[i].Position = i
	}
	return projects, nil
}

func (r *RedisProjectRepository) Save(ctx context.Context, projects []models.Project) error {
	return r.snapshot.save(ctx, projects)
}
