package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("Invalid credentials")
	ErrDuplicateEmail       = errors.New("A user with this email already exists")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// IdentityService holds the known users and authenticates them by email.
// Every mutation writes the full user list back through the repository.
type IdentityService struct {
	mu     sync.RWMutex
	users  []models.User
	repo   repository.UserRepository
	notify Notifier
	logger *zap.Logger
	opts   options
}

// NewIdentityService restores the saved user list, seeding the demo accounts on first run.
func NewIdentityService(ctx context.Context, repo repository.UserRepository, notifier Notifier, logger *zap.Logger, opts ...Option) (*IdentityService, error) {
	s := &IdentityService{
		repo:   repo,
		notify: notifier,
		logger: logger,
		opts:   buildOptions(opts),
	}

	users, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.users = users
		logger.Info("Restored users", zap.Int("count", len(users)))
		return s, nil
	case !errors.Is(err, repository.ErrNoSnapshot):
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	var seed []models.User
	if s.opts.seed {
		seed, err = s.hashedSeed()
		if err != nil {
			return nil, err
		}
	}
	if err := repo.Save(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to save seed users: %w", err)
	}
	s.users = seed
	logger.Info("Seeded users", zap.Int("count", len(seed)))

	return s, nil
}

func (s *IdentityService) hashedSeed() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.opts.passwordCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	users := seedUsers(s.opts.now())
	for i := range users {
		users[i].PasswordHash = string(hash)
	}
	return users, nil
}

// Authenticate returns the user registered under email.
// The password is only checked when password verification is enabled.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.RLock()
	user, ok := s.findByEmail(email)
	s.mu.RUnlock()

	if !ok {
		s.logger.Info("Login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if s.opts.verifyPasswords {
		if user.PasswordHash == "" {
			return nil, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			s.logger.Info("Login rejected", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// Logout records the end of a session. The session itself is cleared by the caller.
func (s *IdentityService) Logout(_ context.Context, userID string) {
	s.logger.Info("User logged out", zap.String("user_id", userID))
}

// RegisterAssigneeInput represents the information needed to add a developer account.
type RegisterAssigneeInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterAssignee appends a new assignee-role user. Emails must be unique.
func (s *IdentityService) RegisterAssignee(ctx context.Context, input RegisterAssigneeInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	var passwordHash string
	if input.Password != "" {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.opts.passwordCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		passwordHash = string(hash)
	}

	s.mu.Lock()

	if _, exists := s.findByEmail(email); exists {
		s.mu.Unlock()
		return nil, ErrDuplicateEmail
	}

	user := models.User{
		ID:           s.opts.newID(),
		Name:         name,
		Email:        email,
		Role:         models.RoleAssignee,
		PasswordHash: passwordHash,
		CreatedAt:    s.opts.now(),
	}

	next := make([]models.User, len(s.users), len(s.users)+1)
	copy(next, s.users)
	next = append(next, user)

	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist users", zap.Error(err))
		return nil, fmt.Errorf("failed to save users: %w", err)
	}
	s.users = next
	s.mu.Unlock()

	s.notify.Notify(ctx, Notification{
		Title:       "Developer Added",
		Description: "The developer account has been created successfully",
	})

	return &user, nil
}

// ListAssignees returns every assignee-role user in insertion order.
func (s *IdentityService) ListAssignees() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignees := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		if user.Role == models.RoleAssignee {
			assignees = append(assignees, user)
		}
	}
	return assignees
}

// FindAssignee returns the assignee-role user with id.
func (s *IdentityService) FindAssignee(id string) (*models.User, bool) {
	user, ok := s.FindByID(id)
	if !ok || user.Role != models.RoleAssignee {
		return nil, false
	}
	return user, true
}

// FindByID returns any user with id.
func (s *IdentityService) FindByID(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			u := user
			return &u, true
		}
	}
	return nil, false
}

// Count returns the number of known users.
func (s *IdentityService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// findByEmail must be called with s.mu held.
func (s *IdentityService) findByEmail(email string) (models.User, bool) {
	email = strings.TrimSpace(email)
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return models.User{}, false
}
