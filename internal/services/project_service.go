package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/repository"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrAssigneeNotFound       = errors.New("assignee not found")
	ErrMissingField           = errors.New("missing required field")
	ErrInvalidStatus          = errors.New("invalid project status")
	ErrReferenceCodeExhausted = errors.New("could not generate a unique reference code")
)

// ProjectService owns the project list. Reads see a consistent snapshot;
// mutations build a new list, persist it and only then replace the current one.
type ProjectService struct {
	mu       sync.RWMutex
	projects []models.Project
	repo     repository.ProjectRepository
	notify   Notifier
	logger   *zap.Logger
	opts     options
}

// NewProjectService restores the saved project list, seeding the demo projects on first run.
func NewProjectService(ctx context.Context, repo repository.ProjectRepository, notifier Notifier, logger *zap.Logger, opts ...Option) (*ProjectService, error) {
	s := &ProjectService{
		repo:   repo,
		notify: notifier,
		logger: logger,
		opts:   buildOptions(opts),
	}

	projects, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.projects = projects
		logger.Info("Restored projects", zap.Int("count", len(projects)))
		return s, nil
	case !errors.Is(err, repository.ErrNoSnapshot):
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	var seed []models.Project
	if s.opts.seed {
		seed = seedProjects()
	}
	if err := repo.Save(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to save seed projects: %w", err)
	}
	s.projects = seed
	logger.Info("Seeded projects", zap.Int("count", len(seed)))

	return s, nil
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	Description  string
	Requirements string
	Status       models.ProjectStatus
	OriginatorID string
}

// ProjectFilter represents filters for listing projects
type ProjectFilter struct {
	Approved       *bool
	AssigneeID     *string
	OriginatorID   *string
	Status         *models.ProjectStatus
	SortByDeadline bool
	Page           int
	PageSize       int
}

// AddNoteInput represents input for adding a note to a project
type AddNoteInput struct {
	Content  string
	Author   string
	IsPublic bool
}

// AddCredentialInput represents input for storing a credential on a project
type AddCredentialInput struct {
	Type  string
	Name  string
	Value string
}

// Create appends a new unapproved, unassigned project with a fresh reference code.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, fmt.Errorf("%w: client_name", ErrMissingField)
	}
	if input.OriginatorID == "" {
		return nil, fmt.Errorf("%w: originator_id", ErrMissingField)
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusRequirements
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()

	now := s.opts.now()
	code, err := s.uniqueReferenceCode(now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	project := models.Project{
		ID:            s.opts.newID(),
		ReferenceCode: code,
		ClientName:    strings.TrimSpace(input.ClientName),
		ClientEmail:   strings.TrimSpace(input.ClientEmail),
		ClientPhone:   strings.TrimSpace(input.ClientPhone),
		Description:   input.Description,
		Requirements:  input.Requirements,
		Status:        status,
		OriginatorID:  input.OriginatorID,
		CreatedAt:     now,
		Notes:         []models.Note{},
		Credentials:   []models.Credential{},
	}

	next := make([]models.Project, len(s.projects), len(s.projects)+1)
	copy(next, s.projects)
	next = append(next, project)

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("reference_code", project.ReferenceCode),
		zap.String("originator_id", project.OriginatorID))
	s.notify.Notify(ctx, Notification{
		Title:       "Project Created",
		Description: "Reference ID: " + project.ReferenceCode,
		ProjectID:   project.ID,
	})

	out := project.Clone()
	return &out, nil
}

// uniqueReferenceCode must be called with s.mu held.
func (s *ProjectService) uniqueReferenceCode(now time.Time) (string, error) {
	for attempt := 0; attempt < constants.ReferenceCodeMaxAttempts; attempt++ {
		code, err := s.opts.newRefCode(now)
		if err != nil {
			return "", fmt.Errorf("failed to generate reference code: %w", err)
		}
		if s.indexOfReference(code) < 0 {
			return code, nil
		}
		s.logger.Warn("Reference code collision", zap.String("reference_code", code), zap.Int("attempt", attempt+1))
	}
	return "", ErrReferenceCodeExhausted
}

// Approve marks the project approved and assigns it in a single change.
func (s *ProjectService) Approve(ctx context.Context, id, assigneeID string, deadline time.Time) (*models.Project, error) {
	if assigneeID == "" {
		return nil, fmt.Errorf("%w: assignee_id", ErrMissingField)
	}

	project, err := s.update(ctx, id, func(p *models.Project) error {
		assignee := assigneeID
		due := deadline
		p.Approved = true
		p.AssigneeID = &assignee
		p.Deadline = &due
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project approved", zap.String("project_id", id), zap.String("assignee_id", assigneeID))
	s.notify.Notify(ctx, Notification{
		Title:       "Project Approved",
		Description: "Project has been assigned to a developer",
		ProjectID:   id,
	})
	return project, nil
}

// Reject removes the project from the list. It is the only deletion path.
func (s *ProjectService) Reject(ctx context.Context, id string) error {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrProjectNotFound
	}

	next := make([]models.Project, 0, len(s.projects)-1)
	next = append(next, s.projects[:idx]...)
	next = append(next, s.projects[idx+1:]...)

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Info("Project rejected", zap.String("project_id", id))
	s.notify.Notify(ctx, Notification{
		Title:       "Project Rejected",
		Description: "Project has been removed from the system",
		Variant:     NotificationDestructive,
		ProjectID:   id,
	})
	return nil
}

// SetStatus overwrites the status. Any status may follow any other.
func (s *ProjectService) SetStatus(ctx context.Context, id string, status models.ProjectStatus) (*models.Project, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	project, err := s.update(ctx, id, func(p *models.Project) error {
		p.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project status updated", zap.String("project_id", id), zap.String("status", string(status)))
	s.notify.Notify(ctx, Notification{
		Title:       "Status Updated",
		Description: "Project now marked as: " + status.Label(),
		ProjectID:   id,
	})
	return project, nil
}

// AddNote appends a note to the project.
func (s *ProjectService) AddNote(ctx context.Context, projectID string, input AddNoteInput) (*models.Note, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingField)
	}

	note := models.Note{
		ID:        s.opts.newID(),
		ProjectID: projectID,
		Content:   input.Content,
		Author:    input.Author,
		IsPublic:  input.IsPublic,
		CreatedAt: s.opts.now(),
	}

	if _, err := s.update(ctx, projectID, func(p *models.Project) error {
		p.Notes = append(p.Notes, note)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Note added",
		zap.String("project_id", projectID),
		zap.String("note_id", note.ID),
		zap.Bool("public", note.IsPublic))
	s.notify.Notify(ctx, Notification{
		Title:       "Note Added",
		Description: "Your note has been added to the project",
		ProjectID:   projectID,
	})
	return &note, nil
}

// AddCredential appends a credential to the project. Values are stored as given.
func (s *ProjectService) AddCredential(ctx context.Context, projectID string, input AddCredentialInput) (*models.Credential, error) {
	if strings.TrimSpace(input.Type) == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}

	credential := models.Credential{
		ID:        s.opts.newID(),
		ProjectID: projectID,
		Type:      input.Type,
		Name:      input.Name,
		Value:     input.Value,
		DateAdded: s.opts.now(),
	}

	if _, err := s.update(ctx, projectID, func(p *models.Project) error {
		p.Credentials = append(p.Credentials, credential)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Credential stored",
		zap.String("project_id", projectID),
		zap.String("credential_id", credential.ID),
		zap.String("type", credential.Type))
	s.notify.Notify(ctx, Notification{
		Title:       "Credential Stored",
		Description: credential.Type + " credential has been securely stored",
		ProjectID:   projectID,
	})
	return &credential, nil
}

// SetCompletionDate overwrites the completion date.
func (s *ProjectService) SetCompletionDate(ctx context.Context, id string, date time.Time) (*models.Project, error) {
	project, err := s.update(ctx, id, func(p *models.Project) error {
		p.CompletionDate = &date
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, Notification{
		Title:       "Completion Date Updated",
		Description: "Project completion date has been set",
		ProjectID:   id,
	})
	return project, nil
}

// SetRenewalDate overwrites the renewal date.
func (s *ProjectService) SetRenewalDate(ctx context.Context, id string, date time.Time) (*models.Project, error) {
	project, err := s.update(ctx, id, func(p *models.Project) error {
		p.RenewalDate = &date
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, Notification{
		Title:       "Renewal Date Updated",
		Description: "Project renewal date has been set",
		ProjectID:   id,
	})
	return project, nil
}

// FindByID returns a copy of the project with id.
func (s *ProjectService) FindByID(id string) (*models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	p := s.projects[idx].Clone()
	return &p, true
}

// FindByReference returns a copy of the project with the given reference code.
func (s *ProjectService) FindByReference(code string) (*models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfReference(strings.TrimSpace(code))
	if idx < 0 {
		return nil, false
	}
	p := s.projects[idx].Clone()
	return &p, true
}

// All returns a copy of every project in insertion order.
func (s *ProjectService) All() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, len(s.projects))
	for i := range s.projects {
		out[i] = s.projects[i].Clone()
	}
	return out
}

// List returns the projects matching filter and the total before pagination.
// A zero PageSize returns every match.
func (s *ProjectService) List(filter ProjectFilter) ([]models.Project, int64) {
	s.mu.RLock()
	matches := make([]models.Project, 0, len(s.projects))
	for i := range s.projects {
		if filter.matches(&s.projects[i]) {
			matches = append(matches, s.projects[i].Clone())
		}
	}
	s.mu.RUnlock()

	if filter.SortByDeadline {
		SortByDeadline(matches)
	}

	total := int64(len(matches))
	if filter.PageSize > 0 {
		matches = utils.Paginate(matches, utils.NewPaginationParams(filter.Page, filter.PageSize))
	}
	return matches, total
}

func (f ProjectFilter) matches(p *models.Project) bool {
	if f.Approved != nil && p.Approved != *f.Approved {
		return false
	}
	if f.AssigneeID != nil && !p.IsAssignedTo(*f.AssigneeID) {
		return false
	}
	if f.OriginatorID != nil && p.OriginatorID != *f.OriginatorID {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	return true
}

// PendingApproval returns the projects still waiting for a reviewer.
func (s *ProjectService) PendingApproval() []models.Project {
	approved := false
	projects, _ := s.List(ProjectFilter{Approved: &approved})
	return projects
}

// AssignedCount returns how many projects are assigned to the user.
func (s *ProjectService) AssignedCount(assigneeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.projects {
		if s.projects[i].IsAssignedTo(assigneeID) {
			count++
		}
	}
	return count
}

// AssignedCounts returns the number of assigned projects per assignee id.
func (s *ProjectService) AssignedCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for i := range s.projects {
		if id := s.projects[i].AssigneeID; id != nil {
			counts[*id]++
		}
	}
	return counts
}

// SortByDeadline orders projects by ascending deadline in place.
// Projects without a deadline keep their relative order after all dated ones.
func SortByDeadline(projects []models.Project) {
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return 0
		case a.Deadline == nil:
			return 1
		case b.Deadline == nil:
			return -1
		default:
			return a.Deadline.Compare(*b.Deadline)
		}
	})
}

// update applies fn to a copy of the project and commits the new list.
func (s *ProjectService) update(ctx context.Context, id string, fn func(p *models.Project) error) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrProjectNotFound
	}

	project := s.projects[idx].Clone()
	if err := fn(&project); err != nil {
		return nil, err
	}

	next := make([]models.Project, len(s.projects))
	copy(next, s.projects)
	next[idx] = project

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	out := project.Clone()
	return &out, nil
}

// commit must be called with s.mu held.
func (s *ProjectService) commit(ctx context.Context, next []models.Project) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist projects", zap.Error(err))
		return fmt.Errorf("failed to save projects: %w", err)
	}
	s.projects = next
	return nil
}

func (s *ProjectService) indexOf(id string) int {
	return slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == id })
}

func (s *ProjectService) indexOfReference(code string) int {
	return slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ReferenceCode == code })
}
