package dto

import (
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/access"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
)

// NoteDTO represents a project note in API responses
type NoteDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// CredentialDTO represents a stored credential in API responses
type CredentialDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	DateAdded time.Time `json:"date_added"`
}

// ProjectDTO represents a project as seen by a signed-in viewer
type ProjectDTO struct {
	ID             string               `json:"id"`
	ReferenceCode  string               `json:"reference_code"`
	ClientName     string               `json:"client_name"`
	ClientEmail    string               `json:"client_email"`
	ClientPhone    string               `json:"client_phone"`
	Description    string               `json:"description"`
	Requirements   string               `json:"requirements"`
	Status         models.ProjectStatus `json:"status"`
	StatusLabel    string               `json:"status_label"`
	Approved       bool                 `json:"approved"`
	AssigneeID     *string              `json:"assignee_id"`
	Assignee       *UserDTO             `json:"assignee,omitempty"`
	Deadline       *time.Time           `json:"deadline"`
	OriginatorID   string               `json:"originator_id"`
	CreatedAt      time.Time            `json:"created_at"`
	CompletionDate *time.Time           `json:"completion_date"`
	RenewalDate    *time.Time           `json:"renewal_date"`
	DeadlinePassed bool                 `json:"deadline_passed"`
	RenewalSoon    bool                 `json:"renewal_soon"`
	Notes          []NoteDTO            `json:"notes"`
	Credentials    []CredentialDTO      `json:"credentials"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TrackingDTO is the public view of a project looked up by reference code
type TrackingDTO struct {
	ReferenceCode  string               `json:"reference_code"`
	ClientName     string               `json:"client_name"`
	Description    string               `json:"description"`
	Status         models.ProjectStatus `json:"status"`
	StatusLabel    string               `json:"status_label"`
	Approved       bool                 `json:"approved"`
	Deadline       *time.Time           `json:"deadline"`
	CompletionDate *time.Time           `json:"completion_date"`
	CreatedAt      time.Time            `json:"created_at"`
	Notes          []NoteDTO            `json:"notes"`
}

// ProjectView carries what a viewer is allowed to see of a project
type ProjectView struct {
	Viewer          access.Viewer
	ShowCredentials bool
	Assignee        *models.User
	Now             time.Time
	RenewalWindow   time.Duration
}

// ToProjectDTO converts a Project model to ProjectDTO, filtering notes for the viewer
func ToProjectDTO(project models.Project, view ProjectView) ProjectDTO {
	out := ProjectDTO{
		ID:             project.ID,
		ReferenceCode:  project.ReferenceCode,
		ClientName:     project.ClientName,
		ClientEmail:    project.ClientEmail,
		ClientPhone:    project.ClientPhone,
		Description:    project.Description,
		Requirements:   project.Requirements,
		Status:         project.Status,
		StatusLabel:    project.Status.Label(),
		Approved:       project.Approved,
		AssigneeID:     project.AssigneeID,
		Deadline:       project.Deadline,
		OriginatorID:   project.OriginatorID,
		CreatedAt:      project.CreatedAt,
		CompletionDate: project.CompletionDate,
		RenewalDate:    project.RenewalDate,
		DeadlinePassed: project.DeadlinePassed(view.Now),
		RenewalSoon:    project.RenewalDue(view.Now, view.RenewalWindow),
		Notes:          ToNoteDTOs(access.VisibleNotes(view.Viewer, project)),
	}

	if view.Assignee != nil {
		assignee := ToUserDTO(*view.Assignee)
		out.Assignee = &assignee
	}

	if view.ShowCredentials {
		out.Credentials = make([]CredentialDTO, len(project.Credentials))
		for i, c := range project.Credentials {
			out.Credentials[i] = ToCredentialDTO(c)
		}
	}

	return out
}

// ToTrackingDTO converts a Project model to the public tracking view. Only public notes are kept.
func ToTrackingDTO(project models.Project) TrackingDTO {
	return TrackingDTO{
		ReferenceCode:  project.ReferenceCode,
		ClientName:     project.ClientName,
		Description:    project.Description,
		Status:         project.Status,
		StatusLabel:    project.Status.Label(),
		Approved:       project.Approved,
		Deadline:       project.Deadline,
		CompletionDate: project.CompletionDate,
		CreatedAt:      project.CreatedAt,
		Notes:          ToNoteDTOs(access.VisibleNotes(access.Viewer{}, project)),
	}
}

// ToNoteDTO converts a Note model to NoteDTO
func ToNoteDTO(note models.Note) NoteDTO {
	return NoteDTO{
		ID:        note.ID,
		Content:   note.Content,
		Author:    note.Author,
		IsPublic:  note.IsPublic,
		CreatedAt: note.CreatedAt,
	}
}

// ToNoteDTOs converts notes keeping their order
func ToNoteDTOs(notes []models.Note) []NoteDTO {
	out := make([]NoteDTO, len(notes))
	for i, note := range notes {
		out[i] = ToNoteDTO(note)
	}
	return out
}

// ToCredentialDTO converts a Credential model to CredentialDTO
func ToCredentialDTO(credential models.Credential) CredentialDTO {
	return CredentialDTO{
		ID:        credential.ID,
		Type:      credential.Type,
		Name:      credential.Name,
		Value:     credential.Value,
		DateAdded: credential.DateAdded,
	}
}
