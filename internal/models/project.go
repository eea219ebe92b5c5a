package models

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusRequirements ProjectStatus = "requirements"
	ProjectStatusDevelopment  ProjectStatus = "development"
	ProjectStatusPayment      ProjectStatus = "payment"
	ProjectStatusCredentials  ProjectStatus = "credentials"
	ProjectStatusCompleted    ProjectStatus = "completed"
)

// ProjectStatuses lists the statuses in workflow order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusRequirements,
	ProjectStatusDevelopment,
	ProjectStatusPayment,
	ProjectStatusCredentials,
	ProjectStatusCompleted,
}

// Valid reports whether s is one of the five known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusRequirements, ProjectStatusDevelopment, ProjectStatusPayment,
		ProjectStatusCredentials, ProjectStatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the human readable status shown on the dashboard.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectStatusRequirements:
		return "Waiting for Requirements"
	case ProjectStatusDevelopment:
		return "Development In Progress"
	case ProjectStatusPayment:
		return "Waiting for Payment"
	case ProjectStatusCredentials:
		return "Waiting for Credentials"
	case ProjectStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ParseProjectStatus converts a raw string into a ProjectStatus.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	status := ProjectStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown project status %q", s)
	}
	return status, nil
}

type Project struct {
	ID             string        `gorm:"primarykey;type:varchar(36)" json:"id"`
	ReferenceCode  string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"reference_code"`
	ClientName     string        `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail    string        `gorm:"type:varchar(255)" json:"client_email"`
	ClientPhone    string        `gorm:"type:varchar(64)" json:"client_phone"`
	Description    string        `gorm:"type:text" json:"description"`
	Requirements   string        `gorm:"type:text" json:"requirements"`
	Status         ProjectStatus `gorm:"type:varchar(20);not null;default:'requirements'" json:"status"`
	Approved       bool          `gorm:"not null;default:false" json:"approved"`
	AssigneeID     *string       `gorm:"type:varchar(36);index" json:"assignee_id"`
	Deadline       *time.Time    `json:"deadline"`
	OriginatorID   string        `gorm:"type:varchar(36);not null;index" json:"originator_id"`
	CreatedAt      time.Time     `json:"created_at"`
	CompletionDate *time.Time    `json:"completion_date"`
	RenewalDate    *time.Time    `json:"renewal_date"`
	Position       int           `gorm:"not null;default:0" json:"-"`

	// Relations
	Notes       []Note       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"notes"`
	Credentials []Credential `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"credentials"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (p Project) Clone() Project {
	c := p
	if p.AssigneeID != nil {
		id := *p.AssigneeID
		c.AssigneeID = &id
	}
	c.Deadline = cloneTime(p.Deadline)
	c.CompletionDate = cloneTime(p.CompletionDate)
	c.RenewalDate = cloneTime(p.RenewalDate)
	c.Notes = append([]Note(nil), p.Notes...)
	c.Credentials = append([]Credential(nil), p.Credentials...)
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	if c.Credentials == nil {
		c.Credentials = []Credential{}
	}
	return c
}

// IsAssignedTo reports whether the project is assigned to the given user.
func (p Project) IsAssignedTo(userID string) bool {
	return p.AssigneeID != nil && *p.AssigneeID == userID
}

// DeadlinePassed reports whether the project has a deadline before now.
func (p Project) DeadlinePassed(now time.Time) bool {
	return p.Deadline != nil && p.Deadline.Before(now)
}

// RenewalDue reports whether the renewal date is at most window away from now.
// Renewal dates already in the past count as due.
func (p Project) RenewalDue(now time.Time, window time.Duration) bool {
	return p.RenewalDate != nil && p.RenewalDate.Sub(now) <= window
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
