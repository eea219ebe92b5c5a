// Package access holds the role rules that decide what a viewer may see or change on a project.
package access

import "github.com/yukikurage/agency-project-tracker/internal/models"

// Viewer is the user looking at a project. The zero value is an anonymous viewer.
type Viewer struct {
	UserID string
	Role   models.Role
}

// ViewerFor builds a Viewer from a user. A nil user yields an anonymous viewer.
func ViewerFor(user *models.User) Viewer {
	if user == nil {
		return Viewer{}
	}
	return Viewer{UserID: user.ID, Role: user.Role}
}

// Anonymous reports whether the viewer is not signed in.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

// IsOriginator reports whether the viewer created the project.
func (v Viewer) IsOriginator(project models.Project) bool {
	return !v.Anonymous() && project.OriginatorID == v.UserID
}

// CanViewNote reports whether a note is visible to the viewer.
func CanViewNote(v Viewer, project models.Project, note models.Note) bool {
	if note.IsPublic {
		return true
	}
	switch v.Role {
	case models.RoleReviewer, models.RoleAssignee:
		return true
	case models.RoleOriginator:
		return v.IsOriginator(project)
	default:
		return false
	}
}

// VisibleNotes filters the project's notes down to those the viewer may read, keeping order.
func VisibleNotes(v Viewer, project models.Project) []models.Note {
	notes := make([]models.Note, 0, len(project.Notes))
	for _, note := range project.Notes {
		if CanViewNote(v, project, note) {
			notes = append(notes, note)
		}
	}
	return notes
}

// CanAddNote reports whether the viewer may append notes to the project.
func CanAddNote(v Viewer, project models.Project) bool {
	switch v.Role {
	case models.RoleReviewer, models.RoleAssignee:
		return true
	case models.RoleOriginator:
		return v.IsOriginator(project)
	default:
		return false
	}
}

// CanManageDelivery gates status changes, credentials and dates.
// Any assignee qualifies unless scoped is set, in which case only the project's own assignee does.
func CanManageDelivery(v Viewer, project models.Project, scoped bool) bool {
	switch v.Role {
	case models.RoleAssignee:
		return !scoped || project.IsAssignedTo(v.UserID)
	case models.RoleReviewer, models.RoleOriginator:
		return false
	default:
		return false
	}
}

// CanReview gates approval, rejection and developer management.
func CanReview(v Viewer) bool {
	switch v.Role {
	case models.RoleReviewer:
		return true
	case models.RoleOriginator, models.RoleAssignee:
		return false
	default:
		return false
	}
}

// CanOriginate gates project creation.
func CanOriginate(v Viewer) bool {
	switch v.Role {
	case models.RoleOriginator:
		return true
	case models.RoleReviewer, models.RoleAssignee:
		return false
	default:
		return false
	}
}
