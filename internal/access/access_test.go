package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

func testProject() models.Project {
	assignee := "dev-1"
	return models.Project{
		ID:           "p-1",
		OriginatorID: "sales-1",
		AssigneeID:   &assignee,
		Notes: []models.Note{
			{ID: "n-1", Content: "public", IsPublic: true},
			{ID: "n-2", Content: "internal"},
			{ID: "n-3", Content: "also public", IsPublic: true},
		},
	}
}

func TestCanViewNote(t *testing.T) {
	project := testProject()
	private := project.Notes[1]

	tests := []struct {
		name   string
		viewer Viewer
		want   bool
	}{
		{"reviewer", Viewer{UserID: "cto-1", Role: models.RoleReviewer}, true},
		{"any assignee", Viewer{UserID: "dev-2", Role: models.RoleAssignee}, true},
		{"originator of project", Viewer{UserID: "sales-1", Role: models.RoleOriginator}, true},
		{"other originator", Viewer{UserID: "sales-2", Role: models.RoleOriginator}, false},
		{"anonymous", Viewer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewNote(tt.viewer, project, private))
			assert.True(t, CanViewNote(tt.viewer, project, project.Notes[0]), "public notes are always visible")
		})
	}
}

func TestVisibleNotes_HidesPrivateNotesKeepingOrder(t *testing.T) {
	project := testProject()

	notes := VisibleNotes(Viewer{UserID: "sales-2", Role: models.RoleOriginator}, project)

	if assert.Len(t, notes, 2) {
		assert.Equal(t, "n-1", notes[0].ID)
		assert.Equal(t, "n-3", notes[1].ID)
	}
	assert.Len(t, VisibleNotes(Viewer{Role: models.RoleReviewer, UserID: "cto"}, project), 3)
}

func TestCanManageDelivery(t *testing.T) {
	project := testProject()
	own := Viewer{UserID: "dev-1", Role: models.RoleAssignee}
	other := Viewer{UserID: "dev-2", Role: models.RoleAssignee}

	assert.True(t, CanManageDelivery(own, project, false))
	assert.True(t, CanManageDelivery(other, project, false), "unscoped grants every assignee")
	assert.True(t, CanManageDelivery(own, project, true))
	assert.False(t, CanManageDelivery(other, project, true))
	assert.False(t, CanManageDelivery(Viewer{UserID: "cto", Role: models.RoleReviewer}, project, false))
	assert.False(t, CanManageDelivery(Viewer{}, project, false))
}

func TestRoleGates(t *testing.T) {
	project := testProject()
	sales := Viewer{UserID: "sales-1", Role: models.RoleOriginator}
	cto := Viewer{UserID: "cto", Role: models.RoleReviewer}
	dev := Viewer{UserID: "dev-2", Role: models.RoleAssignee}

	assert.True(t, CanOriginate(sales))
	assert.False(t, CanOriginate(cto))
	assert.True(t, CanReview(cto))
	assert.False(t, CanReview(dev))
	assert.False(t, CanReview(Viewer{}))

	assert.True(t, CanAddNote(sales, project))
	assert.True(t, CanAddNote(cto, project))
	assert.True(t, CanAddNote(dev, project))
	assert.False(t, CanAddNote(Viewer{UserID: "sales-2", Role: models.RoleOriginator}, project))
	assert.False(t, CanAddNote(Viewer{}, project))
}

func TestViewerFor(t *testing.T) {
	assert.True(t, ViewerFor(nil).Anonymous())

	v := ViewerFor(&models.User{ID: "u-1", Role: models.RoleReviewer})
	assert.Equal(t, Viewer{UserID: "u-1", Role: models.RoleReviewer}, v)
}
