package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/agency-project-tracker/internal/access"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

func testProject() models.Project {
	deadline := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	renewal := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	assignee := "dev-1"
	return models.Project{
		ID:            "p1",
		ReferenceCode: "CMT-123456-001",
		ClientName:    "Acme Corp",
		Status:        models.ProjectStatusPayment,
		Approved:      true,
		AssigneeID:    &assignee,
		Deadline:      &deadline,
		RenewalDate:   &renewal,
		OriginatorID:  "sales-1",
		Notes: []models.Note{
			{ID: "n1", Content: "public", IsPublic: true},
			{ID: "n2", Content: "internal"},
		},
		Credentials: []models.Credential{{ID: "c1", Type: models.CredentialTypeDomain, Name: "registrar", Value: "pw"}},
	}
}

func TestToProjectDTO(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	dev := models.User{ID: "dev-1", Name: "Developer 1", Role: models.RoleAssignee}

	out := ToProjectDTO(testProject(), ProjectView{
		Viewer:          access.ViewerFor(&dev),
		ShowCredentials: true,
		Assignee:        &dev,
		Now:             now,
		RenewalWindow:   15 * 24 * time.Hour,
	})

	assert.Equal(t, "Waiting for Payment", out.StatusLabel)
	assert.True(t, out.DeadlinePassed)
	assert.True(t, out.RenewalSoon)
	assert.Len(t, out.Notes, 2)
	require.Len(t, out.Credentials, 1)
	assert.Equal(t, "pw", out.Credentials[0].Value)
	require.NotNil(t, out.Assignee)
	assert.Equal(t, "Developer 1", out.Assignee.Name)
}

func TestToProjectDTO_HidesPrivateNotesAndCredentials(t *testing.T) {
	stranger := access.Viewer{UserID: "sales-2", Role: models.RoleOriginator}

	out := ToProjectDTO(testProject(), ProjectView{Viewer: stranger, Now: time.Now()})

	require.Len(t, out.Notes, 1)
	assert.Equal(t, "n1", out.Notes[0].ID)
	assert.Nil(t, out.Credentials)
}

func TestToProjectDTO_CredentialsKeyAlwaysPresent(t *testing.T) {
	dev := models.User{ID: "dev-1", Role: models.RoleAssignee}
	project := testProject()
	project.Credentials = nil

	shown, err := json.Marshal(ToProjectDTO(project, ProjectView{Viewer: access.ViewerFor(&dev), ShowCredentials: true, Now: time.Now()}))
	require.NoError(t, err)
	assert.Contains(t, string(shown), `"credentials":[]`)

	hidden, err := json.Marshal(ToProjectDTO(project, ProjectView{Viewer: access.ViewerFor(&dev), Now: time.Now()}))
	require.NoError(t, err)
	assert.Contains(t, string(hidden), `"credentials":null`)
}

func TestToTrackingDTO(t *testing.T) {
	out := ToTrackingDTO(testProject())

	assert.Equal(t, "CMT-123456-001", out.ReferenceCode)
	require.Len(t, out.Notes, 1)
	assert.Equal(t, "public", out.Notes[0].Content)
}
