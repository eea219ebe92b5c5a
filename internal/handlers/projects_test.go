package handlers

import (
	"context"
	"net/http"

	"github.com/yukikurage/agency-project-tracker/internal/dto"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/services"
)

const (
	acmeID      = "b7e0c6d4-0001-4f0a-8a51-3c2d1e0f0001"
	techStartID = "b7e0c6d4-0002-4f0a-8a51-3c2d1e0f0002"
)

func (suite *APITestSuite) createProject() dto.ProjectDTO {
	w := suite.request(http.MethodPost, "/api/projects", map[string]string{
		"client_name":  "Globex",
		"client_email": "ops@globex.com",
		"description":  "Corporate site",
	}, suite.login("sales@cmtai.com"))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.decode(w, &project)
	return project
}

func (suite *APITestSuite) TestCreateProject() {
	project := suite.createProject()

	suite.False(project.Approved)
	suite.Nil(project.AssigneeID)
	suite.Equal(models.ProjectStatusRequirements, project.Status)
	suite.Equal("Waiting for Requirements", project.StatusLabel)
	suite.Regexp(`^CMT-\d{6}-\d{3}$`, project.ReferenceCode)
	suite.Equal(services.SeedSalesID, project.OriginatorID)
}

func (suite *APITestSuite) TestCreateProject_Validation() {
	session := suite.login("sales@cmtai.com")

	w := suite.request(http.MethodPost, "/api/projects", map[string]string{"description": "x"}, session)
	suite.Equal(http.StatusBadRequest, w.Code)
	var body apierrors.APIError
	suite.decode(w, &body)
	suite.Equal(apierrors.ErrCodeMissingField, body.Code)

	w = suite.request(http.MethodPost, "/api/projects",
		map[string]string{"client_name": "X", "description": "x", "status": "archived"}, session)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.Len(suite.projects.All(), 2)
}

func (suite *APITestSuite) TestCreateProject_OriginatorOnly() {
	w := suite.request(http.MethodPost, "/api/projects",
		map[string]string{"client_name": "X", "description": "x"}, suite.login("dev1@cmtai.com"))
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestApproveProject() {
	session := suite.login("cto@cmtai.com")

	w := suite.request(http.MethodPost, "/api/projects/"+techStartID+"/approve",
		map[string]string{"assignee_id": services.SeedDeveloper2ID, "deadline": "2025-07-01"}, session)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.True(project.Approved)
	suite.Equal(services.SeedDeveloper2ID, *project.AssigneeID)
	suite.Require().NotNil(project.Assignee)
	suite.Equal("Developer 2", project.Assignee.Name)
	suite.Equal("2025-07-01", project.Deadline.Format("2006-01-02"))

	w = suite.request(http.MethodGet, "/api/projects/pending", nil, session)
	var pending struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}
	suite.decode(w, &pending)
	suite.Empty(pending.Projects)
}

func (suite *APITestSuite) TestApproveProject_Errors() {
	session := suite.login("cto@cmtai.com")

	w := suite.request(http.MethodPost, "/api/projects/"+techStartID+"/approve",
		map[string]string{"assignee_id": services.SeedSalesID, "deadline": "2025-07-01"}, session)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/projects/"+techStartID+"/approve",
		map[string]string{"assignee_id": services.SeedDeveloper1ID, "deadline": "July 1st"}, session)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/projects/missing/approve",
		map[string]string{"assignee_id": services.SeedDeveloper1ID, "deadline": "2025-07-01"}, session)
	suite.Equal(http.StatusNotFound, w.Code)

	project, _ := suite.projects.FindByID(techStartID)
	suite.False(project.Approved)
}

func (suite *APITestSuite) TestRejectProject() {
	session := suite.login("cto@cmtai.com")

	w := suite.request(http.MethodPost, "/api/projects/"+techStartID+"/reject", nil, session)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.projects.All(), 1)

	w = suite.request(http.MethodPost, "/api/projects/"+techStartID+"/reject", nil, session)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Len(suite.projects.All(), 1)
}

func (suite *APITestSuite) TestGetProject_NoteVisibility() {
	// Acme has one public and one private note
	w := suite.request(http.MethodGet, "/api/projects/"+acmeID, nil, suite.login("cto@cmtai.com"))
	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.Len(project.Notes, 2)
	suite.Nil(project.Credentials)

	w = suite.request(http.MethodGet, "/api/projects/"+acmeID, nil, suite.login("sales@cmtai.com"))
	suite.decode(w, &project)
	suite.Len(project.Notes, 2)
}

func (suite *APITestSuite) TestGetProject_PrivateNotesHiddenFromOtherOriginators() {
	ctx := context.Background()
	project, err := suite.projects.Create(ctx, services.CreateProjectInput{ClientName: "Other", OriginatorID: "someone-else"})
	suite.Require().NoError(err)
	_, err = suite.projects.AddNote(ctx, project.ID, services.AddNoteInput{Content: "internal", Author: "CTO"})
	suite.Require().NoError(err)
	_, err = suite.projects.AddNote(ctx, project.ID, services.AddNoteInput{Content: "hello client", Author: "CTO", IsPublic: true})
	suite.Require().NoError(err)

	w := suite.request(http.MethodGet, "/api/projects/"+project.ID, nil, suite.login("sales@cmtai.com"))
	var out dto.ProjectDTO
	suite.decode(w, &out)
	suite.Require().Len(out.Notes, 1)
	suite.Equal("hello client", out.Notes[0].Content)
}

func (suite *APITestSuite) TestDeliveryActions() {
	session := suite.login("dev1@cmtai.com")

	w := suite.request(http.MethodPatch, "/api/projects/"+acmeID+"/status", map[string]string{"status": "payment"}, session)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.Equal(models.ProjectStatusPayment, project.Status)

	w = suite.request(http.MethodPost, "/api/projects/"+acmeID+"/credentials",
		map[string]string{"type": "domain", "name": "registrar", "value": "secret"}, session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodPut, "/api/projects/"+acmeID+"/renewal-date", map[string]string{"date": "2025-06-10"}, session)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &project)
	suite.True(project.RenewalSoon)
	suite.True(project.DeadlinePassed)
	suite.Require().Len(project.Credentials, 1)
	suite.Equal("secret", project.Credentials[0].Value)

	w = suite.request(http.MethodPut, "/api/projects/"+acmeID+"/completion-date",
		map[string]string{"date": "2025-06-20T00:00:00Z"}, session)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestGetProject_EmptyCredentialsForDelivery() {
	w := suite.request(http.MethodGet, "/api/projects/"+techStartID, nil, suite.login("dev1@cmtai.com"))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"credentials":[]`)

	w = suite.request(http.MethodGet, "/api/projects/"+techStartID, nil, suite.login("cto@cmtai.com"))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"credentials":null`)
}

func (suite *APITestSuite) TestDeliveryActions_Forbidden() {
	w := suite.request(http.MethodPatch, "/api/projects/"+acmeID+"/status",
		map[string]string{"status": "payment"}, suite.login("cto@cmtai.com"))
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, "/api/projects/"+acmeID+"/status",
		map[string]string{"status": "shipped"}, suite.login("dev1@cmtai.com"))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestDeliveryActions_ScopedToAssignee() {
	suite.scoped = true
	suite.buildRouter()

	// Acme is assigned to dev1
	w := suite.request(http.MethodPatch, "/api/projects/"+acmeID+"/status",
		map[string]string{"status": "payment"}, suite.login("dev2@cmtai.com"))
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, "/api/projects/"+acmeID+"/status",
		map[string]string{"status": "payment"}, suite.login("dev1@cmtai.com"))
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestAddNote() {
	w := suite.request(http.MethodPost, "/api/projects/"+techStartID+"/notes",
		map[string]interface{}{"content": "Sent proposal", "is_public": true}, suite.login("sales@cmtai.com"))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var note dto.NoteDTO
	suite.decode(w, &note)
	suite.Equal("Sales User", note.Author)
	suite.True(note.IsPublic)

	project, _ := suite.projects.FindByID(techStartID)
	suite.Len(project.Notes, 2)
}

func (suite *APITestSuite) TestListProjects_SortAndFilter() {
	suite.createProject()
	session := suite.login("dev1@cmtai.com")

	w := suite.request(http.MethodGet, "/api/projects?sort=deadline", nil, session)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ProjectListResponse
	suite.decode(w, &list)
	suite.Require().Len(list.Projects, 3)
	suite.Equal(acmeID, list.Projects[0].ID)
	suite.EqualValues(3, list.Pagination.Total)

	w = suite.request(http.MethodGet, "/api/projects?mine=true", nil, session)
	suite.decode(w, &list)
	suite.Require().Len(list.Projects, 1)
	suite.Equal(acmeID, list.Projects[0].ID)

	w = suite.request(http.MethodGet, "/api/projects?approved=false&limit=1&page=2", nil, session)
	suite.decode(w, &list)
	suite.EqualValues(2, list.Pagination.Total)
	suite.Len(list.Projects, 1)

	w = suite.request(http.MethodGet, "/api/projects?status=unknown", nil, session)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestBreakdown() {
	w := suite.request(http.MethodPost, "/api/projects/"+acmeID+"/breakdown", nil, suite.login("cto@cmtai.com"))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Items []services.BreakdownItem `json:"items"`
	}
	suite.decode(w, &body)
	suite.Require().Len(body.Items, 1)
	suite.Equal("Set up hosting", body.Items[0].Title)

	w = suite.request(http.MethodPost, "/api/projects/"+acmeID+"/breakdown", nil, suite.login("sales@cmtai.com"))
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestTrack() {
	w := suite.request(http.MethodGet, "/api/track/CMT-123456-001", nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tracking dto.TrackingDTO
	suite.decode(w, &tracking)
	suite.Equal("Acme Corp", tracking.ClientName)
	suite.Equal("Development In Progress", tracking.StatusLabel)
	suite.Require().Len(tracking.Notes, 1)
	suite.True(tracking.Notes[0].IsPublic)

	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, "/api/track/CMT-000000-000", nil, nil).Code)
	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/track/not-a-code", nil, nil).Code)
}

func (suite *APITestSuite) TestNotifications() {
	suite.createProject()

	w := suite.request(http.MethodGet, "/api/notifications?limit=5", nil, suite.login("cto@cmtai.com"))
	suite.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Notifications []services.Notification `json:"notifications"`
	}
	suite.decode(w, &body)
	suite.Require().NotEmpty(body.Notifications)
	suite.Equal("Project Created", body.Notifications[0].Title)
}
