package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/access"
	"github.com/yukikurage/agency-project-tracker/internal/dto"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/middleware"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/services"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
)

// ProjectHandlerConfig holds the access and display settings for project responses.
type ProjectHandlerConfig struct {
	// ScopeAssigneeToProject limits delivery actions to the project's own assignee.
	ScopeAssigneeToProject bool
	RenewalWindow          time.Duration
	Now                    func() time.Time
}

type ProjectHandler struct {
	projects  *services.ProjectService
	identity  *services.IdentityService
	aiService *services.AIService
	cfg       ProjectHandlerConfig
}

func NewProjectHandler(projects *services.ProjectService, identity *services.IdentityService, aiService *services.AIService, cfg ProjectHandlerConfig) *ProjectHandler {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &ProjectHandler{
		projects:  projects,
		identity:  identity,
		aiService: aiService,
		cfg:       cfg,
	}
}

// ListProjects returns projects visible to the dashboard with optional filters.
// Query: approved, assignee_id, originator_id, status, mine, sort=deadline, page, limit
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	filter := services.ProjectFilter{
		SortByDeadline: c.Query("sort") == "deadline",
	}

	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid approved filter")
			return
		}
		filter.Approved = &approved
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseProjectStatus(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if id := c.Query("assignee_id"); id != "" {
		filter.AssigneeID = &id
	}
	if id := c.Query("originator_id"); id != "" {
		filter.OriginatorID = &id
	}
	if c.Query("mine") == "true" {
		switch viewer.Role {
		case models.RoleAssignee:
			filter.AssigneeID = &viewer.UserID
		case models.RoleOriginator:
			filter.OriginatorID = &viewer.UserID
		case models.RoleReviewer:
		}
	}

	params := utils.GetPaginationParams(c)
	filter.Page = params.Page
	filter.PageSize = params.Limit

	projects, total := h.projects.List(filter)

	out := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = h.toDTO(viewer, p)
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects: out,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListPending returns projects waiting for approval.
func (h *ProjectHandler) ListPending(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	pending := h.projects.PendingApproval()

	out := make([]dto.ProjectDTO, len(pending))
	for i, p := range pending {
		out[i] = h.toDTO(viewer, p)
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

// GetProject returns a project loaded by RequireProject.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	c.JSON(http.StatusOK, h.toDTO(middleware.GetViewer(c), *project))
}

// CreateProject records a new client project for review.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		ClientName   string `json:"client_name" binding:"required"`
		ClientEmail  string `json:"client_email" binding:"omitempty,email"`
		ClientPhone  string `json:"client_phone"`
		Description  string `json:"description" binding:"required"`
		Requirements string `json:"requirements"`
		Status       string `json:"status" binding:"omitempty,project_status"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	project, err := h.projects.Create(c.Request.Context(), services.CreateProjectInput{
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		ClientPhone:  req.ClientPhone,
		Description:  req.Description,
		Requirements: req.Requirements,
		Status:       models.ProjectStatus(req.Status),
		OriginatorID: userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toDTO(middleware.GetViewer(c), *project))
}

// ApproveProject approves a project and assigns it to a developer with a deadline.
func (h *ProjectHandler) ApproveProject(c *gin.Context) {
	type ApproveRequest struct {
		AssigneeID string `json:"assignee_id" binding:"required"`
		Deadline   string `json:"deadline" binding:"required,date"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	if _, ok := h.identity.FindAssignee(req.AssigneeID); !ok {
		respondProjectError(c, services.ErrAssigneeNotFound)
		return
	}
	deadline, _ := utils.ParseDate(req.Deadline)

	project, err := h.projects.Approve(c.Request.Context(), c.Param("id"), req.AssigneeID, deadline)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(middleware.GetViewer(c), *project))
}

// RejectProject deletes an unwanted project.
func (h *ProjectHandler) RejectProject(c *gin.Context) {
	if err := h.projects.Reject(c.Request.Context(), c.Param("id")); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project rejected",
	})
}

// UpdateStatus moves the project to any workflow status.
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required,project_status"`
	}

	project, ok := h.requireDelivery(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	updated, err := h.projects.SetStatus(c.Request.Context(), project.ID, models.ProjectStatus(req.Status))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(middleware.GetViewer(c), *updated))
}

// AddNote appends a note authored by the current user.
func (h *ProjectHandler) AddNote(c *gin.Context) {
	type AddNoteRequest struct {
		Content  string `json:"content" binding:"required"`
		IsPublic bool   `json:"is_public"`
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}
	viewer := middleware.GetViewer(c)
	if !access.CanAddNote(viewer, *project) {
		apierrors.Forbidden(c, "You cannot add notes to this project")
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	user, _ := middleware.GetCurrentUser(c)
	note, err := h.projects.AddNote(c.Request.Context(), project.ID, services.AddNoteInput{
		Content:  req.Content,
		Author:   user.Name,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToNoteDTO(*note))
}

// AddCredential stores a credential on the project.
func (h *ProjectHandler) AddCredential(c *gin.Context) {
	type AddCredentialRequest struct {
		Type  string `json:"type" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Value string `json:"value" binding:"required"`
	}

	project, ok := h.requireDelivery(c)
	if !ok {
		return
	}

	var req AddCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	credential, err := h.projects.AddCredential(c.Request.Context(), project.ID, services.AddCredentialInput{
		Type:  req.Type,
		Name:  req.Name,
		Value: req.Value,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCredentialDTO(*credential))
}

type dateRequest struct {
	Date string `json:"date" binding:"required,date"`
}

// SetCompletionDate overwrites the completion date.
func (h *ProjectHandler) SetCompletionDate(c *gin.Context) {
	h.setDate(c, h.projects.SetCompletionDate)
}

// SetRenewalDate overwrites the renewal date.
func (h *ProjectHandler) SetRenewalDate(c *gin.Context) {
	h.setDate(c, h.projects.SetRenewalDate)
}

func (h *ProjectHandler) setDate(c *gin.Context, set func(ctx context.Context, id string, date time.Time) (*models.Project, error)) {
	project, ok := h.requireDelivery(c)
	if !ok {
		return
	}

	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}
	date, _ := utils.ParseDate(req.Date)

	updated, err := set(c.Request.Context(), project.ID, date)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(middleware.GetViewer(c), *updated))
}

// BreakdownRequirements asks the AI service for a delivery checklist. Nothing is stored.
func (h *ProjectHandler) BreakdownRequirements(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}
	viewer := middleware.GetViewer(c)
	if !access.CanReview(viewer) && !access.CanManageDelivery(viewer, *project, h.cfg.ScopeAssigneeToProject) {
		apierrors.Forbidden(c, "")
		return
	}

	items, err := h.aiService.BreakdownRequirements(c.Request.Context(), *project)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": project.ID,
		"items":      items,
	})
}

// requireDelivery returns the context project when the viewer may manage its delivery.
func (h *ProjectHandler) requireDelivery(c *gin.Context) (*models.Project, bool) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return nil, false
	}
	if !access.CanManageDelivery(middleware.GetViewer(c), *project, h.cfg.ScopeAssigneeToProject) {
		apierrors.Forbidden(c, "Only the assigned developer can change this project")
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) toDTO(viewer access.Viewer, project models.Project) dto.ProjectDTO {
	view := dto.ProjectView{
		Viewer:          viewer,
		ShowCredentials: access.CanManageDelivery(viewer, project, h.cfg.ScopeAssigneeToProject),
		Now:             h.cfg.Now(),
		RenewalWindow:   h.cfg.RenewalWindow,
	}
	if project.AssigneeID != nil {
		view.Assignee, _ = h.identity.FindByID(*project.AssigneeID)
	}
	return dto.ToProjectDTO(project, view)
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, "Assignee not found")
	case errors.Is(err, services.ErrMissingField):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoItemsGenerated):
		apierrors.BadGateway(c, err.Error(), nil)
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
