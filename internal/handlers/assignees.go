package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/dto"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/services"
)

// AssigneeHandler serves the developer roster.
type AssigneeHandler struct {
	identity *services.IdentityService
	projects *services.ProjectService
}

// NewAssigneeHandler creates a new AssigneeHandler.
func NewAssigneeHandler(identity *services.IdentityService, projects *services.ProjectService) *AssigneeHandler {
	return &AssigneeHandler{
		identity: identity,
		projects: projects,
	}
}

// ListAssignees returns every developer with their assigned project count.
func (h *AssigneeHandler) ListAssignees(c *gin.Context) {
	assignees := dto.ToAssigneeDTOs(h.identity.ListAssignees(), h.projects.AssignedCounts())
	c.JSON(http.StatusOK, dto.AssigneeListResponse{Assignees: assignees})
}

// GetAssignee returns one developer.
func (h *AssigneeHandler) GetAssignee(c *gin.Context) {
	user, ok := h.identity.FindAssignee(c.Param("id"))
	if !ok {
		apierrors.NotFound(c, "Developer not found")
		return
	}

	c.JSON(http.StatusOK, dto.AssigneeDTO{
		UserDTO:          dto.ToUserDTO(*user),
		AssignedProjects: h.projects.AssignedCount(user.ID),
	})
}

// CreateAssignee registers a new developer account.
func (h *AssigneeHandler) CreateAssignee(c *gin.Context) {
	type CreateAssigneeRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password"`
	}

	var req CreateAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.FromBindError(c, err)
		return
	}

	user, err := h.identity.RegisterAssignee(c.Request.Context(), services.RegisterAssigneeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondIdentityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AssigneeDTO{UserDTO: dto.ToUserDTO(*user)})
}

func respondIdentityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
