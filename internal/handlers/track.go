package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/dto"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/services"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
)

// TrackHandler lets clients follow their project by reference code without signing in.
type TrackHandler struct {
	projects *services.ProjectService
}

func NewTrackHandler(projects *services.ProjectService) *TrackHandler {
	return &TrackHandler{projects: projects}
}

// Track returns the public view of the project with the given reference code.
func (h *TrackHandler) Track(c *gin.Context) {
	code := c.Param("code")
	if !utils.ReferenceCodePattern.MatchString(code) {
		apierrors.BadRequest(c, "Invalid reference code")
		return
	}

	project, ok := h.projects.FindByReference(code)
	if !ok {
		apierrors.NotFound(c, "No project found with this reference code")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrackingDTO(*project))
}
