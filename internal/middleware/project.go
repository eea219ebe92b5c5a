package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// ProjectFinder looks projects up by id
type ProjectFinder interface {
	FindByID(id string) (*models.Project, bool)
}

// RequireProject loads the project named by the :id parameter into the context
func RequireProject(projects ProjectFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := projects.FindByID(c.Param("id"))
		if !ok {
			apierrors.NotFound(c, "Project not found")
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProject
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok && project != nil
}
