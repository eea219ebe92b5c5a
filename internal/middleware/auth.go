package middleware

import (
	"slices"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/access"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// UserFinder resolves the user stored in the session
type UserFinder interface {
	FindByID(id string) (*models.User, bool)
}

// RequireAuth checks if the user is authenticated via session and loads them into the context
func RequireAuth(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		user, found := users.FindByID(userID)
		if !found {
			// Session refers to a user that no longer exists
			session.Clear()
			_ = session.Save()
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole allows the request through only for users holding one of roles.
// It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !slices.Contains(roles, user.Role) {
			apierrors.Forbidden(c, "Your role does not allow this action")
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetCurrentUser retrieves the user loaded by RequireAuth
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetViewer returns the access viewer for the request, anonymous when nobody is signed in
func GetViewer(c *gin.Context) access.Viewer {
	user, _ := GetCurrentUser(c)
	return access.ViewerFor(user)
}
