package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/middleware"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth          *AuthHandler
	Assignees     *AssigneeHandler
	Projects      *ProjectHandler
	Track         *TrackHandler
	Notifications *NotificationHandler
	Posts         *PostHandler
	Health        *HealthHandler
}

// RegisterRoutes mounts the API. Session middleware must already be installed on r.
func RegisterRoutes(r *gin.Engine, h Handlers, users middleware.UserFinder, projects middleware.ProjectFinder) {
	r.GET("/health", h.Health.Health)

	requireAuth := middleware.RequireAuth(users)
	requireProject := middleware.RequireProject(projects)
	reviewerOnly := middleware.RequireRole(models.RoleReviewer)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		// Public client tracking
		api.GET("/track/:code", h.Track.Track)

		// Developer roster (protected)
		assignees := api.Group("/assignees")
		assignees.Use(requireAuth)
		{
			assignees.GET("", h.Assignees.ListAssignees)
			assignees.POST("", reviewerOnly, h.Assignees.CreateAssignee)
			assignees.GET("/:id", h.Assignees.GetAssignee)
		}

		// Project routes (protected)
		p := api.Group("/projects")
		p.Use(requireAuth)
		{
			p.GET("", h.Projects.ListProjects)
			p.POST("", middleware.RequireRole(models.RoleOriginator), h.Projects.CreateProject)
			p.GET("/pending", reviewerOnly, h.Projects.ListPending)
			p.GET("/:id", requireProject, h.Projects.GetProject)
			p.POST("/:id/approve", reviewerOnly, h.Projects.ApproveProject)
			p.POST("/:id/reject", reviewerOnly, h.Projects.RejectProject)
			p.PATCH("/:id/status", requireProject, h.Projects.UpdateStatus)
			p.POST("/:id/notes", requireProject, h.Projects.AddNote)
			p.POST("/:id/credentials", requireProject, h.Projects.AddCredential)
			p.PUT("/:id/completion-date", requireProject, h.Projects.SetCompletionDate)
			p.PUT("/:id/renewal-date", requireProject, h.Projects.SetRenewalDate)
			p.POST("/:id/breakdown", requireProject, h.Projects.BreakdownRequirements)
		}

		api.GET("/notifications", requireAuth, h.Notifications.ListNotifications)

		// Posts proxy (protected)
		postsGroup := api.Group("/posts")
		postsGroup.Use(requireAuth)
		{
			postsGroup.GET("", h.Posts.ListPosts)
			postsGroup.POST("", h.Posts.CreatePost)
			postsGroup.PUT("/:id", h.Posts.UpdatePost)
			postsGroup.DELETE("/:id", h.Posts.DeletePost)
		}
	}
}
