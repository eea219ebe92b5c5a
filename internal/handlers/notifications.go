package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/services"
)

type NotificationHandler struct {
	feed *services.NotificationFeed
}

func NewNotificationHandler(feed *services.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// ListNotifications returns the most recent notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < 1 || limit > constants.MaxNotificationFeedLength {
		limit = constants.DefaultPageSize
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": h.feed.Recent(limit),
	})
}
