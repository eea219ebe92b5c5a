package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/agency-project-tracker/internal/database"
)

// HealthHandler reports liveness and, when configured, storage reachability.
type HealthHandler struct {
	checks map[string]database.Pinger
}

// NewHealthHandler creates a handler pinging each named dependency.
func NewHealthHandler(checks map[string]database.Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := gin.H{}
	for name, pinger := range h.checks {
		if err := pinger.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{
		"status":  "ok",
		"message": "Project Tracker API is running",
		"checks":  results,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
