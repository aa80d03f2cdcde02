package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandlers serves GET /health
type HealthHandlers struct {
	db       Pinger
	sessions func() int
}

// NewHealthHandlers creates the health handler. sessions returns the number of live editor sessions.
func NewHealthHandlers(db Pinger, sessions func() int) *HealthHandlers {
	return &HealthHandlers{db: db, sessions: sessions}
}

// GetHealth reports service and database status.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}
	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": dbStatus,
		"sessions": h.sessions(),
	})
}
