package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facturio/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
	env     string
	started time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		appName: appName,
		env:     env,
		started: time.Now(),
	}
}

// RegisterRoutes mounts the system endpoints on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"env":     h.env,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"checked": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready godoc
// @Summary      Readiness probe, verifies database connectivity
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database not configured",
		})
		return
	}

	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	payload := gin.H{"status": "ready"}
	if stats, err := h.db.Stats(); err == nil {
		payload["db"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}
	c.JSON(http.StatusOK, payload)
}
