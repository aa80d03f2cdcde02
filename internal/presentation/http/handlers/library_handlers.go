package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// LibraryHandlers contains all layout library HTTP handlers
type LibraryHandlers struct {
	libraryService *services.LibraryService
	logger         *logging.ChanneledLogger
}

// NewLibraryHandlers creates library handlers with injected dependencies
func NewLibraryHandlers(libraryService *services.LibraryService, logger *logging.ChanneledLogger) *LibraryHandlers {
	return &LibraryHandlers{
		libraryService: libraryService,
		logger:         logger,
	}
}

// GetAllLayouts returns the library, optionally filtered by ?category=
func (h *LibraryHandlers) GetAllLayouts(c *gin.Context) {
	layouts, err := h.libraryService.GetAll(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"layouts": layouts,
		"count":   len(layouts),
	})
}

// GetLayoutByID returns a specific layout by ID
func (h *LibraryHandlers) GetLayoutByID(c *gin.Context) {
	layout, err := h.libraryService.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// CreateLayout handles POST /api/v1/library
func (h *LibraryHandlers) CreateLayout(c *gin.Context) {
	var req services.CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	layout, err := h.libraryService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Editor().Info("Library layout created via API", "layoutId", layout.ID)
	c.JSON(http.StatusCreated, layout)
}
