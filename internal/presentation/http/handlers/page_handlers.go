package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// PageHandlers contains all page-related HTTP handlers
type PageHandlers struct {
	pageService *services.PageService
	logger      *logging.ChanneledLogger
}

// NewPageHandlers creates page handlers with injected dependencies
func NewPageHandlers(pageService *services.PageService, logger *logging.ChanneledLogger) *PageHandlers {
	return &PageHandlers{
		pageService: pageService,
		logger:      logger,
	}
}

// GetAllPages returns every stored page
func (h *PageHandlers) GetAllPages(c *gin.Context) {
	start := time.Now()
	pages, err := h.pageService.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Editor().Debug("Get all pages request completed", "count", len(pages), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"pages": pages,
		"count": len(pages),
	})
}

// GetPageByID returns a specific page by ID
func (h *PageHandlers) GetPageByID(c *gin.Context) {
	page, err := h.pageService.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreatePage handles POST /api/v1/pages
func (h *PageHandlers) CreatePage(c *gin.Context) {
	var req services.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	page, err := h.pageService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// DeletePage handles DELETE /api/v1/pages/:id
func (h *PageHandlers) DeletePage(c *gin.Context) {
	if err := h.pageService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page deleted successfully", "id": c.Param("id")})
}
