package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// OpenSessionRequest is the body of POST /api/v1/editor/sessions.
type OpenSessionRequest struct {
	PageID string `json:"pageId" binding:"required"`
}

// ImportRequest is the body of POST /api/v1/editor/sessions/:id/import.
type ImportRequest struct {
	LibraryID string `json:"libraryId" binding:"required"`
	Mode      string `json:"mode"`
}

// EditorHandlers contains the editor session HTTP handlers
type EditorHandlers struct {
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(editorService *services.EditorService, logger *logging.ChanneledLogger) *EditorHandlers {
	return &EditorHandlers{
		editorService: editorService,
		logger:        logger,
	}
}

// OpenSession handles POST /api/v1/editor/sessions
func (h *EditorHandlers) OpenSession(c *gin.Context) {
	start := time.Now()
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageId is required"})
		return
	}
	view, err := h.editorService.Open(req.PageID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Editor().Info("Open session request completed", "sessionId", view.ID, "pageId", req.PageID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, view)
}

// GetSession handles GET /api/v1/editor/sessions/:id
func (h *EditorHandlers) GetSession(c *gin.Context) {
	view, err := h.editorService.Get(c.Param("id"))
	h.respond(c, view, err)
}

// CloseSession handles DELETE /api/v1/editor/sessions/:id
func (h *EditorHandlers) CloseSession(c *gin.Context) {
	if err := h.editorService.Close(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed", "id": c.Param("id")})
}

// ExecuteCommand handles POST /api/v1/editor/sessions/:id/commands
func (h *EditorHandlers) ExecuteCommand(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	cmd, err := editor.ParseCommand(body)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.editorService.Execute(c.Param("id"), cmd)
	h.respond(c, view, err)
}

// Undo handles POST /api/v1/editor/sessions/:id/undo
func (h *EditorHandlers) Undo(c *gin.Context) {
	view, err := h.editorService.Undo(c.Param("id"))
	h.respond(c, view, err)
}

// Redo handles POST /api/v1/editor/sessions/:id/redo
func (h *EditorHandlers) Redo(c *gin.Context) {
	view, err := h.editorService.Redo(c.Param("id"))
	h.respond(c, view, err)
}

// Select handles POST /api/v1/editor/sessions/:id/selection. A body of null
// or an empty body clears the selection.
func (h *EditorHandlers) Select(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	var sel *editor.Selection
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &sel); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid selection: " + err.Error()})
			return
		}
	}
	view, err := h.editorService.Select(c.Param("id"), sel)
	h.respond(c, view, err)
}

// Escape handles POST /api/v1/editor/sessions/:id/escape
func (h *EditorHandlers) Escape(c *gin.Context) {
	view, err := h.editorService.Escape(c.Param("id"))
	h.respond(c, view, err)
}

// DragStart handles POST /api/v1/editor/sessions/:id/drag/start
func (h *EditorHandlers) DragStart(c *gin.Context) {
	var req services.DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	view, err := h.editorService.DragStart(c.Param("id"), req)
	h.respond(c, view, err)
}

// DragOver handles POST /api/v1/editor/sessions/:id/drag/over. An empty body
// means the pointer left every target.
func (h *EditorHandlers) DragOver(c *gin.Context) {
	var req services.DragOverRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	index, err := h.editorService.DragOver(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index})
}

// Drop handles POST /api/v1/editor/sessions/:id/drag/drop
func (h *EditorHandlers) Drop(c *gin.Context) {
	drop, err := h.editorService.Drop(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drop)
}

// CancelDrag handles POST /api/v1/editor/sessions/:id/drag/cancel
func (h *EditorHandlers) CancelDrag(c *gin.Context) {
	view, err := h.editorService.CancelDrag(c.Param("id"))
	h.respond(c, view, err)
}

// Import handles POST /api/v1/editor/sessions/:id/import
func (h *EditorHandlers) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "libraryId is required"})
		return
	}
	mode, err := editor.ParseImportMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.editorService.Import(c.Param("id"), req.LibraryID, mode)
	h.respond(c, view, err)
}

// Save handles POST /api/v1/editor/sessions/:id/save
func (h *EditorHandlers) Save(c *gin.Context) {
	page, err := h.editorService.Save(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Export handles GET /api/v1/editor/sessions/:id/export
func (h *EditorHandlers) Export(c *gin.Context) {
	data, err := h.editorService.Export(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("download") != "" {
		c.Header("Content-Disposition", `attachment; filename="layout.json"`)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *EditorHandlers) respond(c *gin.Context, view *services.SessionView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
