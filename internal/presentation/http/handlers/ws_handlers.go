package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// RealtimeHandlers upgrades editor clients to websocket subscriptions
type RealtimeHandlers struct {
	editorService *services.EditorService
	hub           *messaging.EditorHub
	upgrader      websocket.Upgrader
	logger        *logging.ChanneledLogger
}

// NewRealtimeHandlers creates realtime handlers. Browsers may connect only
// from origins; requests without an Origin header are allowed.
func NewRealtimeHandlers(editorService *services.EditorService, hub *messaging.EditorHub, origins []string, logger *logging.ChanneledLogger) *RealtimeHandlers {
	return &RealtimeHandlers{
		editorService: editorService,
		hub:           hub,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, origin)
			},
		},
	}
}

// Subscribe handles GET /api/v1/editor/sessions/:id/ws
func (h *RealtimeHandlers) Subscribe(c *gin.Context) {
	sessionID := c.Param("id")
	if !h.editorService.Attachable(sessionID) {
		respondError(c, services.ErrSessionNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Warn("Websocket upgrade failed", "sessionId", sessionID, "error", err.Error())
		return
	}
	if h.hub.Attach(conn, sessionID) == nil {
		return
	}
	h.logger.Realtime().Info("Editor client subscribed", "sessionId", sessionID)
}
