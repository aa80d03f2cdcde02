package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event types pushed to clients.
const (
	EventTreeChanged      = "tree_changed"
	EventSelectionChanged = "selection_changed"
	EventSessionClosed    = "session_closed"
)

// Event is the JSON message written to subscribers.
type Event struct {
	Type      string               `json:"type"`
	SessionID string               `json:"sessionId"`
	Tree      *builder.ContentTree `json:"tree,omitempty"`
	Selection *editor.Selection    `json:"selection"`
}

// Client is a single websocket subscriber of one editor session.
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte
}

// EditorHub tracks subscribers per session and delivers events to them.
type EditorHub struct {
	sessionClients map[string]map[*Client]bool
	register       chan *Client
	unregister     chan *Client
	closeSession   chan string
	wait           time.Duration
	mu             sync.RWMutex
	logger         *logging.ChanneledLogger
}

var _ Broadcaster = (*EditorHub)(nil)

// NewEditorHub creates a hub. Run must be started before clients attach.
func NewEditorHub(logger *logging.ChanneledLogger) *EditorHub {
	return &EditorHub{
		sessionClients: make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		closeSession:   make(chan string),
		wait:           writeWait,
		logger:         logger,
	}
}

// Run processes registrations until ctx is cancelled. This should be run as a goroutine.
func (h *EditorHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.sessionClients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.sessionClients, id)
			}
			h.mu.Unlock()
			h.logger.Realtime().Info("Editor hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.sessionClients[client.SessionID]; !ok {
				h.sessionClients[client.SessionID] = make(map[*Client]bool)
			}
			h.sessionClients[client.SessionID][client] = true
			count := len(h.sessionClients[client.SessionID])
			h.mu.Unlock()
			h.logger.Realtime().Debug("Editor client registered", "sessionId", client.SessionID, "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Realtime().Debug("Editor client unregistered", "sessionId", client.SessionID)

		case sessionID := <-h.closeSession:
			h.mu.Lock()
			clients := h.sessionClients[sessionID]
			for client := range clients {
				h.remove(client)
			}
			h.mu.Unlock()
			if len(clients) > 0 {
				h.logger.Realtime().Info("Editor session subscribers disconnected", "sessionId", sessionID, "clients", len(clients))
			}
		}
	}
}

// remove drops client and closes its send channel. Callers hold mu.
func (h *EditorHub) remove(client *Client) {
	clients, ok := h.sessionClients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.sessionClients, client.SessionID)
	}
}

// Attach subscribes conn to sessionID and starts its read and write pumps.
// It returns nil and closes conn when the hub is not running.
func (h *EditorHub) Attach(conn *websocket.Conn, sessionID string) *Client {
	client := &Client{Conn: conn, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-time.After(h.wait):
		h.logger.Realtime().Warn("Editor hub not running, subscriber rejected", "sessionId", sessionID)
		conn.Close()
		return nil
	}
	go h.writePump(client)
	go h.readPump(client)
	return client
}

// TreeChanged implements editor.Listener.
func (h *EditorHub) TreeChanged(sessionID string, tree *builder.ContentTree) {
	h.broadcast(sessionID, Event{Type: EventTreeChanged, SessionID: sessionID, Tree: tree})
}

// SelectionChanged implements editor.Listener.
func (h *EditorHub) SelectionChanged(sessionID string, sel *editor.Selection) {
	h.broadcast(sessionID, Event{Type: EventSelectionChanged, SessionID: sessionID, Selection: sel})
}

// CloseSession notifies and disconnects every subscriber of sessionID.
func (h *EditorHub) CloseSession(sessionID string) {
	h.broadcast(sessionID, Event{Type: EventSessionClosed, SessionID: sessionID})
	select {
	case h.closeSession <- sessionID:
	case <-time.After(h.wait):
		h.logger.Realtime().Warn("Editor hub not running, subscribers left open", "sessionId", sessionID)
	}
}

// ClientCount returns the number of subscribers of sessionID.
func (h *EditorHub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionClients[sessionID])
}

// broadcast never blocks: a subscriber whose buffer is full misses the event.
func (h *EditorHub) broadcast(sessionID string, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Realtime().Error("Failed to marshal editor event", "error", err.Error(), "sessionId", sessionID, "type", event.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.sessionClients[sessionID] {
		select {
		case client.Send <- message:
		default:
			h.logger.Realtime().Warn("Dropped editor event for slow client", "sessionId", sessionID, "type", event.Type)
		}
	}
}

func (h *EditorHub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and unregisters on disconnect.
func (h *EditorHub) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-time.After(h.wait):
		}
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
