// Package messaging pushes editor session changes to connected websocket clients.
package messaging

import "github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"

// Broadcaster fans session events out to subscribers.
type Broadcaster interface {
	editor.Listener
	// CloseSession disconnects every subscriber of sessionID.
	CloseSession(sessionID string)
	ClientCount(sessionID string) int
}
