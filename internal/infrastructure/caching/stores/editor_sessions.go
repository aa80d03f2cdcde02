// Package stores provides the in-memory store of live editor sessions.
package stores

import (
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// EditorEntry is one live editing session. Mu serializes every call into
// Session; the editor core itself is single-threaded.
type EditorEntry struct {
	Mu           sync.Mutex
	Session      *editor.Session
	PageID       string
	Opened       time.Time
	LastActivity time.Time
	// Closed is set under Mu when the entry leaves the store. Holders of a
	// stale pointer must check it after locking.
	Closed bool
}

// Touch records activity. Callers hold Mu.
func (e *EditorEntry) Touch() {
	e.LastActivity = time.Now().UTC()
}

// EditorSessionStore indexes live sessions by session id.
type EditorSessionStore struct {
	sessions map[string]*EditorEntry
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewEditorSessionStore creates an empty store.
func NewEditorSessionStore(logger *logging.ChanneledLogger) *EditorSessionStore {
	if logger != nil {
		logger.Cache().Info("Initializing editor session store")
	}
	return &EditorSessionStore{
		sessions: make(map[string]*EditorEntry),
		logger:   logger,
	}
}

// Put adds a session and returns its entry.
func (s *EditorSessionStore) Put(session *editor.Session, pageID string) *EditorEntry {
	now := time.Now().UTC()
	entry := &EditorEntry{
		Session:      session,
		PageID:       pageID,
		Opened:       now,
		LastActivity: now,
	}

	s.mu.Lock()
	s.sessions[session.ID()] = entry
	count := len(s.sessions)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set", "type", "editor_session", "sessionId", session.ID(), "pageId", pageID, "sessions", count)
	}
	return entry
}

// Get returns the entry for id.
func (s *EditorSessionStore) Get(id string) (*EditorEntry, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "get", "type", "editor_session", "sessionId", id, "hit", ok)
	}
	return entry, ok
}

// Remove drops id from the store and marks its entry closed. It reports
// whether the session was present.
func (s *EditorSessionStore) Remove(id string) bool {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	entry.Mu.Lock()
	entry.Closed = true
	entry.Mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "remove", "type", "editor_session", "sessionId", id)
	}
	return true
}

// Len returns the number of live sessions.
func (s *EditorSessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns the live session ids in sorted order.
func (s *EditorSessionStore) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// EvictIdle removes sessions whose last activity is older than maxIdle at now
// and returns their ids. Entries locked by an in-flight request are skipped.
func (s *EditorSessionStore) EvictIdle(maxIdle time.Duration, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, entry := range s.sessions {
		if !entry.Mu.TryLock() {
			continue
		}
		if now.Sub(entry.LastActivity) > maxIdle {
			entry.Closed = true
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
		entry.Mu.Unlock()
	}
	sort.Strings(evicted)

	if s.logger != nil && len(evicted) > 0 {
		s.logger.Cache().Info("Evicted idle editor sessions", "count", len(evicted), "remaining", len(s.sessions))
	}
	return evicted
}
