// Package services provides application-level services that orchestrate the
// editor core, the repositories and the realtime hub.
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
)

// SessionView is the externally visible state of an editor session.
type SessionView struct {
	ID           string               `json:"id"`
	PageID       string               `json:"pageId"`
	Tree         *builder.ContentTree `json:"tree"`
	Selection    *editor.Selection    `json:"selection"`
	CanUndo      bool                 `json:"canUndo"`
	CanRedo      bool                 `json:"canRedo"`
	HistoryIndex int                  `json:"historyIndex"`
	HistoryLen   int                  `json:"historyLength"`
	DragPhase    editor.Phase         `json:"dragPhase"`
}

// DragStartRequest names the dragged item: a palette kind or an existing module.
type DragStartRequest struct {
	Palette string              `json:"palette,omitempty"`
	Module  *builder.ModulePath `json:"module,omitempty"`
}

// DragOverRequest places the pointer over a column or over the new-section zone.
type DragOverRequest struct {
	Column     *builder.ColumnRef `json:"column,omitempty"`
	PointerY   float64            `json:"pointerY"`
	Modules    []editor.ModuleBox `json:"modules,omitempty"`
	NewSection *int               `json:"newSection,omitempty"`
}

// DropView is the outcome of a drop together with the resulting session state.
type DropView struct {
	Result  editor.DropResult `json:"result"`
	Session *SessionView      `json:"session"`
}

// EditorService owns the live editor sessions.
type EditorService struct {
	pages        repositories.PageRepository
	library      repositories.LibraryRepository
	store        *stores.EditorSessionStore
	hub          messaging.Broadcaster
	ids          builder.IDGenerator
	historyLimit int
	logger       *logging.ChanneledLogger
}

// NewEditorService creates the editor service. hub may be nil.
func NewEditorService(
	pages repositories.PageRepository,
	library repositories.LibraryRepository,
	store *stores.EditorSessionStore,
	hub messaging.Broadcaster,
	historyLimit int,
	logger *logging.ChanneledLogger,
) *EditorService {
	return &EditorService{
		pages:        pages,
		library:      library,
		store:        store,
		hub:          hub,
		ids:          security.NodeIDs,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// WithIDGenerator replaces the node id generator. Tests use it for stable ids.
func (s *EditorService) WithIDGenerator(ids builder.IDGenerator) *EditorService {
	s.ids = ids
	return s
}

// Open loads a page and starts a session on it.
func (s *EditorService) Open(pageID string) (*SessionView, error) {
	start := time.Now()
	if pageID == "" {
		return nil, fmt.Errorf("%w: pageId is required", ErrInvalidInput)
	}
	page, err := s.pages.FindByID(pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", pageID, err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}

	opts := []editor.Option{editor.WithHistoryLimit(s.historyLimit)}
	if s.hub != nil {
		opts = append(opts, editor.WithListener(s.hub))
	}
	session := editor.NewSession(security.GenerateULID(), page.Tree, s.ids, opts...)
	entry := s.store.Put(session, pageID)

	entry.Mu.Lock()
	defer entry.Mu.Unlock()
	s.logger.WithSession(logging.ChannelEditor, session.ID(), pageID).Info("Editor session opened",
		"sections", len(session.Tree().Sections), "duration", time.Since(start))
	return s.view(entry), nil
}

// Get returns the current state of a session.
func (s *EditorService) Get(sessionID string) (*SessionView, error) {
	var view *SessionView
	err := s.withSession(sessionID, "get", func(entry *stores.EditorEntry) error {
		view = s.view(entry)
		return nil
	})
	return view, err
}

// Execute applies one command.
func (s *EditorService) Execute(sessionID string, cmd editor.Command) (*SessionView, error) {
	return s.mutate(sessionID, cmd.Op, logging.ChannelEditor, func(session *editor.Session) error {
		_, err := session.Execute(cmd)
		return err
	})
}

// Undo steps the session back one history entry.
func (s *EditorService) Undo(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, "undo", logging.ChannelHistory, func(session *editor.Session) error {
		return session.Undo()
	})
}

// Redo steps the session forward one history entry.
func (s *EditorService) Redo(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, "redo", logging.ChannelHistory, func(session *editor.Session) error {
		return session.Redo()
	})
}

// Select replaces the selection. A nil selection clears it.
func (s *EditorService) Select(sessionID string, sel *editor.Selection) (*SessionView, error) {
	return s.mutate(sessionID, "select", logging.ChannelEditor, func(session *editor.Session) error {
		return session.Select(sel)
	})
}

// Escape cancels the drag in progress, or clears the selection.
func (s *EditorService) Escape(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, "escape", logging.ChannelEditor, func(session *editor.Session) error {
		session.Escape()
		return nil
	})
}

// DragStart begins a gesture.
func (s *EditorService) DragStart(sessionID string, req DragStartRequest) (*SessionView, error) {
	return s.mutate(sessionID, "drag_start", logging.ChannelDragDrop, func(session *editor.Session) error {
		switch {
		case req.Module != nil:
			return session.BeginModuleDrag(*req.Module)
		case req.Palette != "":
			return session.BeginPaletteDrag(builder.ModuleKind(req.Palette))
		default:
			return fmt.Errorf("%w: palette or module is required", editor.ErrInvalidCommand)
		}
	})
}

// DragOver moves the drop target. It returns the insertion index for column
// targets and -1 for the new-section zone or a leave.
func (s *EditorService) DragOver(sessionID string, req DragOverRequest) (int, error) {
	index := -1
	_, err := s.mutate(sessionID, "drag_over", logging.ChannelDragDrop, func(session *editor.Session) error {
		switch {
		case req.Column != nil:
			i, err := session.DragOverColumn(*req.Column, req.PointerY, req.Modules)
			index = i
			return err
		case req.NewSection != nil:
			return session.DragOverNewSection(*req.NewSection)
		default:
			if session.DragPhase() == editor.PhaseIdle {
				return editor.ErrNoDrag
			}
			session.DragLeave()
			return nil
		}
	})
	return index, err
}

// Drop ends the gesture and applies it.
func (s *EditorService) Drop(sessionID string) (*DropView, error) {
	var result editor.DropResult
	view, err := s.mutate(sessionID, "drop", logging.ChannelDragDrop, func(session *editor.Session) error {
		var err error
		result, err = session.Drop()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.DragDrop().Info("Drop finished", "sessionId", sessionID, "outcome", result.Outcome, "changed", result.Changed)
	return &DropView{Result: result, Session: view}, nil
}

// CancelDrag abandons the gesture.
func (s *EditorService) CancelDrag(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, "drag_cancel", logging.ChannelDragDrop, func(session *editor.Session) error {
		session.CancelDrag()
		return nil
	})
}

// Import inserts a library layout into the session.
func (s *EditorService) Import(sessionID, layoutID string, mode editor.ImportMode) (*SessionView, error) {
	if layoutID == "" {
		return nil, fmt.Errorf("%w: libraryId is required", ErrInvalidInput)
	}
	layout, err := s.library.FindByID(layoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load library layout %s: %w", layoutID, err)
	}
	if layout == nil {
		return nil, ErrLayoutNotFound
	}
	return s.mutate(sessionID, "import", logging.ChannelEditor, func(session *editor.Session) error {
		session.InsertSections(layout.Sections, mode)
		return nil
	})
}

// Save writes the live tree back to the page. Saving is not an undoable step.
func (s *EditorService) Save(sessionID string) (*content.Page, error) {
	var page *content.Page
	err := s.withSession(sessionID, "save", func(entry *stores.EditorEntry) error {
		tree := entry.Session.Tree()
		if err := s.pages.SaveTree(entry.PageID, tree); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			s.logger.LogError(logging.ChannelDatabase, "save", err, map[string]any{
				"sessionId": sessionID,
				"pageId":    entry.PageID,
			})
			return err
		}
		saved, err := s.pages.FindByID(entry.PageID)
		if err != nil {
			return err
		}
		page = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Editor().Info("Editor session saved", "sessionId", sessionID, "pageId", page.ID)
	return page, nil
}

// Export serializes the live tree.
func (s *EditorService) Export(sessionID string) ([]byte, error) {
	var data []byte
	err := s.withSession(sessionID, "export", func(entry *stores.EditorEntry) error {
		var err error
		data, err = entry.Session.Serialize()
		return err
	})
	return data, err
}

// Close ends a session without saving.
func (s *EditorService) Close(sessionID string) error {
	if !s.store.Remove(sessionID) {
		return ErrSessionNotFound
	}
	s.Evicted(sessionID)
	return nil
}

// Evicted disconnects subscribers of a session that left the store.
func (s *EditorService) Evicted(sessionID string) {
	if s.hub != nil {
		s.hub.CloseSession(sessionID)
	}
	s.logger.Editor().Info("Editor session closed", "sessionId", sessionID)
}

// Attachable reports whether sessionID is live, for websocket subscription.
func (s *EditorService) Attachable(sessionID string) bool {
	_, ok := s.store.Get(sessionID)
	return ok
}

// mutate runs fn against the session, logging refusals on channel, and
// returns the resulting state.
func (s *EditorService) mutate(sessionID, op string, channel logging.Channel, fn func(*editor.Session) error) (*SessionView, error) {
	var view *SessionView
	err := s.withSession(sessionID, op, func(entry *stores.EditorEntry) error {
		start := time.Now()
		log := s.logger.WithOperation(channel, op).With("sessionId", sessionID, "pageId", entry.PageID)
		if err := fn(entry.Session); err != nil {
			log.Warn("Editor operation refused", "error", err.Error())
			return err
		}
		log.Debug("Editor operation applied",
			"historyIndex", entry.Session.History().Index(), "historyLength", entry.Session.History().Len(),
			"duration", time.Since(start))
		view = s.view(entry)
		return nil
	})
	return view, err
}

// withSession locks the entry for sessionID for the duration of fn.
func (s *EditorService) withSession(sessionID, op string, fn func(*stores.EditorEntry) error) error {
	entry, ok := s.store.Get(sessionID)
	if !ok {
		s.logger.Editor().Debug("Unknown editor session", "sessionId", sessionID, "operation", op)
		return ErrSessionNotFound
	}
	entry.Mu.Lock()
	defer entry.Mu.Unlock()
	if entry.Closed {
		return ErrSessionNotFound
	}
	entry.Touch()
	return fn(entry)
}

// view snapshots entry. Callers hold entry.Mu.
func (s *EditorService) view(entry *stores.EditorEntry) *SessionView {
	session := entry.Session
	return &SessionView{
		ID:           session.ID(),
		PageID:       entry.PageID,
		Tree:         session.Tree(),
		Selection:    session.Selection(),
		CanUndo:      session.CanUndo(),
		CanRedo:      session.CanRedo(),
		HistoryIndex: session.History().Index(),
		HistoryLen:   session.History().Len(),
		DragPhase:    session.DragPhase(),
	}
}
