package editor

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Listener receives change notifications from a session. Implementations must
// not call back into the session.
type Listener interface {
	TreeChanged(sessionID string, tree *builder.ContentTree)
	SelectionChanged(sessionID string, sel *Selection)
}

// ImportMode controls how InsertSections merges incoming sections.
type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

// ParseImportMode validates an import mode. An empty mode appends.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case "", ImportAppend:
		return ImportAppend, nil
	case ImportReplace:
		return ImportReplace, nil
	}
	return "", fmt.Errorf("%w: unknown import mode %q", ErrInvalidCommand, s)
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	listeners    []Listener
	historyLimit int
	contents     ContentProvider
}

// WithListener registers a listener for tree and selection changes.
func WithListener(l Listener) Option {
	return func(o *sessionOptions) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithHistoryLimit caps the number of retained undo snapshots.
func WithHistoryLimit(limit int) Option {
	return func(o *sessionOptions) {
		o.historyLimit = limit
	}
}

// WithContentProvider replaces the default module content table.
func WithContentProvider(p ContentProvider) Option {
	return func(o *sessionOptions) {
		o.contents = p
	}
}

// Session owns one live content tree together with its history, selection and
// drag gesture. Every successful mutation is recorded in history before the
// method returns, so the snapshot under the history cursor always equals the
// live tree. A Session is not safe for concurrent use.
type Session struct {
	id        string
	tree      *builder.ContentTree
	ops       *Operations
	history   *History
	drag      *Coordinator
	selection *Selection
	listeners []Listener
}

// NewSession normalizes tree and records it as the initial history entry.
// A nil tree starts an empty page.
func NewSession(id string, tree *builder.ContentTree, ids builder.IDGenerator, opts ...Option) *Session {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	s := &Session{
		id:        id,
		tree:      Normalize(tree, ids),
		ops:       NewOperations(ids, o.contents),
		history:   NewHistory(o.historyLimit),
		drag:      NewCoordinator(),
		listeners: o.listeners,
	}
	s.history.Record(s.tree)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// AddListener registers an additional listener.
func (s *Session) AddListener(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Tree returns a deep copy of the live tree.
func (s *Session) Tree() *builder.ContentTree {
	return s.tree.Clone()
}

// Serialize encodes the live tree for persistence.
func (s *Session) Serialize() ([]byte, error) {
	return s.tree.Encode()
}

// Selection returns a copy of the current selection, or nil.
func (s *Session) Selection() *Selection {
	if s.selection == nil {
		return nil
	}
	sel := *s.selection
	return &sel
}

// History exposes the session's history for inspection.
func (s *Session) History() *History {
	return s.history
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// DragPhase returns the state of the drag gesture.
func (s *Session) DragPhase() Phase {
	return s.drag.Phase()
}

// Drag exposes the drag coordinator for inspection.
func (s *Session) Drag() *Coordinator {
	return s.drag
}

// commit records the live tree, notifies listeners and moves the selection.
func (s *Session) commit(sel *Selection) {
	s.history.Record(s.tree)
	s.notifyTree()
	s.setSelection(sel)
}

func (s *Session) notifyTree() {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := s.tree.Clone()
	for _, l := range s.listeners {
		l.TreeChanged(s.id, snapshot)
	}
}

func (s *Session) setSelection(sel *Selection) {
	s.selection = sel
	for _, l := range s.listeners {
		l.SelectionChanged(s.id, s.Selection())
	}
}

// =============================================================================
// Sections
// =============================================================================

// AddSection inserts a new section at index at, or appends.
func (s *Session) AddSection(at int) int {
	idx := s.ops.AddSection(s.tree, at)
	s.commit(SelectSection(idx))
	return idx
}

// DeleteSection removes section i.
func (s *Session) DeleteSection(i int) error {
	if err := s.ops.DeleteSection(s.tree, i); err != nil {
		return err
	}
	s.commit(nil)
	return nil
}

// DuplicateSection copies section i with fresh ids directly after it.
func (s *Session) DuplicateSection(i int) (int, error) {
	idx, err := s.ops.DuplicateSection(s.tree, i)
	if err != nil {
		return 0, err
	}
	s.commit(SelectSection(idx))
	return idx, nil
}

// MoveSection swaps section i with its neighbour. A move past either end
// changes nothing and records nothing.
func (s *Session) MoveSection(i, direction int) (int, error) {
	idx, err := s.ops.MoveSection(s.tree, i, direction)
	if err != nil {
		return 0, err
	}
	if idx != i {
		s.commit(SelectSection(idx))
	}
	return idx, nil
}

// =============================================================================
// Rows
// =============================================================================

// AddRow inserts an empty row at index at and selects it.
func (s *Session) AddRow(section, at int) (int, error) {
	idx, err := s.ops.AddRow(s.tree, section, at)
	if err != nil {
		return 0, err
	}
	s.commit(SelectRow(section, idx))
	return idx, nil
}

// DeleteRow removes a row. The last row of a section goes only with confirmLast.
func (s *Session) DeleteRow(section, r int, confirmLast bool) error {
	if err := s.ops.DeleteRow(s.tree, section, r, confirmLast); err != nil {
		return err
	}
	s.commit(SelectSection(section))
	return nil
}

// DuplicateRow copies a row with fresh ids below the original.
func (s *Session) DuplicateRow(section, r int) (int, error) {
	idx, err := s.ops.DuplicateRow(s.tree, section, r)
	if err != nil {
		return 0, err
	}
	s.commit(SelectRow(section, idx))
	return idx, nil
}

// MoveRow swaps a row with its neighbour in direction. Boundary moves record nothing.
func (s *Session) MoveRow(section, r, direction int) (int, error) {
	idx, err := s.ops.MoveRow(s.tree, section, r, direction)
	if err != nil {
		return 0, err
	}
	if idx != r {
		s.commit(SelectRow(section, idx))
	}
	return idx, nil
}

// =============================================================================
// Columns
// =============================================================================

// AddColumn appends a column and evens out the row's widths.
func (s *Session) AddColumn(section, r int) (int, error) {
	idx, err := s.ops.AddColumn(s.tree, section, r)
	if err != nil {
		return 0, err
	}
	s.commit(SelectColumn(builder.ColumnRef{Section: section, Row: r, Column: idx}))
	return idx, nil
}

// DeleteColumn removes a column, refusing the last one in a row.
func (s *Session) DeleteColumn(ref builder.ColumnRef) error {
	if err := s.ops.DeleteColumn(s.tree, ref); err != nil {
		return err
	}
	s.commit(SelectRow(ref.Section, ref.Row))
	return nil
}

// SetColumnLayout applies a named width preset to a row.
func (s *Session) SetColumnLayout(section, r int, layout string) error {
	if err := s.ops.SetColumnLayout(s.tree, section, r, layout); err != nil {
		return err
	}
	s.commit(SelectRow(section, r))
	return nil
}

// =============================================================================
// Modules
// =============================================================================

// AddModule creates a module of kind in the column and selects it.
func (s *Session) AddModule(ref builder.ColumnRef, kind builder.ModuleKind, at int) (builder.ModulePath, error) {
	if !kind.Valid() {
		return builder.ModulePath{}, fmt.Errorf("%w: %q", builder.ErrUnknownModuleKind, kind)
	}
	path, err := s.ops.AddModule(s.tree, ref, kind, at)
	if err != nil {
		return builder.ModulePath{}, err
	}
	s.commit(SelectModule(path))
	return path, nil
}

// RemoveModule deletes a module and selects its column.
func (s *Session) RemoveModule(path builder.ModulePath) error {
	if err := s.ops.RemoveModule(s.tree, path); err != nil {
		return err
	}
	s.commit(SelectColumn(path.ColumnRef))
	return nil
}

// DuplicateModule copies a module with a fresh id right after the original.
func (s *Session) DuplicateModule(path builder.ModulePath) (builder.ModulePath, error) {
	dup, err := s.ops.DuplicateModule(s.tree, path)
	if err != nil {
		return builder.ModulePath{}, err
	}
	s.commit(SelectModule(dup))
	return dup, nil
}

// MoveModule moves a module within its column to final index to.
func (s *Session) MoveModule(path builder.ModulePath, to int) (builder.ModulePath, error) {
	moved, err := s.ops.MoveModule(s.tree, path, to)
	if err != nil {
		return builder.ModulePath{}, err
	}
	if moved != path {
		s.commit(SelectModule(moved))
	} else {
		s.setSelection(SelectModule(moved))
	}
	return moved, nil
}

// MoveModuleAcrossColumns moves a module into dst at insertion index at.
func (s *Session) MoveModuleAcrossColumns(path builder.ModulePath, dst builder.ColumnRef, at int) (builder.ModulePath, error) {
	moved, err := s.ops.MoveModuleAcrossColumns(s.tree, path, dst, at)
	if err != nil {
		return builder.ModulePath{}, err
	}
	if moved != path {
		s.commit(SelectModule(moved))
	} else {
		s.setSelection(SelectModule(moved))
	}
	return moved, nil
}

// =============================================================================
// Properties
// =============================================================================

// SetModuleProperty writes one state/device variant of a module property.
func (s *Session) SetModuleProperty(path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device, value any) error {
	if err := s.ops.SetModuleProperty(s.tree, path, scope, base, state, device, value); err != nil {
		return err
	}
	s.commit(SelectModule(path))
	return nil
}

// RemoveModuleProperty deletes one state/device variant of a module property.
func (s *Session) RemoveModuleProperty(path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device) error {
	if err := s.ops.UnsetModuleProperty(s.tree, path, scope, base, state, device); err != nil {
		return err
	}
	s.commit(SelectModule(path))
	return nil
}

// SetElementStyle writes a style key for a module sub-element in one state.
func (s *Session) SetElementStyle(path builder.ModulePath, element string, state builder.State, key string, value any) error {
	if err := s.ops.SetElementStyle(s.tree, path, element, state, key, value); err != nil {
		return err
	}
	s.commit(SelectModule(path))
	return nil
}

// SetSectionProperty writes key into one of the section's property bags.
func (s *Session) SetSectionProperty(section int, scope Scope, key string, value any) error {
	if err := s.ops.SetSectionProperty(s.tree, section, scope, key, value); err != nil {
		return err
	}
	s.commit(SelectSection(section))
	return nil
}

// ResolveModuleProperty reads a property of the live tree with variant fallback.
func (s *Session) ResolveModuleProperty(path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device) (any, bool, error) {
	return ResolveModuleProperty(s.tree, path, scope, base, state, device)
}

// =============================================================================
// Import
// =============================================================================

// InsertSections merges library sections into the tree. Replace clears the
// selection; append selects the first inserted section.
func (s *Session) InsertSections(sections []*builder.Section, mode ImportMode) int {
	first := s.ops.InsertSections(s.tree, sections, mode == ImportReplace)
	var sel *Selection
	if mode != ImportReplace && first < len(s.tree.Sections) {
		sel = SelectSection(first)
	}
	s.commit(sel)
	return first
}

// =============================================================================
// History
// =============================================================================

// Undo restores the previous snapshot and clears the selection.
func (s *Session) Undo() error {
	tree, err := s.history.Undo()
	if err != nil {
		return err
	}
	s.restore(tree)
	return nil
}

// Redo restores the next snapshot and clears the selection.
func (s *Session) Redo() error {
	tree, err := s.history.Redo()
	if err != nil {
		return err
	}
	s.restore(tree)
	return nil
}

func (s *Session) restore(tree *builder.ContentTree) {
	s.tree = tree
	s.drag.Cancel()
	s.notifyTree()
	s.setSelection(nil)
}

// =============================================================================
// Selection
// =============================================================================

// Select sets the selection after checking it resolves. A nil selection clears it.
func (s *Session) Select(sel *Selection) error {
	if err := sel.Validate(s.tree); err != nil {
		return err
	}
	if sel != nil {
		cp := *sel
		sel = &cp
	}
	s.setSelection(sel)
	return nil
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.setSelection(nil)
}

// Escape cancels an active drag, or clears the selection when there is none.
func (s *Session) Escape() {
	if s.drag.Phase() != PhaseIdle {
		s.drag.Cancel()
		return
	}
	s.setSelection(nil)
}

// =============================================================================
// Drag and drop
// =============================================================================

// BeginPaletteDrag starts dragging a new module of kind.
func (s *Session) BeginPaletteDrag(kind builder.ModuleKind) error {
	return s.drag.BeginPalette(kind)
}

// BeginModuleDrag starts dragging the existing module at path.
func (s *Session) BeginModuleDrag(path builder.ModulePath) error {
	return s.drag.BeginModule(s.tree, path)
}

// DragOverColumn updates the drop target to a column and returns the insertion index.
func (s *Session) DragOverColumn(ref builder.ColumnRef, pointerY float64, boxes []ModuleBox) (int, error) {
	return s.drag.OverColumn(ref, pointerY, boxes)
}

// DragOverNewSection updates the drop target to the new-section zone.
func (s *Session) DragOverNewSection(at int) error {
	return s.drag.OverNewSection(at)
}

// DragLeave clears the drop target while the drag continues.
func (s *Session) DragLeave() {
	s.drag.Leave()
}

// CancelDrag ends the gesture without a mutation.
func (s *Session) CancelDrag() {
	s.drag.Cancel()
}

// Drop ends the gesture and applies it. A drop without a target, or onto a
// target that no longer resolves, is a cancel. A drop that changes the tree
// is recorded and selects the resulting module.
func (s *Session) Drop() (DropResult, error) {
	src, dst, err := s.drag.finish()
	if err != nil {
		return DropResult{}, err
	}
	res, err := applyDrop(s.ops, s.tree, src, dst)
	if err != nil || res.Outcome != OutcomeDropped {
		return res, err
	}
	if res.Changed {
		s.commit(SelectModule(res.Path))
	} else {
		s.setSelection(SelectModule(res.Path))
	}
	return res, nil
}
