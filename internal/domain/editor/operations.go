package editor

import (
	"fmt"
	"slices"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Append is passed as an insertion index to place a new node at the end.
const Append = -1

// ContentProvider supplies the default content shape for a module kind.
type ContentProvider interface {
	DefaultContent(kind builder.ModuleKind) builder.Props
}

// ContentProviderFunc adapts a function to ContentProvider.
type ContentProviderFunc func(kind builder.ModuleKind) builder.Props

// DefaultContent implements ContentProvider.
func (f ContentProviderFunc) DefaultContent(kind builder.ModuleKind) builder.Props {
	return f(kind)
}

// Operations performs structural edits on a content tree. Every method
// validates its arguments before touching the tree, so a returned error means
// the tree is unchanged. Recording history is left to the caller.
type Operations struct {
	ids      builder.IDGenerator
	contents ContentProvider
}

// NewOperations creates an operation set. A nil provider uses the built-in
// default content table.
func NewOperations(ids builder.IDGenerator, contents ContentProvider) *Operations {
	if contents == nil {
		contents = ContentProviderFunc(builder.DefaultContent)
	}
	return &Operations{ids: ids, contents: contents}
}

// IDs exposes the id generator used for new nodes.
func (o *Operations) IDs() builder.IDGenerator {
	return o.ids
}

// NewModule builds a module with a fresh id and default content for kind.
func (o *Operations) NewModule(kind builder.ModuleKind) *builder.Module {
	return builder.NewModule(o.ids, kind, o.contents.DefaultContent(kind))
}

// =============================================================================
// Lookup helpers
// =============================================================================

func section(tree *builder.ContentTree, s int) (*builder.Section, error) {
	sec, ok := tree.Section(s)
	if !ok {
		return nil, fmt.Errorf("section %d: %w", s, ErrNotFound)
	}
	return sec, nil
}

func row(tree *builder.ContentTree, s, r int) (*builder.Row, error) {
	rw, ok := tree.Row(s, r)
	if !ok {
		return nil, fmt.Errorf("row %d/%d: %w", s, r, ErrNotFound)
	}
	return rw, nil
}

func column(tree *builder.ContentTree, ref builder.ColumnRef) (*builder.Column, error) {
	col, ok := tree.Column(ref)
	if !ok {
		return nil, fmt.Errorf("column %d/%d/%d: %w", ref.Section, ref.Row, ref.Column, ErrNotFound)
	}
	return col, nil
}

func module(tree *builder.ContentTree, path builder.ModulePath) (*builder.Module, error) {
	mod, ok := tree.Module(path)
	if !ok {
		return nil, fmt.Errorf("module %d/%d/%d/%d: %w", path.Section, path.Row, path.Column, path.Module, ErrNotFound)
	}
	return mod, nil
}

// insertionIndex resolves an insertion index against a sequence of length n.
func insertionIndex(at, n int) (int, error) {
	if at == Append {
		return n, nil
	}
	if at < 0 || at > n {
		return 0, fmt.Errorf("insertion index %d outside [0,%d]: %w", at, n, ErrNotFound)
	}
	return at, nil
}

// step converts a direction to -1, 0 or +1.
func step(direction int) int {
	switch {
	case direction > 0:
		return 1
	case direction < 0:
		return -1
	}
	return 0
}

// =============================================================================
// Sections
// =============================================================================

// AddSection inserts a new section with one row and column. An index outside
// the section list appends. It returns the new section's index.
func (o *Operations) AddSection(tree *builder.ContentTree, at int) int {
	return o.insertSection(tree, builder.NewSection(o.ids), at)
}

func (o *Operations) insertSection(tree *builder.ContentTree, sec *builder.Section, at int) int {
	if at < 0 || at > len(tree.Sections) {
		at = len(tree.Sections)
	}
	tree.Sections = slices.Insert(tree.Sections, at, sec)
	return at
}

// DeleteSection removes section s.
func (o *Operations) DeleteSection(tree *builder.ContentTree, s int) error {
	if _, err := section(tree, s); err != nil {
		return err
	}
	tree.Sections = slices.Delete(tree.Sections, s, s+1)
	return nil
}

// DuplicateSection inserts a deep copy of section s directly after it. The
// copy and all of its descendants get new ids.
func (o *Operations) DuplicateSection(tree *builder.ContentTree, s int) (int, error) {
	sec, err := section(tree, s)
	if err != nil {
		return 0, err
	}
	dup := sec.Clone()
	dup.RegenerateIDs(o.ids)
	tree.Sections = slices.Insert(tree.Sections, s+1, dup)
	return s + 1, nil
}

// MoveSection swaps section s with its neighbour in direction. Moving past
// either end leaves the tree as it is. It returns the section's new index.
func (o *Operations) MoveSection(tree *builder.ContentTree, s, direction int) (int, error) {
	if _, err := section(tree, s); err != nil {
		return 0, err
	}
	to := s + step(direction)
	if to < 0 || to >= len(tree.Sections) || to == s {
		return s, nil
	}
	tree.Sections[s], tree.Sections[to] = tree.Sections[to], tree.Sections[s]
	return to, nil
}

// =============================================================================
// Rows
// =============================================================================

// AddRow inserts a new row into section s and returns its index.
func (o *Operations) AddRow(tree *builder.ContentTree, s, at int) (int, error) {
	sec, err := section(tree, s)
	if err != nil {
		return 0, err
	}
	idx, err := insertionIndex(at, len(sec.Rows))
	if err != nil {
		return 0, err
	}
	sec.Rows = slices.Insert(sec.Rows, idx, builder.NewRow(o.ids))
	return idx, nil
}

// DeleteRow removes row r of section s. Removing the only row requires
// confirmLast, in which case a fresh empty row takes its place.
func (o *Operations) DeleteRow(tree *builder.ContentTree, s, r int, confirmLast bool) error {
	sec, err := section(tree, s)
	if err != nil {
		return err
	}
	if _, err := row(tree, s, r); err != nil {
		return err
	}
	if len(sec.Rows) == 1 {
		if !confirmLast {
			return ErrLastRow
		}
		sec.Rows = []*builder.Row{builder.NewRow(o.ids)}
		return nil
	}
	sec.Rows = slices.Delete(sec.Rows, r, r+1)
	return nil
}

// DuplicateRow inserts a copy of row r with fresh ids directly after it.
func (o *Operations) DuplicateRow(tree *builder.ContentTree, s, r int) (int, error) {
	rw, err := row(tree, s, r)
	if err != nil {
		return 0, err
	}
	sec := tree.Sections[s]
	dup := rw.Clone()
	dup.RegenerateIDs(o.ids)
	sec.Rows = slices.Insert(sec.Rows, r+1, dup)
	return r + 1, nil
}

// MoveRow swaps row r with its neighbour in direction within the section.
func (o *Operations) MoveRow(tree *builder.ContentTree, s, r, direction int) (int, error) {
	if _, err := row(tree, s, r); err != nil {
		return 0, err
	}
	rows := tree.Sections[s].Rows
	to := r + step(direction)
	if to < 0 || to >= len(rows) || to == r {
		return r, nil
	}
	rows[r], rows[to] = rows[to], rows[r]
	return to, nil
}

// =============================================================================
// Columns
// =============================================================================

// AddColumn appends a column to the row and spreads the widths evenly.
func (o *Operations) AddColumn(tree *builder.ContentTree, s, r int) (int, error) {
	rw, err := row(tree, s, r)
	if err != nil {
		return 0, err
	}
	rw.Columns = append(rw.Columns, builder.NewColumn(o.ids, ""))
	rw.ApplyEvenWidths()
	return len(rw.Columns) - 1, nil
}

// DeleteColumn removes a column and spreads the remaining widths evenly. The
// only column of a row cannot be deleted; delete the row instead.
func (o *Operations) DeleteColumn(tree *builder.ContentTree, ref builder.ColumnRef) error {
	if _, err := column(tree, ref); err != nil {
		return err
	}
	rw := tree.Sections[ref.Section].Rows[ref.Row]
	if len(rw.Columns) == 1 {
		return ErrLastColumn
	}
	rw.Columns = slices.Delete(rw.Columns, ref.Column, ref.Column+1)
	rw.ApplyEvenWidths()
	return nil
}

// SetColumnLayout reshapes the row to a preset layout. Existing columns keep
// their modules by position; modules in columns beyond the new count are dropped.
func (o *Operations) SetColumnLayout(tree *builder.ContentTree, s, r int, layout string) error {
	rw, err := row(tree, s, r)
	if err != nil {
		return err
	}
	widths, ok := builder.LayoutWidths(layout)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	columns := make([]*builder.Column, len(widths))
	for i, width := range widths {
		if i < len(rw.Columns) {
			columns[i] = rw.Columns[i]
			columns[i].Width = width
			continue
		}
		columns[i] = builder.NewColumn(o.ids, width)
	}
	rw.Columns = columns
	return nil
}

// =============================================================================
// Modules
// =============================================================================

// AddModule creates a module of kind with its default content in the column.
func (o *Operations) AddModule(tree *builder.ContentTree, ref builder.ColumnRef, kind builder.ModuleKind, at int) (builder.ModulePath, error) {
	col, err := column(tree, ref)
	if err != nil {
		return builder.ModulePath{}, err
	}
	idx, err := insertionIndex(at, len(col.Modules))
	if err != nil {
		return builder.ModulePath{}, err
	}
	col.Modules = slices.Insert(col.Modules, idx, o.NewModule(kind))
	return ref.At(idx), nil
}

// RemoveModule deletes the module at path.
func (o *Operations) RemoveModule(tree *builder.ContentTree, path builder.ModulePath) error {
	if _, err := module(tree, path); err != nil {
		return err
	}
	col, _ := tree.Column(path.ColumnRef)
	col.Modules = slices.Delete(col.Modules, path.Module, path.Module+1)
	return nil
}

// DuplicateModule inserts a copy of the module with a new id directly after it.
func (o *Operations) DuplicateModule(tree *builder.ContentTree, path builder.ModulePath) (builder.ModulePath, error) {
	mod, err := module(tree, path)
	if err != nil {
		return builder.ModulePath{}, err
	}
	dup := mod.Clone()
	dup.ID = o.ids()
	col, _ := tree.Column(path.ColumnRef)
	col.Modules = slices.Insert(col.Modules, path.Module+1, dup)
	return path.ColumnRef.At(path.Module + 1), nil
}

// MoveModule moves a module within its column so that it ends up at index to.
func (o *Operations) MoveModule(tree *builder.ContentTree, path builder.ModulePath, to int) (builder.ModulePath, error) {
	mod, err := module(tree, path)
	if err != nil {
		return builder.ModulePath{}, err
	}
	col, _ := tree.Column(path.ColumnRef)
	if to < 0 || to >= len(col.Modules) {
		return builder.ModulePath{}, fmt.Errorf("target index %d outside [0,%d): %w", to, len(col.Modules), ErrNotFound)
	}
	if to != path.Module {
		col.Modules = slices.Delete(col.Modules, path.Module, path.Module+1)
		col.Modules = slices.Insert(col.Modules, to, mod)
	}
	return path.ColumnRef.At(to), nil
}

// MoveModuleAcrossColumns removes the module from its column and inserts it
// into dst at the insertion index at (Append for the end). The module keeps
// its id. When dst is the source column, at is read as an insertion index
// against the column before removal.
func (o *Operations) MoveModuleAcrossColumns(tree *builder.ContentTree, path builder.ModulePath, dst builder.ColumnRef, at int) (builder.ModulePath, error) {
	mod, err := module(tree, path)
	if err != nil {
		return builder.ModulePath{}, err
	}
	dstCol, err := column(tree, dst)
	if err != nil {
		return builder.ModulePath{}, err
	}
	idx, err := insertionIndex(at, len(dstCol.Modules))
	if err != nil {
		return builder.ModulePath{}, err
	}
	if dst == path.ColumnRef {
		return o.MoveModule(tree, path, ReorderIndex(path.Module, idx))
	}
	srcCol, _ := tree.Column(path.ColumnRef)
	srcCol.Modules = slices.Delete(srcCol.Modules, path.Module, path.Module+1)
	dstCol.Modules = slices.Insert(dstCol.Modules, idx, mod)
	return dst.At(idx), nil
}

// AddSectionWithModule creates a section at index at whose only column holds
// the given module, and returns the module's path.
func (o *Operations) AddSectionWithModule(tree *builder.ContentTree, mod *builder.Module, at int) builder.ModulePath {
	sec := builder.NewSection(o.ids)
	sec.Rows[0].Columns[0].Modules = append(sec.Rows[0].Columns[0].Modules, mod)
	s := o.insertSection(tree, sec, at)
	return builder.ModulePath{ColumnRef: builder.ColumnRef{Section: s}}
}

// ExtractToNewSection moves an existing module out of its column into a new
// section inserted at index at.
func (o *Operations) ExtractToNewSection(tree *builder.ContentTree, path builder.ModulePath, at int) (builder.ModulePath, error) {
	mod, err := module(tree, path)
	if err != nil {
		return builder.ModulePath{}, err
	}
	col, _ := tree.Column(path.ColumnRef)
	col.Modules = slices.Delete(col.Modules, path.Module, path.Module+1)
	return o.AddSectionWithModule(tree, mod, at), nil
}

// =============================================================================
// Import
// =============================================================================

// InsertSections normalizes the sections, gives every node a fresh id and
// either appends them or replaces the whole tree. It returns the index of the
// first inserted section.
func (o *Operations) InsertSections(tree *builder.ContentTree, sections []*builder.Section, replace bool) int {
	incoming := make([]*builder.Section, 0, len(sections))
	for _, sec := range sections {
		if sec != nil {
			incoming = append(incoming, sec.Clone())
		}
	}
	incoming = NormalizeSections(incoming, o.ids)
	for _, sec := range incoming {
		sec.RegenerateIDs(o.ids)
	}
	if replace {
		tree.Sections = incoming
		return 0
	}
	first := len(tree.Sections)
	tree.Sections = append(tree.Sections, incoming...)
	return first
}
