package editor

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Level is the depth of a selected node.
type Level string

const (
	LevelSection Level = "section"
	LevelRow     Level = "row"
	LevelColumn  Level = "column"
	LevelModule  Level = "module"
)

// Selection identifies the node the user is working on. Path fields deeper
// than Level are ignored. A nil *Selection means nothing is selected.
type Selection struct {
	Level Level              `json:"level"`
	Path  builder.ModulePath `json:"path"`
}

// SelectSection returns a section-level selection.
func SelectSection(s int) *Selection {
	return &Selection{Level: LevelSection, Path: builder.ModulePath{ColumnRef: builder.ColumnRef{Section: s}}}
}

// SelectRow returns a row-level selection.
func SelectRow(s, r int) *Selection {
	return &Selection{Level: LevelRow, Path: builder.ModulePath{ColumnRef: builder.ColumnRef{Section: s, Row: r}}}
}

// SelectColumn returns a column-level selection.
func SelectColumn(ref builder.ColumnRef) *Selection {
	return &Selection{Level: LevelColumn, Path: builder.ModulePath{ColumnRef: ref}}
}

// SelectModule returns a module-level selection.
func SelectModule(path builder.ModulePath) *Selection {
	return &Selection{Level: LevelModule, Path: path}
}

// Validate checks that the selection resolves in tree.
func (sel *Selection) Validate(tree *builder.ContentTree) error {
	if sel == nil {
		return nil
	}
	var ok bool
	switch sel.Level {
	case LevelSection:
		_, ok = tree.Section(sel.Path.Section)
	case LevelRow:
		_, ok = tree.Row(sel.Path.Section, sel.Path.Row)
	case LevelColumn:
		_, ok = tree.Column(sel.Path.ColumnRef)
	case LevelModule:
		_, ok = tree.Module(sel.Path)
	default:
		return fmt.Errorf("%w: unknown selection level %q", ErrInvalidCommand, sel.Level)
	}
	if !ok {
		return fmt.Errorf("selection %s %+v: %w", sel.Level, sel.Path, ErrNotFound)
	}
	return nil
}
