// Package editor implements the page builder editing core: tree normalization,
// structural mutations, undo/redo history, drag and drop and the editor session
// that ties them together.
package editor

import "errors"

// Structure errors
var (
	// ErrNotFound indicates that an index or path does not resolve in the current tree.
	ErrNotFound = errors.New("not found")

	// ErrLastColumn indicates an attempt to delete the only column of a row.
	ErrLastColumn = errors.New("cannot delete the last column of a row")

	// ErrLastRow indicates an unconfirmed attempt to delete the only row of a section.
	ErrLastRow = errors.New("deleting the last row of a section requires confirmation")

	// ErrUnknownLayout indicates a column layout token that is not in the preset table.
	ErrUnknownLayout = errors.New("unknown column layout")
)

// History errors
var (
	// ErrAtOldestState indicates that there is nothing left to undo.
	ErrAtOldestState = errors.New("already at oldest state")

	// ErrAtNewestState indicates that there is nothing left to redo.
	ErrAtNewestState = errors.New("already at newest state")
)

// Gesture errors
var (
	// ErrNoDrag indicates a drag event arrived while no drag is in progress.
	ErrNoDrag = errors.New("no drag in progress")
)

// Command errors
var (
	// ErrUnknownCommand indicates a command envelope with an unrecognised op.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidCommand indicates a command whose arguments cannot be interpreted.
	ErrInvalidCommand = errors.New("invalid command")
)
