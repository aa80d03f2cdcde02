package editor

import (
	"slices"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// DefaultHistoryLimit is the number of snapshots kept when no limit is configured.
const DefaultHistoryLimit = 50

// History is a linear, bounded undo/redo log of full tree snapshots. Entries
// are deep copies and never share memory with the live tree.
//
// Recording after an undo discards every entry past the cursor. When the log
// is full the oldest entry is evicted and the cursor stays on the newest one.
type History struct {
	entries []*builder.ContentTree
	index   int
	limit   int
}

// NewHistory creates an empty history keeping at most limit snapshots.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{index: -1, limit: limit}
}

// Record appends a snapshot of tree and moves the cursor onto it.
func (h *History) Record(tree *builder.ContentTree) {
	if h.index < len(h.entries)-1 {
		clear(h.entries[h.index+1:])
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, tree.Clone())
	if len(h.entries) > h.limit {
		h.entries = slices.Delete(h.entries, 0, 1)
		return
	}
	h.index++
}

// Undo moves the cursor back one entry and returns a copy of that snapshot.
func (h *History) Undo() (*builder.ContentTree, error) {
	if !h.CanUndo() {
		return nil, ErrAtOldestState
	}
	h.index--
	return h.entries[h.index].Clone(), nil
}

// Redo moves the cursor forward one entry and returns a copy of that snapshot.
func (h *History) Redo() (*builder.ContentTree, error) {
	if !h.CanRedo() {
		return nil, ErrAtNewestState
	}
	h.index++
	return h.entries[h.index].Clone(), nil
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Index returns the cursor position, or -1 for an empty history.
func (h *History) Index() int {
	return h.index
}

// Limit returns the maximum number of retained snapshots.
func (h *History) Limit() int {
	return h.limit
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() (*builder.ContentTree, bool) {
	if h.index < 0 || h.index >= len(h.entries) {
		return nil, false
	}
	return h.entries[h.index].Clone(), true
}

// At returns a copy of the snapshot at position i.
func (h *History) At(i int) (*builder.ContentTree, bool) {
	if i < 0 || i >= len(h.entries) {
		return nil, false
	}
	return h.entries[i].Clone(), true
}
