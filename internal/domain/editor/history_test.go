package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryLimit, h.Limit())
	assert.Equal(t, -1, h.Index())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, err := h.Undo()
	assert.ErrorIs(t, err, ErrAtOldestState)
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrAtNewestState)
	_, ok := h.Current()
	assert.False(t, ok)
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	ops := NewOperations(counterIDs(), nil)
	tree := columnTree(ops.IDs(), "A")
	h := NewHistory(10)
	h.Record(tree)

	tree.Sections[0].Rows[0].Columns[0].Modules[0].Content["text"] = "mutated"
	ops.AddSection(tree, Append)

	snap, ok := h.Current()
	require.True(t, ok)
	require.Len(t, snap.Sections, 1)
	assert.NotContains(t, snap.Sections[0].Rows[0].Columns[0].Modules[0].Content, "text")

	// a restored copy cannot reach back into the log either
	snap.Sections = nil
	again, _ := h.Current()
	assert.Len(t, again.Sections, 1)
}

func TestHistoryRoundTrip(t *testing.T) {
	ops := NewOperations(counterIDs(), nil)
	tree := builder.NewTree()
	h := NewHistory(DefaultHistoryLimit)
	h.Record(tree)
	initial := tree.Clone()

	mutations := []func(){
		func() { ops.AddSection(tree, Append) },
		func() { _, _ = ops.AddColumn(tree, 0, 0) },
		func() { _, _ = ops.AddModule(tree, builder.ColumnRef{Column: 1}, builder.KindHeading, Append) },
		func() { _, _ = ops.DuplicateSection(tree, 0) },
		func() { _ = ops.SetColumnLayout(tree, 1, 0, "1-2-1") },
	}
	for _, m := range mutations {
		m()
		h.Record(tree)
	}
	final := tree.Clone()

	live := tree
	for range mutations {
		var err error
		live, err = h.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, initial, live)
	_, err := h.Undo()
	assert.ErrorIs(t, err, ErrAtOldestState)

	for range mutations {
		live, err = h.Redo()
		require.NoError(t, err)
	}
	assert.Equal(t, final, live)
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrAtNewestState)
}

func TestHistoryTruncatesRedoBranch(t *testing.T) {
	ops := NewOperations(counterIDs(), nil)
	tree := builder.NewTree()
	h := NewHistory(DefaultHistoryLimit)
	h.Record(tree)

	ops.AddSection(tree, Append)
	h.Record(tree)
	ops.AddSection(tree, Append)
	h.Record(tree)
	undone := tree.Clone()

	tree, err := h.Undo()
	require.NoError(t, err)
	_, err = ops.AddRow(tree, 0, Append)
	require.NoError(t, err)
	h.Record(tree)

	assert.False(t, h.CanRedo())
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrAtNewestState)
	assert.Equal(t, 3, h.Len())
	for i := 0; i < h.Len(); i++ {
		snap, _ := h.At(i)
		assert.NotEqual(t, undone, snap)
	}
}

func TestHistoryBound(t *testing.T) {
	ops := NewOperations(counterIDs(), nil)
	tree := builder.NewTree()
	h := NewHistory(DefaultHistoryLimit)

	var recorded []*builder.ContentTree
	for i := 0; i < 60; i++ {
		ops.AddSection(tree, Append)
		h.Record(tree)
		recorded = append(recorded, tree.Clone())
	}

	require.Equal(t, 50, h.Len())
	assert.Equal(t, 49, h.Index())
	for i := 0; i < 50; i++ {
		snap, ok := h.At(i)
		require.True(t, ok)
		assert.Equal(t, recorded[10+i], snap)
	}

	cur, _ := h.Current()
	assert.Equal(t, tree, cur)
	assert.False(t, h.CanRedo())
	assert.True(t, h.CanUndo())
}

func TestHistoryUndoNearCapStaysConsistent(t *testing.T) {
	ops := NewOperations(counterIDs(), nil)
	tree := builder.NewTree()
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		ops.AddSection(tree, Append)
		h.Record(tree)
	}
	require.Equal(t, 3, h.Len())

	prev, err := h.Undo()
	require.NoError(t, err)
	assert.Len(t, prev.Sections, 4)

	ops.AddRow(prev, 0, Append)
	h.Record(prev)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Index())
	cur, _ := h.Current()
	assert.Equal(t, prev, cur)
}
