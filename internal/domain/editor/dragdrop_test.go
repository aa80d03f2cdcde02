package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// three stacked 100px modules starting at y=0
var stacked = []ModuleBox{{Top: 0, Height: 100}, {Top: 100, Height: 100}, {Top: 200, Height: 100}}

func TestInsertionIndexMidpointRule(t *testing.T) {
	cases := []struct {
		y    float64
		want int
	}{
		{-10, 0},
		{49, 0},
		{50, 1},
		{149, 1},
		{150, 2},
		{249.9, 2},
		{250, 3},
		{1000, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InsertionIndex(tc.y, stacked), "y=%v", tc.y)
	}
	assert.Equal(t, 0, InsertionIndex(500, nil))
}

func TestReorderIndex(t *testing.T) {
	assert.Equal(t, 1, ReorderIndex(0, 2))
	assert.Equal(t, 2, ReorderIndex(0, 3))
	assert.Equal(t, 0, ReorderIndex(2, 0))
	assert.Equal(t, 1, ReorderIndex(1, 1))
}

func TestCoordinatorPhases(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, PhaseIdle, c.Phase())

	_, err := c.OverColumn(builder.ColumnRef{}, 0, nil)
	assert.ErrorIs(t, err, ErrNoDrag)
	assert.ErrorIs(t, c.OverNewSection(0), ErrNoDrag)

	assert.ErrorIs(t, c.BeginPalette("no-such-kind"), builder.ErrUnknownModuleKind)
	assert.Equal(t, PhaseIdle, c.Phase())

	require.NoError(t, c.BeginPalette(builder.KindText))
	assert.Equal(t, PhaseDragging, c.Phase())
	src, ok := c.Source()
	require.True(t, ok)
	assert.Equal(t, SourcePalette, src.Kind)

	idx, err := c.OverColumn(builder.ColumnRef{Column: 1}, 120, stacked)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, PhaseOverTarget, c.Phase())
	dst, ok := c.Target()
	require.True(t, ok)
	assert.Equal(t, DropTarget{Kind: TargetColumn, Column: builder.ColumnRef{Column: 1}, Index: 1}, dst)

	c.Leave()
	assert.Equal(t, PhaseDragging, c.Phase())
	_, ok = c.Target()
	assert.False(t, ok)

	c.Cancel()
	assert.Equal(t, PhaseIdle, c.Phase())
	_, ok = c.Source()
	assert.False(t, ok)
}

func TestCoordinatorModuleSourceReplacesPalette(t *testing.T) {
	tree := columnTree(counterIDs(), "A")
	c := NewCoordinator()
	require.NoError(t, c.BeginPalette(builder.KindImage))
	require.NoError(t, c.BeginModule(tree, builder.ColumnRef{}.At(0)))

	src, _ := c.Source()
	assert.Equal(t, SourceModule, src.Kind)
	assert.Empty(t, src.ModuleKind)

	assert.ErrorIs(t, c.BeginModule(tree, builder.ColumnRef{}.At(4)), ErrNotFound)
}

func dropSession(t *testing.T, names ...string) *Session {
	t.Helper()
	ids := counterIDs()
	return NewSession("drag", columnTree(ids, names...), ids)
}

func TestDropReordersWithinColumn(t *testing.T) {
	s := dropSession(t, "A", "B", "C")
	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{}.At(0)))
	// just above C's midpoint: insert before C
	idx, err := s.DragOverColumn(builder.ColumnRef{}, 240, stacked)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, res.Outcome)
	assert.True(t, res.Changed)
	assert.Equal(t, builder.ColumnRef{}.At(1), res.Path)

	tree := s.Tree()
	assert.Equal(t, []string{"B", "A", "C"}, moduleIDs(tree.Sections[0].Rows[0].Columns[0]))
	assert.Equal(t, SelectModule(res.Path), s.Selection())
	assert.Equal(t, 2, s.History().Len())
	assert.Equal(t, PhaseIdle, s.DragPhase())
}

func TestDropOnOwnSlotChangesNothing(t *testing.T) {
	s := dropSession(t, "A", "B", "C")
	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{}.At(1)))
	_, err := s.DragOverColumn(builder.ColumnRef{}, 160, stacked)
	require.NoError(t, err)

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, res.Outcome)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, s.History().Len())
	assert.Equal(t, SelectModule(builder.ColumnRef{}.At(1)), s.Selection())
}

func TestDropPaletteItemIntoColumn(t *testing.T) {
	s := dropSession(t, "A", "B")
	require.NoError(t, s.BeginPaletteDrag(builder.KindButton))
	_, err := s.DragOverColumn(builder.ColumnRef{}, 10, stacked[:2])
	require.NoError(t, err)

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, builder.ColumnRef{}.At(0), res.Path)

	col := s.Tree().Sections[0].Rows[0].Columns[0]
	require.Len(t, col.Modules, 3)
	assert.Equal(t, builder.KindButton, col.Modules[0].Type)
	assert.Equal(t, []string{"A", "B"}, moduleIDs(col)[1:])
}

func TestDropAcrossColumns(t *testing.T) {
	s := dropSession(t, "A")
	_, err := s.AddColumn(0, 0)
	require.NoError(t, err)

	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{}.At(0)))
	idx, err := s.DragOverColumn(builder.ColumnRef{Column: 1}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, builder.ColumnRef{Column: 1}.At(0), res.Path)
	row := s.Tree().Sections[0].Rows[0]
	assert.Empty(t, row.Columns[0].Modules)
	assert.Equal(t, []string{"A"}, moduleIDs(row.Columns[1]))
}

func TestDropOnNewSectionZone(t *testing.T) {
	s := dropSession(t, "A", "B")

	require.NoError(t, s.BeginPaletteDrag(builder.KindVideo))
	require.NoError(t, s.DragOverNewSection(0))
	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, builder.ModulePath{}, res.Path)
	tree := s.Tree()
	require.Len(t, tree.Sections, 2)
	assert.Equal(t, builder.KindVideo, tree.Sections[0].Rows[0].Columns[0].Modules[0].Type)

	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{Section: 1}.At(1)))
	require.NoError(t, s.DragOverNewSection(Append))
	res, err = s.Drop()
	require.NoError(t, err)
	tree = s.Tree()
	require.Len(t, tree.Sections, 3)
	assert.Equal(t, builder.ModulePath{ColumnRef: builder.ColumnRef{Section: 2}}, res.Path)
	assert.Equal(t, []string{"A"}, moduleIDs(tree.Sections[1].Rows[0].Columns[0]))
	assert.Equal(t, []string{"B"}, moduleIDs(tree.Sections[2].Rows[0].Columns[0]))
	assert.Equal(t, 3, s.History().Len())
}

func TestDropWithoutTargetCancels(t *testing.T) {
	s := dropSession(t, "A")
	require.NoError(t, s.BeginPaletteDrag(builder.KindText))
	_, err := s.DragOverColumn(builder.ColumnRef{}, 0, nil)
	require.NoError(t, err)
	s.DragLeave()

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, 1, s.History().Len())
	assert.Equal(t, PhaseIdle, s.DragPhase())

	_, err = s.Drop()
	assert.ErrorIs(t, err, ErrNoDrag)
}

func TestDropOnStaleTargetIsSilentCancel(t *testing.T) {
	s := dropSession(t, "A", "B")
	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{}.At(0)))
	_, err := s.DragOverColumn(builder.ColumnRef{Section: 3}, 0, nil)
	require.NoError(t, err)

	before := s.Tree()
	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, before, s.Tree())
}

func TestDropAfterSourceVanishedCancels(t *testing.T) {
	s := dropSession(t, "A")
	require.NoError(t, s.BeginModuleDrag(builder.ColumnRef{}.At(0)))
	_, err := s.DragOverColumn(builder.ColumnRef{}, 0, nil)
	require.NoError(t, err)

	// tree changed under the gesture
	require.NoError(t, s.ops.RemoveModule(s.tree, builder.ColumnRef{}.At(0)))

	res, err := s.Drop()
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
}

func TestEscapeCancelsDragBeforeSelection(t *testing.T) {
	s := dropSession(t, "A")
	require.NoError(t, s.Select(SelectModule(builder.ColumnRef{}.At(0))))
	require.NoError(t, s.BeginPaletteDrag(builder.KindText))

	s.Escape()
	assert.Equal(t, PhaseIdle, s.DragPhase())
	assert.NotNil(t, s.Selection())

	s.Escape()
	assert.Nil(t, s.Selection())
}
