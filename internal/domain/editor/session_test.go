package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

type recordingListener struct {
	trees      []*builder.ContentTree
	selections []*Selection
}

func (l *recordingListener) TreeChanged(_ string, tree *builder.ContentTree) {
	l.trees = append(l.trees, tree)
}

func (l *recordingListener) SelectionChanged(_ string, sel *Selection) {
	l.selections = append(l.selections, sel)
}

// assertInSync checks that the snapshot under the history cursor equals the live tree.
func assertInSync(t *testing.T, s *Session) {
	t.Helper()
	cur, ok := s.History().Current()
	require.True(t, ok)
	assert.Equal(t, s.Tree(), cur)
}

func TestSessionTextModuleScenario(t *testing.T) {
	ids := counterIDs()
	tree := builder.NewTree()
	tree.Sections = append(tree.Sections, &builder.Section{ID: "s"})
	s := NewSession("page", tree, ids)
	require.Equal(t, 1, s.History().Len())
	col := builder.ColumnRef{}

	path, err := s.AddModule(col, builder.KindText, Append)
	require.NoError(t, err)
	live := s.Tree()
	mod, ok := live.Module(path)
	require.True(t, ok)
	id := mod.ID
	assert.Equal(t, 1, live.ModuleCount())
	assert.Equal(t, 2, s.History().Len())

	require.NoError(t, s.Undo())
	c, _ := s.Tree().Column(col)
	assert.Empty(t, c.Modules)
	assert.Nil(t, s.Selection())

	require.NoError(t, s.Redo())
	c, _ = s.Tree().Column(col)
	require.Len(t, c.Modules, 1)
	assert.Equal(t, builder.KindText, c.Modules[0].Type)
	assert.Equal(t, id, c.Modules[0].ID)
	assertInSync(t, s)
}

func TestSessionHistoryMirrorsLiveTree(t *testing.T) {
	ids := counterIDs()
	s := NewSession("page", nil, ids)
	assertInSync(t, s)

	s.AddSection(Append)
	assertInSync(t, s)
	_, err := s.AddColumn(0, 0)
	require.NoError(t, err)
	assertInSync(t, s)
	_, err = s.AddModule(builder.ColumnRef{Column: 1}, builder.KindCounter, Append)
	require.NoError(t, err)
	assertInSync(t, s)
	require.NoError(t, s.SetColumnLayout(0, 0, "2-1"))
	assertInSync(t, s)

	require.NoError(t, s.Undo())
	assertInSync(t, s)
	require.NoError(t, s.Undo())
	assertInSync(t, s)
	require.NoError(t, s.Redo())
	assertInSync(t, s)

	// a refused operation records nothing
	n := s.History().Len()
	assert.ErrorIs(t, s.DeleteColumn(builder.ColumnRef{Section: 4}), ErrNotFound)
	assert.Equal(t, n, s.History().Len())
	assertInSync(t, s)
}

func TestSessionUndoBoundaries(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.ErrorIs(t, s.Undo(), ErrAtOldestState)
	assert.ErrorIs(t, s.Redo(), ErrAtNewestState)

	s.AddSection(Append)
	assert.True(t, s.CanUndo())
	require.NoError(t, s.Undo())
	assert.True(t, s.CanRedo())
}

func TestSessionHistoryLimitOption(t *testing.T) {
	s := NewSession("page", nil, counterIDs(), WithHistoryLimit(5))
	for i := 0; i < 9; i++ {
		s.AddSection(Append)
	}
	assert.Equal(t, 5, s.History().Len())
	assertInSync(t, s)
}

func TestSessionNotifiesListeners(t *testing.T) {
	l := &recordingListener{}
	s := NewSession("page", nil, counterIDs(), WithListener(l))
	assert.Empty(t, l.trees)

	s.AddSection(Append)
	path, err := s.AddModule(builder.ColumnRef{}, builder.KindHeading, Append)
	require.NoError(t, err)
	require.Len(t, l.trees, 2)
	require.Len(t, l.selections, 2)
	assert.Equal(t, SelectModule(path), l.selections[1])

	// notifications carry copies
	l.trees[1].Sections = nil
	assert.Len(t, s.Tree().Sections, 1)

	require.NoError(t, s.Undo())
	assert.Len(t, l.trees, 3)
	assert.Nil(t, l.selections[len(l.selections)-1])
}

func TestSessionSelect(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	s.AddSection(Append)

	require.NoError(t, s.Select(SelectRow(0, 0)))
	assert.Equal(t, SelectRow(0, 0), s.Selection())

	assert.ErrorIs(t, s.Select(SelectColumn(builder.ColumnRef{Column: 2})), ErrNotFound)
	assert.Equal(t, SelectRow(0, 0), s.Selection())

	assert.ErrorIs(t, s.Select(&Selection{Level: "page"}), ErrInvalidCommand)

	require.NoError(t, s.Select(nil))
	assert.Nil(t, s.Selection())

	require.NoError(t, s.Select(SelectSection(0)))
	s.ClearSelection()
	assert.Nil(t, s.Selection())
}

func TestSessionProperties(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	s.AddSection(Append)
	path, err := s.AddModule(builder.ColumnRef{}, builder.KindButton, Append)
	require.NoError(t, err)

	require.NoError(t, s.SetModuleProperty(path, ScopeDesign, "color", builder.StateNormal, builder.DeviceDesktop, "#111"))
	require.NoError(t, s.SetModuleProperty(path, ScopeDesign, "color", builder.StateHover, builder.DeviceTablet, "#222"))

	v, ok, err := s.ResolveModuleProperty(path, ScopeDesign, "color", builder.StateHover, builder.DeviceMobile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#222", v)

	v, _, _ = s.ResolveModuleProperty(path, ScopeDesign, "color", builder.StateHover, builder.DeviceDesktop)
	assert.Equal(t, "#111", v)

	require.NoError(t, s.RemoveModuleProperty(path, ScopeDesign, "color", builder.StateHover, builder.DeviceTablet))
	v, _, _ = s.ResolveModuleProperty(path, ScopeDesign, "color", builder.StateHover, builder.DeviceMobile)
	assert.Equal(t, "#111", v)

	require.NoError(t, s.SetElementStyle(path, "icon", builder.StateFocus, "size", "20px"))
	mod, _ := s.Tree().Module(path)
	assert.Equal(t, map[string]any{"size": "20px"}, builder.ElementStyle(mod.Design, "icon", builder.StateFocus))

	require.NoError(t, s.SetSectionProperty(0, ScopeSettings, "anchor", "intro"))
	assert.Equal(t, "intro", s.Tree().Sections[0].Settings["anchor"])
	assert.ErrorIs(t, s.SetSectionProperty(0, ScopeContent, "x", 1), ErrInvalidCommand)

	assert.ErrorIs(t, s.SetModuleProperty(path.ColumnRef.At(3), ScopeSettings, "k", "", "", 1), ErrNotFound)

	// every successful edit above was recorded: 2 structure + 5 property edits + initial
	assert.Equal(t, 8, s.History().Len())
	assertInSync(t, s)
}

func TestSessionInsertSections(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	s.AddSection(Append)
	layout := []*builder.Section{{ID: "hero", LegacyModules: []*builder.Module{{Type: builder.KindHeading}}}}

	first := s.InsertSections(layout, ImportAppend)
	assert.Equal(t, 1, first)
	assert.Equal(t, SelectSection(1), s.Selection())
	assert.Len(t, s.Tree().Sections, 2)

	s.InsertSections(layout, ImportReplace)
	assert.Nil(t, s.Selection())
	assert.Len(t, s.Tree().Sections, 1)
	assertInSync(t, s)

	require.NoError(t, s.Undo())
	assert.Len(t, s.Tree().Sections, 2)
}

func TestSessionSerialize(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	s.AddSection(Append)
	data, err := s.Serialize()
	require.NoError(t, err)

	back, err := builder.DecodeTree(data)
	require.NoError(t, err)
	assert.Equal(t, s.Tree(), back)
}

func TestParseImportMode(t *testing.T) {
	mode, err := ParseImportMode("")
	require.NoError(t, err)
	assert.Equal(t, ImportAppend, mode)
	mode, err = ParseImportMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ImportReplace, mode)
	_, err = ParseImportMode("merge")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}
