package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

func run(t *testing.T, s *Session, raw string) (*Selection, error) {
	t.Helper()
	cmd, err := ParseCommand([]byte(raw))
	require.NoError(t, err)
	return s.Execute(cmd)
}

func TestParseCommandRejectsGarbage(t *testing.T) {
	_, err := ParseCommand([]byte(`{"op":`))
	assert.ErrorIs(t, err, ErrInvalidCommand)
	_, err = ParseCommand([]byte(`{"section": 1}`))
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestExecuteBuildsPage(t *testing.T) {
	s := NewSession("page", nil, counterIDs())

	sel, err := run(t, s, `{"op":"add_section"}`)
	require.NoError(t, err)
	assert.Equal(t, SelectSection(0), sel)

	_, err = run(t, s, `{"op":"set_column_layout","section":0,"row":0,"layout":"1-1"}`)
	require.NoError(t, err)

	sel, err = run(t, s, `{"op":"add_module","section":0,"row":0,"column":1,"kind":"heading"}`)
	require.NoError(t, err)
	assert.Equal(t, SelectModule(builder.ColumnRef{Column: 1}.At(0)), sel)

	_, err = run(t, s, `{"op":"add_module","section":0,"row":0,"column":1,"kind":"text","at":0}`)
	require.NoError(t, err)

	sel, err = run(t, s, `{"op":"move_module","section":0,"row":0,"column":1,"module":0,"to":1}`)
	require.NoError(t, err)
	assert.Equal(t, SelectModule(builder.ColumnRef{Column: 1}.At(1)), sel)

	sel, err = run(t, s, `{"op":"move_module_across_columns","section":0,"row":0,"column":1,"module":0,"target":{"section":0,"row":0,"column":0}}`)
	require.NoError(t, err)
	assert.Equal(t, SelectModule(builder.ColumnRef{}.At(0)), sel)

	_, err = run(t, s, `{"op":"set_module_property","section":0,"row":0,"column":0,"module":0,"scope":"design","key":"margin","device":"mobile","value":"0"}`)
	require.NoError(t, err)
	_, err = run(t, s, `{"op":"set_element_style","section":0,"row":0,"column":0,"module":0,"element":"title","state":"hover","key":"color","value":"red"}`)
	require.NoError(t, err)
	_, err = run(t, s, `{"op":"set_section_property","section":0,"scope":"design","key":"background","value":"#fff"}`)
	require.NoError(t, err)

	tree := s.Tree()
	row := tree.Sections[0].Rows[0]
	require.Len(t, row.Columns[0].Modules, 1)
	require.Len(t, row.Columns[1].Modules, 1)
	moved := row.Columns[0].Modules[0]
	assert.Equal(t, builder.KindHeading, moved.Type)
	assert.Equal(t, "0", moved.Design["margin_mobile"])
	assert.Equal(t, map[string]any{"color": "red"}, builder.ElementStyle(moved.Design, "title", builder.StateHover))
	assert.Equal(t, "#fff", tree.Sections[0].Design["background"])

	_, err = run(t, s, `{"op":"remove_module_property","section":0,"row":0,"column":0,"module":0,"scope":"design","key":"margin","device":"mobile"}`)
	require.NoError(t, err)
	mod, _ := s.Tree().Module(builder.ColumnRef{}.At(0))
	assert.NotContains(t, mod.Design, "margin_mobile")
}

func TestExecuteStructureOps(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	for _, raw := range []string{
		`{"op":"add_section"}`,
		`{"op":"duplicate_section","section":0}`,
		`{"op":"move_section","section":1,"direction":-1}`,
		`{"op":"add_row","section":0}`,
		`{"op":"duplicate_row","section":0,"row":1}`,
		`{"op":"move_row","section":0,"row":2,"direction":-1}`,
		`{"op":"delete_row","section":0,"row":0}`,
		`{"op":"add_column","section":0,"row":0}`,
		`{"op":"delete_column","section":0,"row":0,"column":1}`,
		`{"op":"add_module","section":0,"row":0,"column":0,"kind":"spacer"}`,
		`{"op":"duplicate_module","section":0,"row":0,"column":0,"module":0}`,
		`{"op":"remove_module","section":0,"row":0,"column":0,"module":1}`,
		`{"op":"delete_section","section":1}`,
	} {
		_, err := run(t, s, raw)
		require.NoError(t, err, raw)
	}

	tree := s.Tree()
	require.Len(t, tree.Sections, 1)
	assert.Len(t, tree.Sections[0].Rows, 2)
	assert.Len(t, tree.Sections[0].Rows[0].Columns, 1)
	assert.Equal(t, 1, tree.ModuleCount())
	assertInSync(t, s)
}

func TestExecuteErrors(t *testing.T) {
	s := NewSession("page", nil, counterIDs())
	_, err := run(t, s, `{"op":"add_section"}`)
	require.NoError(t, err)
	n := s.History().Len()

	cases := []struct {
		raw  string
		want error
	}{
		{`{"op":"explode"}`, ErrUnknownCommand},
		{`{"op":"delete_column","section":0,"row":0,"column":0}`, ErrLastColumn},
		{`{"op":"delete_row","section":0,"row":0}`, ErrLastRow},
		{`{"op":"set_column_layout","section":0,"row":0,"layout":"9"}`, ErrUnknownLayout},
		{`{"op":"add_module","section":0,"row":0,"column":0,"kind":"marquee"}`, builder.ErrUnknownModuleKind},
		{`{"op":"remove_module","section":0,"row":0,"column":0,"module":0}`, ErrNotFound},
		{`{"op":"move_module_across_columns","section":0,"row":0,"column":0,"module":0}`, ErrInvalidCommand},
		{`{"op":"set_module_property","section":0,"row":0,"column":0,"scope":"weird"}`, ErrInvalidCommand},
		{`{"op":"set_module_property","section":0,"row":0,"column":0,"state":"visited"}`, ErrInvalidCommand},
		{`{"op":"set_section_property","section":0,"scope":"settings"}`, ErrInvalidCommand},
	}
	for _, tc := range cases {
		_, err := run(t, s, tc.raw)
		assert.ErrorIs(t, err, tc.want, tc.raw)
	}
	assert.Equal(t, n, s.History().Len())
}
