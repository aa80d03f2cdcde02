package editor

import (
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Normalize repairs a loaded or imported tree in place and returns it. Legacy
// layouts without rows or columns are wrapped, missing ids, widths and property
// bags are filled in and nil entries are dropped. Running it twice changes nothing.
func Normalize(tree *builder.ContentTree, ids builder.IDGenerator) *builder.ContentTree {
	if tree == nil {
		tree = builder.NewTree()
	}
	if tree.Sections == nil {
		tree.Sections = []*builder.Section{}
	}
	tree.Sections = dropNil(tree.Sections)
	for _, section := range tree.Sections {
		normalizeSection(section, ids)
	}
	return tree
}

// NormalizeSections applies Normalize to a detached list of sections.
func NormalizeSections(sections []*builder.Section, ids builder.IDGenerator) []*builder.Section {
	return Normalize(&builder.ContentTree{Sections: sections}, ids).Sections
}

func normalizeSection(section *builder.Section, ids builder.IDGenerator) {
	if section.ID == "" {
		section.ID = ids()
	}
	if section.Settings == nil {
		section.Settings = builder.Props{}
	}
	if section.Design == nil {
		section.Design = builder.Props{}
	}

	section.Rows = dropNil(section.Rows)
	if len(section.Rows) == 0 {
		legacyColumns := dropNil(section.LegacyColumns)
		legacyModules := dropNil(section.LegacyModules)
		switch {
		case len(legacyColumns) > 0:
			section.Rows = []*builder.Row{{ID: ids(), Columns: legacyColumns}}
		case len(legacyModules) > 0:
			section.Rows = []*builder.Row{{ID: ids(), LegacyModules: legacyModules}}
		default:
			section.Rows = []*builder.Row{builder.NewRow(ids)}
		}
	}
	section.LegacyColumns = nil
	section.LegacyModules = nil

	for _, row := range section.Rows {
		normalizeRow(row, ids)
	}
}

func normalizeRow(row *builder.Row, ids builder.IDGenerator) {
	if row.ID == "" {
		row.ID = ids()
	}

	row.Columns = dropNil(row.Columns)
	if len(row.Columns) == 0 {
		column := builder.NewColumn(ids, "100%")
		if legacy := dropNil(row.LegacyModules); len(legacy) > 0 {
			column.Modules = legacy
		}
		row.Columns = []*builder.Column{column}
	}
	row.LegacyModules = nil

	even := builder.EvenWidths(len(row.Columns))
	for i, column := range row.Columns {
		if column.ID == "" {
			column.ID = ids()
		}
		if column.Width == "" {
			column.Width = even[i]
		}
		if column.Modules == nil {
			column.Modules = []*builder.Module{}
		}
		column.Modules = dropNil(column.Modules)
		for _, module := range column.Modules {
			normalizeModule(module, ids)
		}
	}
}

func normalizeModule(module *builder.Module, ids builder.IDGenerator) {
	if module.ID == "" {
		module.ID = ids()
	}
	if module.Content == nil {
		module.Content = builder.Props{}
	}
	if module.Settings == nil {
		module.Settings = builder.Props{}
	}
	if module.Design == nil {
		module.Design = builder.Props{}
	}
}

// dropNil removes nil entries, reusing the backing array when there are none.
func dropNil[T any](in []*T) []*T {
	for i, v := range in {
		if v == nil {
			out := append([]*T{}, in[:i]...)
			for _, rest := range in[i+1:] {
				if rest != nil {
					out = append(out, rest)
				}
			}
			return out
		}
	}
	return in
}
