// Package builder defines the page builder content tree: sections hold rows,
// rows hold columns and columns hold modules.
package builder

// IDGenerator returns a fresh identifier for a tree node.
type IDGenerator func() string

// ContentTree is the root of a page layout.
type ContentTree struct {
	Sections []*Section `json:"sections"`
}

// Section is the outermost layout block of a page.
type Section struct {
	ID       string `json:"id"`
	Settings Props  `json:"settings"`
	Design   Props  `json:"design"`
	Rows     []*Row `json:"rows"`

	// Pre-row layouts stored columns or modules directly on the section.
	// Normalize folds them into Rows and clears them.
	LegacyColumns []*Column `json:"columns,omitempty"`
	LegacyModules []*Module `json:"modules,omitempty"`
}

// Row is a horizontal band of columns inside a section.
type Row struct {
	ID      string    `json:"id"`
	Columns []*Column `json:"columns"`

	LegacyModules []*Module `json:"modules,omitempty"`
}

// Column holds an ordered stack of modules. Width is a percentage string such as "50%".
type Column struct {
	ID      string    `json:"id"`
	Width   string    `json:"width"`
	Modules []*Module `json:"modules"`
}

// Module is a single content element (heading, image, button...).
type Module struct {
	ID       string     `json:"id"`
	Type     ModuleKind `json:"type"`
	Content  Props      `json:"content"`
	Settings Props      `json:"settings"`
	Design   Props      `json:"design"`
}

// ColumnRef locates a column in a specific tree snapshot.
type ColumnRef struct {
	Section int `json:"section"`
	Row     int `json:"row"`
	Column  int `json:"column"`
}

// ModulePath locates a module in a specific tree snapshot. Paths are not
// stable across mutations that reorder or resize sibling sequences.
type ModulePath struct {
	ColumnRef
	Module int `json:"module"`
}

// At builds a ModulePath inside the referenced column.
func (c ColumnRef) At(module int) ModulePath {
	return ModulePath{ColumnRef: c, Module: module}
}

// NewTree returns an empty tree.
func NewTree() *ContentTree {
	return &ContentTree{Sections: []*Section{}}
}

// NewSection builds a section containing one empty row with one full-width column.
func NewSection(ids IDGenerator) *Section {
	return &Section{
		ID:       ids(),
		Settings: Props{},
		Design:   Props{},
		Rows:     []*Row{NewRow(ids)},
	}
}

// NewRow builds a row holding one full-width empty column.
func NewRow(ids IDGenerator) *Row {
	return &Row{
		ID:      ids(),
		Columns: []*Column{NewColumn(ids, "100%")},
	}
}

// NewColumn builds an empty column with the given width.
func NewColumn(ids IDGenerator, width string) *Column {
	return &Column{
		ID:      ids(),
		Width:   width,
		Modules: []*Module{},
	}
}

// NewModule builds a module of the given kind with its default content.
func NewModule(ids IDGenerator, kind ModuleKind, content Props) *Module {
	if content == nil {
		content = Props{}
	}
	return &Module{
		ID:       ids(),
		Type:     kind,
		Content:  content,
		Settings: Props{},
		Design:   Props{},
	}
}

// Section returns the section at index i.
func (t *ContentTree) Section(i int) (*Section, bool) {
	if t == nil || i < 0 || i >= len(t.Sections) {
		return nil, false
	}
	return t.Sections[i], true
}

// Row returns row r of section s.
func (t *ContentTree) Row(s, r int) (*Row, bool) {
	section, ok := t.Section(s)
	if !ok || r < 0 || r >= len(section.Rows) {
		return nil, false
	}
	return section.Rows[r], true
}

// Column returns the referenced column.
func (t *ContentTree) Column(ref ColumnRef) (*Column, bool) {
	row, ok := t.Row(ref.Section, ref.Row)
	if !ok || ref.Column < 0 || ref.Column >= len(row.Columns) {
		return nil, false
	}
	return row.Columns[ref.Column], true
}

// Module returns the module at path.
func (t *ContentTree) Module(path ModulePath) (*Module, bool) {
	column, ok := t.Column(path.ColumnRef)
	if !ok || path.Module < 0 || path.Module >= len(column.Modules) {
		return nil, false
	}
	return column.Modules[path.Module], true
}

// FindModule returns the current path of the module with the given id.
func (t *ContentTree) FindModule(id string) (ModulePath, bool) {
	if t == nil {
		return ModulePath{}, false
	}
	for s, section := range t.Sections {
		for r, row := range section.Rows {
			for c, column := range row.Columns {
				for m, module := range column.Modules {
					if module.ID == id {
						return ModulePath{ColumnRef: ColumnRef{Section: s, Row: r, Column: c}, Module: m}, true
					}
				}
			}
		}
	}
	return ModulePath{}, false
}

// ModuleCount returns the number of modules in the whole tree.
func (t *ContentTree) ModuleCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, section := range t.Sections {
		for _, row := range section.Rows {
			for _, column := range row.Columns {
				n += len(column.Modules)
			}
		}
	}
	return n
}

// IDs returns every node id in the section subtree, the section's own id first.
func (s *Section) IDs() []string {
	ids := []string{s.ID}
	for _, row := range s.Rows {
		ids = append(ids, row.IDs()...)
	}
	return ids
}

// IDs returns every node id in the row subtree.
func (r *Row) IDs() []string {
	ids := []string{r.ID}
	for _, column := range r.Columns {
		ids = append(ids, column.ID)
		for _, module := range column.Modules {
			ids = append(ids, module.ID)
		}
	}
	return ids
}

// RegenerateIDs assigns fresh ids to the section and every descendant.
func (s *Section) RegenerateIDs(ids IDGenerator) {
	s.ID = ids()
	for _, row := range s.Rows {
		row.RegenerateIDs(ids)
	}
}

// RegenerateIDs assigns fresh ids to the row and every descendant.
func (r *Row) RegenerateIDs(ids IDGenerator) {
	r.ID = ids()
	for _, column := range r.Columns {
		column.ID = ids()
		for _, module := range column.Modules {
			module.ID = ids()
		}
	}
}
