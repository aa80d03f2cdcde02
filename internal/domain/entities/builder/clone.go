package builder

// Clone returns a structural deep copy of the tree. Nil and empty collections
// are preserved as they are so a clone compares equal to its source.
func (t *ContentTree) Clone() *ContentTree {
	if t == nil {
		return nil
	}
	out := &ContentTree{}
	if t.Sections != nil {
		out.Sections = make([]*Section, len(t.Sections))
		for i, section := range t.Sections {
			out.Sections[i] = section.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the section, ids included.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := &Section{
		ID:            s.ID,
		Settings:      s.Settings.Clone(),
		Design:        s.Design.Clone(),
		LegacyColumns: cloneColumns(s.LegacyColumns),
		LegacyModules: cloneModules(s.LegacyModules),
	}
	if s.Rows != nil {
		out.Rows = make([]*Row, len(s.Rows))
		for i, row := range s.Rows {
			out.Rows[i] = row.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	return &Row{
		ID:            r.ID,
		Columns:       cloneColumns(r.Columns),
		LegacyModules: cloneModules(r.LegacyModules),
	}
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	return &Column{
		ID:      c.ID,
		Width:   c.Width,
		Modules: cloneModules(c.Modules),
	}
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	return &Module{
		ID:       m.ID,
		Type:     m.Type,
		Content:  m.Content.Clone(),
		Settings: m.Settings.Clone(),
		Design:   m.Design.Clone(),
	}
}

// Clone returns a deep copy of the property bag.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneColumns(in []*Column) []*Column {
	if in == nil {
		return nil
	}
	out := make([]*Column, len(in))
	for i, column := range in {
		out[i] = column.Clone()
	}
	return out
}

func cloneModules(in []*Module) []*Module {
	if in == nil {
		return nil
	}
	out := make([]*Module, len(in))
	for i, module := range in {
		out[i] = module.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Props:
		return val.Clone()
	case map[string]any:
		if val == nil {
			return val
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		if val == nil {
			return val
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		if val == nil {
			return val
		}
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i], _ = cloneValue(item).(map[string]any)
		}
		return out
	case []string:
		if val == nil {
			return val
		}
		return append([]string{}, val...)
	case map[string]string:
		if val == nil {
			return val
		}
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	default:
		return v
	}
}
