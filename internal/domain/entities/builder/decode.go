package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DecodeTree parses a stored tree. Older documents may be a bare array of
// sections instead of an object.
func DecodeTree(data []byte) (*ContentTree, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NewTree(), nil
	}
	if trimmed[0] == '[' {
		sections, err := DecodeSections(trimmed)
		if err != nil {
			return nil, err
		}
		return &ContentTree{Sections: sections}, nil
	}
	var tree ContentTree
	if err := json.Unmarshal(trimmed, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode content tree: %w", err)
	}
	return &tree, nil
}

// DecodeSections parses an array of sections, as returned by the layout library.
func DecodeSections(data []byte) ([]*Section, error) {
	var sections []*Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

// Encode serializes the tree.
func (t *ContentTree) Encode() ([]byte, error) {
	return json.Marshal(t)
}

// UnmarshalJSON accepts property bags of the wrong shape (legacy documents
// stored empty bags as arrays) by leaving them nil for Normalize to repair.
func (m *Module) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Type     ModuleKind      `json:"type"`
		Content  json.RawMessage `json:"content"`
		Settings json.RawMessage `json:"settings"`
		Design   json.RawMessage `json:"design"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID = lenientString(raw.ID)
	m.Type = raw.Type
	m.Content = lenientProps(raw.Content)
	m.Settings = lenientProps(raw.Settings)
	m.Design = lenientProps(raw.Design)
	return nil
}

// UnmarshalJSON accepts numeric widths from older documents.
func (c *Column) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		Width   json.RawMessage `json:"width"`
		Modules []*Module       `json:"modules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = lenientString(raw.ID)
	c.Modules = raw.Modules
	c.Width = ""
	if w := lenientString(raw.Width); w != "" {
		if _, err := strconv.ParseFloat(w, 64); err == nil {
			w += "%"
		}
		c.Width = w
	}
	return nil
}

// UnmarshalJSON accepts numeric row ids from older documents.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage `json:"id"`
		Columns       []*Column       `json:"columns"`
		LegacyModules []*Module       `json:"modules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = lenientString(raw.ID)
	r.Columns = raw.Columns
	r.LegacyModules = raw.LegacyModules
	return nil
}

// UnmarshalJSON tolerates malformed section property bags.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage `json:"id"`
		Settings      json.RawMessage `json:"settings"`
		Design        json.RawMessage `json:"design"`
		Rows          []*Row          `json:"rows"`
		LegacyColumns []*Column       `json:"columns"`
		LegacyModules []*Module       `json:"modules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = lenientString(raw.ID)
	s.Settings = lenientProps(raw.Settings)
	s.Design = lenientProps(raw.Design)
	s.Rows = raw.Rows
	s.LegacyColumns = raw.LegacyColumns
	s.LegacyModules = raw.LegacyModules
	return nil
}

func lenientProps(raw json.RawMessage) Props {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var p Props
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return p
}

// lenientString reads a JSON string or number as text.
func lenientString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
