package editor

import (
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Command ops accepted by Session.Execute.
const (
	OpAddSection       = "add_section"
	OpDeleteSection    = "delete_section"
	OpDuplicateSection = "duplicate_section"
	OpMoveSection      = "move_section"

	OpAddRow       = "add_row"
	OpDeleteRow    = "delete_row"
	OpDuplicateRow = "duplicate_row"
	OpMoveRow      = "move_row"

	OpAddColumn       = "add_column"
	OpDeleteColumn    = "delete_column"
	OpSetColumnLayout = "set_column_layout"

	OpAddModule               = "add_module"
	OpRemoveModule            = "remove_module"
	OpDuplicateModule         = "duplicate_module"
	OpMoveModule              = "move_module"
	OpMoveModuleAcrossColumns = "move_module_across_columns"

	OpSetModuleProperty    = "set_module_property"
	OpRemoveModuleProperty = "remove_module_property"
	OpSetElementStyle      = "set_element_style"
	OpSetSectionProperty   = "set_section_property"
)

// Command is the wire envelope for a single editor mutation. Fields that an op
// does not use are ignored. At is an insertion index; when omitted the new
// node is appended.
type Command struct {
	Op string `json:"op"`

	Section int `json:"section"`
	Row     int `json:"row"`
	Column  int `json:"column"`
	Module  int `json:"module"`

	At        *int               `json:"at,omitempty"`
	To        int                `json:"to"`
	Direction int                `json:"direction"`
	Confirm   bool               `json:"confirm"`
	Layout    string             `json:"layout,omitempty"`
	Kind      string             `json:"kind,omitempty"`
	Target    *builder.ColumnRef `json:"target,omitempty"`

	Scope   string `json:"scope,omitempty"`
	Key     string `json:"key,omitempty"`
	State   string `json:"state,omitempty"`
	Device  string `json:"device,omitempty"`
	Element string `json:"element,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// ParseCommand decodes a command envelope.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if cmd.Op == "" {
		return Command{}, fmt.Errorf("%w: missing op", ErrInvalidCommand)
	}
	return cmd, nil
}

func (c Command) columnRef() builder.ColumnRef {
	return builder.ColumnRef{Section: c.Section, Row: c.Row, Column: c.Column}
}

func (c Command) modulePath() builder.ModulePath {
	return c.columnRef().At(c.Module)
}

func (c Command) insertAt() int {
	if c.At == nil {
		return Append
	}
	return *c.At
}

func (c Command) variant() (builder.State, builder.Device, error) {
	state, err := builder.ParseState(c.State)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	device, err := builder.ParseDevice(c.Device)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return state, device, nil
}

// Execute applies cmd to the session and returns the resulting selection.
func (s *Session) Execute(cmd Command) (*Selection, error) {
	if err := s.execute(cmd); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Op, err)
	}
	return s.Selection(), nil
}

func (s *Session) execute(cmd Command) error {
	var err error
	switch cmd.Op {
	case OpAddSection:
		s.AddSection(cmd.insertAt())
	case OpDeleteSection:
		err = s.DeleteSection(cmd.Section)
	case OpDuplicateSection:
		_, err = s.DuplicateSection(cmd.Section)
	case OpMoveSection:
		_, err = s.MoveSection(cmd.Section, cmd.Direction)

	case OpAddRow:
		_, err = s.AddRow(cmd.Section, cmd.insertAt())
	case OpDeleteRow:
		err = s.DeleteRow(cmd.Section, cmd.Row, cmd.Confirm)
	case OpDuplicateRow:
		_, err = s.DuplicateRow(cmd.Section, cmd.Row)
	case OpMoveRow:
		_, err = s.MoveRow(cmd.Section, cmd.Row, cmd.Direction)

	case OpAddColumn:
		_, err = s.AddColumn(cmd.Section, cmd.Row)
	case OpDeleteColumn:
		err = s.DeleteColumn(cmd.columnRef())
	case OpSetColumnLayout:
		err = s.SetColumnLayout(cmd.Section, cmd.Row, cmd.Layout)

	case OpAddModule:
		kind, kerr := builder.ParseModuleKind(cmd.Kind)
		if kerr != nil {
			return kerr
		}
		_, err = s.AddModule(cmd.columnRef(), kind, cmd.insertAt())
	case OpRemoveModule:
		err = s.RemoveModule(cmd.modulePath())
	case OpDuplicateModule:
		_, err = s.DuplicateModule(cmd.modulePath())
	case OpMoveModule:
		_, err = s.MoveModule(cmd.modulePath(), cmd.To)
	case OpMoveModuleAcrossColumns:
		if cmd.Target == nil {
			return fmt.Errorf("%w: target column is required", ErrInvalidCommand)
		}
		_, err = s.MoveModuleAcrossColumns(cmd.modulePath(), *cmd.Target, cmd.insertAt())

	case OpSetModuleProperty, OpRemoveModuleProperty:
		scope, serr := ParseScope(cmd.Scope)
		if serr != nil {
			return serr
		}
		state, device, verr := cmd.variant()
		if verr != nil {
			return verr
		}
		if cmd.Op == OpSetModuleProperty {
			err = s.SetModuleProperty(cmd.modulePath(), scope, cmd.Key, state, device, cmd.Value)
		} else {
			err = s.RemoveModuleProperty(cmd.modulePath(), scope, cmd.Key, state, device)
		}
	case OpSetElementStyle:
		state, _, verr := cmd.variant()
		if verr != nil {
			return verr
		}
		err = s.SetElementStyle(cmd.modulePath(), cmd.Element, state, cmd.Key, cmd.Value)
	case OpSetSectionProperty:
		scope, serr := ParseScope(cmd.Scope)
		if serr != nil {
			return serr
		}
		err = s.SetSectionProperty(cmd.Section, scope, cmd.Key, cmd.Value)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
	return err
}
