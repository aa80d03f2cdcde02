package editor

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Scope selects which property bag of a node a setter writes to.
type Scope string

const (
	ScopeSettings Scope = "settings"
	ScopeDesign   Scope = "design"
	ScopeContent  Scope = "content"
)

// ParseScope validates a scope name. An empty name means settings.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeSettings:
		return ScopeSettings, nil
	case ScopeDesign:
		return ScopeDesign, nil
	case ScopeContent:
		return ScopeContent, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidCommand, s)
}

func moduleBag(mod *builder.Module, scope Scope) builder.Props {
	switch scope {
	case ScopeDesign:
		if mod.Design == nil {
			mod.Design = builder.Props{}
		}
		return mod.Design
	case ScopeContent:
		if mod.Content == nil {
			mod.Content = builder.Props{}
		}
		return mod.Content
	default:
		if mod.Settings == nil {
			mod.Settings = builder.Props{}
		}
		return mod.Settings
	}
}

// SetModuleProperty writes a state and device variant of a module property.
func (o *Operations) SetModuleProperty(tree *builder.ContentTree, path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device, value any) error {
	mod, err := module(tree, path)
	if err != nil {
		return err
	}
	if base == "" {
		return fmt.Errorf("%w: property key is required", ErrInvalidCommand)
	}
	moduleBag(mod, scope).Set(base, state, device, value)
	return nil
}

// UnsetModuleProperty removes a state and device variant of a module property.
func (o *Operations) UnsetModuleProperty(tree *builder.ContentTree, path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device) error {
	mod, err := module(tree, path)
	if err != nil {
		return err
	}
	moduleBag(mod, scope).Unset(base, state, device)
	return nil
}

// SetElementStyle writes a sub-element style for a state into the module design.
func (o *Operations) SetElementStyle(tree *builder.ContentTree, path builder.ModulePath, element string, state builder.State, key string, value any) error {
	mod, err := module(tree, path)
	if err != nil {
		return err
	}
	if element == "" || key == "" {
		return fmt.Errorf("%w: element and key are required", ErrInvalidCommand)
	}
	builder.SetElementStyle(moduleBag(mod, ScopeDesign), element, state, key, value)
	return nil
}

// SetSectionProperty writes a section setting or design value.
func (o *Operations) SetSectionProperty(tree *builder.ContentTree, s int, scope Scope, key string, value any) error {
	sec, err := section(tree, s)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: property key is required", ErrInvalidCommand)
	}
	switch scope {
	case ScopeDesign:
		if sec.Design == nil {
			sec.Design = builder.Props{}
		}
		sec.Design[key] = value
	case ScopeSettings:
		if sec.Settings == nil {
			sec.Settings = builder.Props{}
		}
		sec.Settings[key] = value
	default:
		return fmt.Errorf("%w: sections have no %s scope", ErrInvalidCommand, scope)
	}
	return nil
}

// ResolveModuleProperty reads a module property as it applies in a state on a
// device, following the variant fallback rules of builder.Props.Resolve.
func ResolveModuleProperty(tree *builder.ContentTree, path builder.ModulePath, scope Scope, base string, state builder.State, device builder.Device) (any, bool, error) {
	mod, err := module(tree, path)
	if err != nil {
		return nil, false, err
	}
	var bag builder.Props
	switch scope {
	case ScopeDesign:
		bag = mod.Design
	case ScopeContent:
		bag = mod.Content
	default:
		bag = mod.Settings
	}
	v, ok := bag.Resolve(base, state, device)
	return v, ok, nil
}
