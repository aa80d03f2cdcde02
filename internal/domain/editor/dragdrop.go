package editor

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// SourceKind tells a palette drag (create a module) from a module drag (move it).
type SourceKind string

const (
	SourcePalette SourceKind = "palette"
	SourceModule  SourceKind = "module"
)

// DragSource is what is being dragged. Exactly one of ModuleKind (palette)
// or Path (existing module) is meaningful, according to Kind.
type DragSource struct {
	Kind       SourceKind         `json:"kind"`
	ModuleKind builder.ModuleKind `json:"moduleKind,omitempty"`
	Path       builder.ModulePath `json:"path"`
}

// TargetKind is the kind of surface a drag hovers.
type TargetKind string

const (
	TargetColumn     TargetKind = "column"
	TargetNewSection TargetKind = "new-section"
)

// DropTarget is where a drop would land. For a column target Index is the
// insertion index among the column's modules; for the new-section zone it is
// the index the new section is inserted at (Append for the end).
type DropTarget struct {
	Kind   TargetKind        `json:"kind"`
	Column builder.ColumnRef `json:"column"`
	Index  int               `json:"index"`
}

// Phase is the coordinator's gesture state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDragging   Phase = "dragging"
	PhaseOverTarget Phase = "over-target"
)

// ModuleBox is the vertical extent of a rendered module, in the same
// coordinate space as the pointer.
type ModuleBox struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Midpoint returns the vertical centre of the box.
func (b ModuleBox) Midpoint() float64 {
	return b.Top + b.Height/2
}

// InsertionIndex returns where a drop at pointerY lands in a column whose
// modules occupy boxes, top to bottom: before the first module whose midpoint
// is below the pointer, or after the last one.
func InsertionIndex(pointerY float64, boxes []ModuleBox) int {
	for i, box := range boxes {
		if box.Midpoint() > pointerY {
			return i
		}
	}
	return len(boxes)
}

// ReorderIndex converts an insertion index computed with the dragged module
// still in place into the final index after it is removed.
func ReorderIndex(from, insertion int) int {
	if from < insertion {
		return insertion - 1
	}
	return insertion
}

// Coordinator tracks a single drag gesture from start to drop or cancel.
type Coordinator struct {
	phase  Phase
	source *DragSource
	target *DropTarget
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{phase: PhaseIdle}
}

// Phase returns the gesture state.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Source returns a copy of the active drag source.
func (c *Coordinator) Source() (DragSource, bool) {
	if c.source == nil {
		return DragSource{}, false
	}
	return *c.source, true
}

// Target returns a copy of the current drop target.
func (c *Coordinator) Target() (DropTarget, bool) {
	if c.target == nil {
		return DropTarget{}, false
	}
	return *c.target, true
}

// BeginPalette starts dragging a new module of kind from the palette.
// Any previous gesture is discarded.
func (c *Coordinator) BeginPalette(kind builder.ModuleKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", builder.ErrUnknownModuleKind, kind)
	}
	c.begin(&DragSource{Kind: SourcePalette, ModuleKind: kind})
	return nil
}

// BeginModule starts dragging the existing module at path.
func (c *Coordinator) BeginModule(tree *builder.ContentTree, path builder.ModulePath) error {
	if _, err := module(tree, path); err != nil {
		return err
	}
	c.begin(&DragSource{Kind: SourceModule, Path: path})
	return nil
}

func (c *Coordinator) begin(src *DragSource) {
	c.source = src
	c.target = nil
	c.phase = PhaseDragging
}

// OverColumn records the pointer hovering a column and returns the insertion
// index from the rendered module boxes.
func (c *Coordinator) OverColumn(ref builder.ColumnRef, pointerY float64, boxes []ModuleBox) (int, error) {
	if c.phase == PhaseIdle {
		return 0, ErrNoDrag
	}
	idx := 0
	if len(boxes) > 0 {
		idx = InsertionIndex(pointerY, boxes)
	}
	c.target = &DropTarget{Kind: TargetColumn, Column: ref, Index: idx}
	c.phase = PhaseOverTarget
	return idx, nil
}

// OverNewSection records the pointer hovering the new-section drop zone.
func (c *Coordinator) OverNewSection(at int) error {
	if c.phase == PhaseIdle {
		return ErrNoDrag
	}
	c.target = &DropTarget{Kind: TargetNewSection, Index: at}
	c.phase = PhaseOverTarget
	return nil
}

// Leave records the pointer leaving any drop target.
func (c *Coordinator) Leave() {
	if c.phase == PhaseOverTarget {
		c.target = nil
		c.phase = PhaseDragging
	}
}

// Cancel ends the gesture without a drop.
func (c *Coordinator) Cancel() {
	c.source = nil
	c.target = nil
	c.phase = PhaseIdle
}

// finish ends the gesture and hands back its source and target.
func (c *Coordinator) finish() (*DragSource, *DropTarget, error) {
	if c.phase == PhaseIdle {
		return nil, nil, ErrNoDrag
	}
	src, dst := c.source, c.target
	c.Cancel()
	return src, dst, nil
}

// DropOutcome reports how a gesture ended.
type DropOutcome string

const (
	OutcomeDropped   DropOutcome = "dropped"
	OutcomeCancelled DropOutcome = "cancelled"
)

// DropResult describes the effect of a drop.
type DropResult struct {
	Outcome DropOutcome        `json:"outcome"`
	Changed bool               `json:"changed"`
	Path    builder.ModulePath `json:"path"`
}

// applyDrop dispatches the mutation for a finished gesture. Targets and
// sources that no longer resolve yield a cancelled result with no error.
func applyDrop(ops *Operations, tree *builder.ContentTree, src *DragSource, dst *DropTarget) (DropResult, error) {
	cancelled := DropResult{Outcome: OutcomeCancelled}
	if src == nil || dst == nil {
		return cancelled, nil
	}
	if src.Kind == SourceModule {
		if _, ok := tree.Module(src.Path); !ok {
			return cancelled, nil
		}
	}

	switch dst.Kind {
	case TargetColumn:
		col, ok := tree.Column(dst.Column)
		if !ok || dst.Index < 0 || dst.Index > len(col.Modules) {
			return cancelled, nil
		}
		switch src.Kind {
		case SourcePalette:
			path, err := ops.AddModule(tree, dst.Column, src.ModuleKind, dst.Index)
			if err != nil {
				return cancelled, err
			}
			return DropResult{Outcome: OutcomeDropped, Changed: true, Path: path}, nil
		case SourceModule:
			if src.Path.ColumnRef == dst.Column {
				to := ReorderIndex(src.Path.Module, dst.Index)
				path, err := ops.MoveModule(tree, src.Path, to)
				if err != nil {
					return cancelled, err
				}
				return DropResult{Outcome: OutcomeDropped, Changed: to != src.Path.Module, Path: path}, nil
			}
			path, err := ops.MoveModuleAcrossColumns(tree, src.Path, dst.Column, dst.Index)
			if err != nil {
				return cancelled, err
			}
			return DropResult{Outcome: OutcomeDropped, Changed: true, Path: path}, nil
		}

	case TargetNewSection:
		switch src.Kind {
		case SourcePalette:
			path := ops.AddSectionWithModule(tree, ops.NewModule(src.ModuleKind), dst.Index)
			return DropResult{Outcome: OutcomeDropped, Changed: true, Path: path}, nil
		case SourceModule:
			path, err := ops.ExtractToNewSection(tree, src.Path, dst.Index)
			if err != nil {
				return cancelled, err
			}
			return DropResult{Outcome: OutcomeDropped, Changed: true, Path: path}, nil
		}
	}
	return cancelled, nil
}
