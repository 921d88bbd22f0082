package command

import (
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// SelectionProvider supplies the externally tracked selection, in order.
// Commands fall back to it when their element-id list is empty.
type SelectionProvider interface {
	SelectedElementIDs() []string
}

// ElementIndex resolves element ids to live elements. Unresolvable ids
// are dropped, not errored. *model.Index satisfies this.
type ElementIndex interface {
	ByID(id string) *model.Element
}

// MovementRestrictor validates one proposed per-element delta per batch.
// It may accept the delta, accept an adjusted delta, or reject it; a
// rejected element is silently dropped from the batch.
type MovementRestrictor interface {
	Validate(el *model.Element, delta geometry.Point) (accepted geometry.Point, ok bool)
}

// Sink receives the artifacts a command emits: the optimistic local
// geometry delta and the mirrored authority-bound operation. Calls are
// fire-and-forget; no return value is consumed.
type Sink interface {
	SetBounds(batch []ElementAndBounds)
	MoveElements(moves []ElementMove)
	SubmitChangeBounds(op ChangeBoundsOperation)
}

// Capabilities are the boolean classification functions supplied by the
// surrounding type system.
type Capabilities struct {
	IsResizable func(*model.Element) bool
	IsMoveable  func(*model.Element) bool
}

// Services bundles the collaborators a command executes against.
// Zero-value fields get safe defaults: empty selection, accept-all
// restrictor, discarding sink, and the model package's default
// capability classification.
type Services struct {
	Selection    SelectionProvider
	Index        ElementIndex
	Restrictor   MovementRestrictor
	Sink         Sink
	Capabilities Capabilities
}

func (s Services) withDefaults() Services {
	if s.Selection == nil {
		s.Selection = emptySelection{}
	}
	if s.Index == nil {
		s.Index = nilIndex{}
	}
	if s.Restrictor == nil {
		s.Restrictor = acceptAll{}
	}
	if s.Sink == nil {
		s.Sink = discard{}
	}
	if s.Capabilities.IsResizable == nil {
		s.Capabilities.IsResizable = model.Resizable
	}
	if s.Capabilities.IsMoveable == nil {
		s.Capabilities.IsMoveable = model.Moveable
	}
	return s
}

type emptySelection struct{}

func (emptySelection) SelectedElementIDs() []string { return nil }

type nilIndex struct{}

func (nilIndex) ByID(string) *model.Element { return nil }

type acceptAll struct{}

func (acceptAll) Validate(_ *model.Element, delta geometry.Point) (geometry.Point, bool) {
	return delta, true
}

type discard struct{}

func (discard) SetBounds([]ElementAndBounds)             {}
func (discard) MoveElements([]ElementMove)               {}
func (discard) SubmitChangeBounds(ChangeBoundsOperation) {}

// SelectionFunc adapts a function to a SelectionProvider.
type SelectionFunc func() []string

// SelectedElementIDs implements SelectionProvider.
func (f SelectionFunc) SelectedElementIDs() []string { return f() }

// RestrictorFunc adapts a function to a MovementRestrictor.
type RestrictorFunc func(*model.Element, geometry.Point) (geometry.Point, bool)

// Validate implements MovementRestrictor.
func (f RestrictorFunc) Validate(el *model.Element, delta geometry.Point) (geometry.Point, bool) {
	return f(el, delta)
}
