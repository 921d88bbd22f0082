package command

import (
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// State is the position of a command in its reversible lifecycle.
type State string

// Lifecycle states: Created → Executed ⇄ {Undone, Redone}.
const (
	StateCreated  State = "created"
	StateExecuted State = "executed"
	StateUndone   State = "undone"
	StateRedone   State = "redone"
)

// Command is a reversible batch geometry command. Execute, Undo, and Redo
// take the model root and return it; for the commands in this package undo
// and redo are pass-throughs, since the emitted deltas are themselves
// reversible actions carried by the surrounding dispatcher.
type Command interface {
	Execute(root *model.Element) *model.Element
	Undo(root *model.Element) *model.Element
	Redo(root *model.Element) *model.Element
	State() State
}

// lifecycle guards the state transitions shared by all commands.
type lifecycle struct {
	state State
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	if l.state == "" {
		return StateCreated
	}
	return l.state
}

func (l *lifecycle) toExecuted() bool {
	if l.State() != StateCreated {
		return false
	}
	l.state = StateExecuted
	return true
}

func (l *lifecycle) toUndone() bool {
	switch l.State() {
	case StateExecuted, StateRedone:
		l.state = StateUndone
		return true
	default:
		return false
	}
}

func (l *lifecycle) toRedone() bool {
	if l.State() != StateUndone {
		return false
	}
	l.state = StateRedone
	return true
}

// resolveTargets maps ids (or, when empty, the current selection) to live
// elements that pass the capability check and have valid bounds. Order is
// preserved; everything else drops silently.
func resolveTargets(ids []string, svc Services, capable func(*model.Element) bool) []*model.Element {
	if len(ids) == 0 {
		ids = svc.Selection.SelectedElementIDs()
	}
	out := make([]*model.Element, 0, len(ids))
	for _, id := range ids {
		el := svc.Index.ByID(id)
		if el == nil || el.Bounds == nil || !el.Bounds.IsValid() {
			continue
		}
		if !capable(el) {
			continue
		}
		out = append(out, el)
	}
	return out
}

// proposeAndValidate turns one proposed bounds change into the accepted
// final bounds, consulting the movement restrictor exactly once. Both the
// local delta and the mirrored authority record are derived from its
// result, so the two can never diverge. Validation always runs against the
// snapshot taken at batch-build time, never against partial results from
// earlier elements in the same batch.
func proposeAndValidate(svc Services, el *model.Element, current, proposed geometry.Bounds) (geometry.Bounds, bool) {
	delta := proposed.Position().Sub(current.Position())
	accepted, ok := svc.Restrictor.Validate(el, delta)
	if !ok {
		return geometry.Bounds{}, false
	}
	return geometry.Bounds{
		X:      current.X + accepted.X,
		Y:      current.Y + accepted.Y,
		Width:  proposed.Width,
		Height: proposed.Height,
	}, true
}
