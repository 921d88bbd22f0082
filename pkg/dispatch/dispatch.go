// Package dispatch applies geometry command deltas to the model and keeps
// the reversible action history.
//
// Commands in pkg/command emit optimistic deltas and authority-bound
// operations without touching the model themselves. The Dispatcher is the
// single writer: it applies each incoming batch to the element tree,
// records the inverse needed to roll it back, and maintains the undo and
// redo stacks. A new forward action always clears the redo stack.
package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/diagramkit/diagramkit/pkg/command"
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/observability"
)

// Kind names the two delta shapes an action can carry.
type Kind string

// Action kinds.
const (
	KindSetBounds    Kind = "set_bounds"
	KindMoveElements Kind = "move_elements"
)

// Action is one applied batch together with the inverse that rolls it
// back. Actions are immutable once recorded.
type Action struct {
	ID     string                     `json:"id" bson:"id"`
	Kind   Kind                       `json:"kind" bson:"kind"`
	Bounds []command.ElementAndBounds `json:"bounds,omitempty" bson:"bounds,omitempty"`
	Moves  []command.ElementMove      `json:"moves,omitempty" bson:"moves,omitempty"`

	inverse []command.ElementAndBounds
}

// Authority receives the mirrored operation records bound for the
// external source of truth. The default authority discards them.
type Authority interface {
	SubmitChangeBounds(op command.ChangeBoundsOperation)
}

// AuthorityFunc adapts a function to an Authority.
type AuthorityFunc func(op command.ChangeBoundsOperation)

// SubmitChangeBounds implements Authority.
func (f AuthorityFunc) SubmitChangeBounds(op command.ChangeBoundsOperation) { f(op) }

type discardAuthority struct{}

func (discardAuthority) SubmitChangeBounds(command.ChangeBoundsOperation) {}

// Dispatcher applies delta batches to one element tree. It implements
// command.Sink, so commands can be pointed straight at it. Safe for
// concurrent use.
type Dispatcher struct {
	mu        sync.Mutex
	index     *model.Index
	authority Authority
	undo      []*Action
	redo      []*Action
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAuthority routes mirrored operations to the given authority
// instead of discarding them.
func WithAuthority(a Authority) Option {
	return func(d *Dispatcher) {
		if a != nil {
			d.authority = a
		}
	}
}

// New creates a dispatcher over the given element tree.
func New(root *model.Element, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		index:     model.NewIndex(root),
		authority: discardAuthority{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// =============================================================================
// command.Sink
// =============================================================================

// SetBounds applies a bounds batch to the model and records it as a new
// forward action.
func (d *Dispatcher) SetBounds(batch []command.ElementAndBounds) {
	if len(batch) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	a := &Action{ID: uuid.NewString(), Kind: KindSetBounds, Bounds: batch}
	a.inverse = d.applyBounds(batch)
	d.push(a)
	observability.Command().OnExecute(context.Background(), string(a.Kind), len(batch))
}

// MoveElements applies a move batch to the model and records it as a new
// forward action.
func (d *Dispatcher) MoveElements(moves []command.ElementMove) {
	if len(moves) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	a := &Action{ID: uuid.NewString(), Kind: KindMoveElements, Moves: moves}
	a.inverse = d.applyMoves(moves)
	d.push(a)
	observability.Command().OnExecute(context.Background(), string(a.Kind), len(moves))
}

// SubmitChangeBounds forwards the mirrored operation to the authority.
// It does not touch the local model; the paired SetBounds or MoveElements
// call already has.
func (d *Dispatcher) SubmitChangeBounds(op command.ChangeBoundsOperation) {
	d.authority.SubmitChangeBounds(op)
}

// =============================================================================
// History
// =============================================================================

// Undo rolls back the most recent action. It returns the rolled-back
// action, or nil when the undo stack is empty.
func (d *Dispatcher) Undo() *Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.undo) == 0 {
		return nil
	}
	a := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]

	a.inverse = d.applyBounds(a.inverse)
	d.redo = append(d.redo, a)
	observability.Command().OnUndo(context.Background(), string(a.Kind))
	return a
}

// Redo reapplies the most recently undone action. It returns the
// reapplied action, or nil when the redo stack is empty.
func (d *Dispatcher) Redo() *Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.redo) == 0 {
		return nil
	}
	a := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]

	a.inverse = d.applyBounds(a.inverse)
	d.undo = append(d.undo, a)
	observability.Command().OnRedo(context.Background(), string(a.Kind))
	return a
}

// CanUndo reports whether an action is available to roll back.
func (d *Dispatcher) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.undo) > 0
}

// CanRedo reports whether an undone action is available to reapply.
func (d *Dispatcher) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.redo) > 0
}

// History returns the ids of applied actions, oldest first.
func (d *Dispatcher) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.undo))
	for i, a := range d.undo {
		out[i] = a.ID
	}
	return out
}

func (d *Dispatcher) push(a *Action) {
	d.undo = append(d.undo, a)
	d.redo = d.redo[:0]
}

// =============================================================================
// Application
// =============================================================================

// applyBounds writes the batch into the model and returns the inverse
// batch restoring the previous bounds. Unresolvable ids drop silently,
// matching the command layer's policy.
func (d *Dispatcher) applyBounds(batch []command.ElementAndBounds) []command.ElementAndBounds {
	inverse := make([]command.ElementAndBounds, 0, len(batch))
	for _, eb := range batch {
		el := d.index.ByID(eb.ElementID)
		if el == nil || el.Bounds == nil {
			continue
		}
		inverse = append(inverse, command.ElementAndBounds{
			ElementID:   eb.ElementID,
			NewPosition: el.Bounds.Position(),
			NewSize:     el.Bounds.Size(),
		})
		el.Bounds.X = eb.NewPosition.X
		el.Bounds.Y = eb.NewPosition.Y
		el.Bounds.Width = eb.NewSize.Width
		el.Bounds.Height = eb.NewSize.Height
	}
	return inverse
}

// applyMoves writes the moves into the model. The inverse is expressed as
// a bounds batch so undo and redo share one application path.
func (d *Dispatcher) applyMoves(moves []command.ElementMove) []command.ElementAndBounds {
	inverse := make([]command.ElementAndBounds, 0, len(moves))
	for _, m := range moves {
		el := d.index.ByID(m.ElementID)
		if el == nil || el.Bounds == nil {
			continue
		}
		inverse = append(inverse, command.ElementAndBounds{
			ElementID:   m.ElementID,
			NewPosition: el.Bounds.Position(),
			NewSize:     el.Bounds.Size(),
		})
		*el.Bounds = el.Bounds.WithPosition(geometry.Point{X: m.ToPosition.X, Y: m.ToPosition.Y})
	}
	return inverse
}
