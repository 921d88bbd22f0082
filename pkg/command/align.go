package command

import (
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Align repositions a batch of elements so a shared edge or center line
// lands on one reference coordinate. The operation's selection policy
// narrows the subset the reference is computed from; every qualifying
// element moves regardless of that subset.
type Align struct {
	lifecycle
	op  AlignOperation
	svc Services

	moves []ElementMove // recorded on first execution
}

// NewAlign creates an align command for the given operation record.
func NewAlign(op AlignOperation, svc Services) *Align {
	return &Align{op: op, svc: svc.withDefaults()}
}

// Operation returns the immutable operation record.
func (c *Align) Operation() AlignOperation { return c.op }

// Moves returns the deltas recorded by the first execution.
func (c *Align) Moves() []ElementMove { return c.moves }

// Execute computes and emits the align batch.
func (c *Align) Execute(root *model.Element) *model.Element {
	if !c.toExecuted() {
		return root
	}
	if c.op.Validate() != nil {
		return root
	}

	targets := resolveTargets(c.op.ElementIDs, c.svc, c.svc.Capabilities.IsMoveable)
	if len(targets) == 0 {
		return root
	}

	subset := c.op.Select.Apply(targets)
	if len(subset) == 0 {
		return root
	}

	snapshot := make(map[*model.Element]geometry.Bounds, len(targets))
	for _, el := range targets {
		snapshot[el] = *el.Bounds
	}

	ref, ok := reference(c.op.Alignment, subset, snapshot)
	if !ok {
		return root
	}

	moves := make([]ElementMove, 0, len(targets))
	mirrored := make([]ElementAndBounds, 0, len(targets))
	for _, el := range targets {
		current := snapshot[el]
		proposed := aligned(c.op.Alignment, current, ref)
		final, ok := proposeAndValidate(c.svc, el, current, proposed)
		if !ok {
			continue
		}
		moves = append(moves, ElementMove{
			ElementID:    el.ID,
			FromPosition: current.Position(),
			ToPosition:   final.Position(),
		})
		mirrored = append(mirrored, ElementAndBounds{
			ElementID:   el.ID,
			NewPosition: final.Position(),
			NewSize:     final.Size(),
		})
	}
	if len(moves) == 0 {
		return root
	}

	c.moves = moves
	c.svc.Sink.MoveElements(moves)
	c.svc.Sink.SubmitChangeBounds(ChangeBoundsOperation{NewBounds: mirrored})
	return root
}

// Undo is a pass-through: the emitted deltas are reversed by the
// dispatcher that applied them.
func (c *Align) Undo(root *model.Element) *model.Element {
	c.toUndone()
	return root
}

// Redo is a pass-through; the recorded deltas are replayed by the
// dispatcher, not recomputed here.
func (c *Align) Redo(root *model.Element) *model.Element {
	c.toRedone()
	return root
}

// reference computes the alignment reference coordinate from the selected
// subset: minimum for left/top, maximum for right/bottom, interval
// midpoint for center/middle.
func reference(a Alignment, subset []*model.Element, snapshot map[*model.Element]geometry.Bounds) (float64, bool) {
	first := true
	var lo, hi float64
	for _, el := range subset {
		b := snapshot[el]
		var min, max float64
		switch a {
		case AlignLeft, AlignCenter, AlignRight:
			min, max = b.Left(), b.Right()
		default:
			min, max = b.Top(), b.Bottom()
		}
		if first {
			lo, hi = min, max
			first = false
			continue
		}
		if min < lo {
			lo = min
		}
		if max > hi {
			hi = max
		}
	}
	if first {
		return 0, false
	}

	switch a {
	case AlignLeft, AlignTop:
		return lo, true
	case AlignRight, AlignBottom:
		return hi, true
	case AlignCenter, AlignMiddle:
		return (lo + hi) / 2, true
	default:
		return 0, false
	}
}

// aligned returns the bounds with the element's corresponding edge or
// center moved onto the reference coordinate.
func aligned(a Alignment, b geometry.Bounds, ref float64) geometry.Bounds {
	out := b
	switch a {
	case AlignLeft:
		out.X = ref
	case AlignRight:
		out.X = ref - b.Width
	case AlignCenter:
		out.X = ref - b.Width/2
	case AlignTop:
		out.Y = ref
	case AlignBottom:
		out.Y = ref - b.Height
	case AlignMiddle:
		out.Y = ref - b.Height/2
	}
	return out
}
