package command

import (
	"math"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Resize resizes a batch of elements to a common dimension derived from
// their current sizes by the operation's reduction policy. Each element is
// resized symmetrically about its current center, per axis independently
// when the dimension is "both". Fewer than two resizable targets makes the
// command a no-op: resizing a single element against itself is
// meaningless.
type Resize struct {
	lifecycle
	op  ResizeOperation
	svc Services

	batch []ElementAndBounds // recorded on first execution
}

// NewResize creates a resize command for the given operation record.
func NewResize(op ResizeOperation, svc Services) *Resize {
	return &Resize{op: op, svc: svc.withDefaults()}
}

// Operation returns the immutable operation record.
func (c *Resize) Operation() ResizeOperation { return c.op }

// Batch returns the deltas recorded by the first execution.
func (c *Resize) Batch() []ElementAndBounds { return c.batch }

// Execute computes and emits the resize batch.
func (c *Resize) Execute(root *model.Element) *model.Element {
	if !c.toExecuted() {
		return root
	}
	if c.op.Validate() != nil {
		return root
	}

	targets := resolveTargets(c.op.ElementIDs, c.svc, c.svc.Capabilities.IsResizable)
	if len(targets) < 2 {
		return root
	}

	// Snapshot all bounds before computing targets so every element is
	// validated against the same pre-command state.
	snapshot := make([]geometry.Bounds, len(targets))
	widths := make([]float64, len(targets))
	heights := make([]float64, len(targets))
	for i, el := range targets {
		snapshot[i] = *el.Bounds
		widths[i] = snapshot[i].Width
		heights[i] = snapshot[i].Height
	}

	targetW, targetH := math.NaN(), math.NaN()
	if c.op.Dimension == DimensionWidth || c.op.Dimension == DimensionBoth {
		w, ok := c.op.Reduce.Apply(widths)
		if !ok {
			return root
		}
		targetW = w
	}
	if c.op.Dimension == DimensionHeight || c.op.Dimension == DimensionBoth {
		h, ok := c.op.Reduce.Apply(heights)
		if !ok {
			return root
		}
		targetH = h
	}

	batch := make([]ElementAndBounds, 0, len(targets))
	for i, el := range targets {
		proposed := snapshot[i].ResizeAboutCenter(geometry.Size{Width: targetW, Height: targetH})
		final, ok := proposeAndValidate(c.svc, el, snapshot[i], proposed)
		if !ok {
			continue
		}
		batch = append(batch, ElementAndBounds{
			ElementID:   el.ID,
			NewPosition: final.Position(),
			NewSize:     final.Size(),
		})
	}
	if len(batch) == 0 {
		return root
	}

	c.batch = batch
	c.svc.Sink.SetBounds(batch)
	c.svc.Sink.SubmitChangeBounds(ChangeBoundsOperation{NewBounds: batch})
	return root
}

// Undo is a pass-through: the emitted deltas are reversed by the
// dispatcher that applied them.
func (c *Resize) Undo(root *model.Element) *model.Element {
	c.toUndone()
	return root
}

// Redo is a pass-through; the recorded deltas are replayed by the
// dispatcher, not recomputed here.
func (c *Resize) Redo(root *model.Element) *model.Element {
	c.toRedone()
	return root
}
