package command

import (
	"math"
	"testing"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

const eps = 1e-9

// recordingSink captures everything a command emits.
type recordingSink struct {
	setBounds [][]ElementAndBounds
	moves     [][]ElementMove
	submitted []ChangeBoundsOperation
}

func (s *recordingSink) SetBounds(batch []ElementAndBounds) { s.setBounds = append(s.setBounds, batch) }
func (s *recordingSink) MoveElements(moves []ElementMove)   { s.moves = append(s.moves, moves) }
func (s *recordingSink) SubmitChangeBounds(op ChangeBoundsOperation) {
	s.submitted = append(s.submitted, op)
}

func testNode(id string, x, y, w, h float64) *model.Element {
	return &model.Element{
		ID:     id,
		Type:   model.TypeNode,
		Bounds: &geometry.Bounds{X: x, Y: y, Width: w, Height: h},
	}
}

func testTree(nodes ...*model.Element) *model.Element {
	root := &model.Element{ID: "root", Type: model.TypeGraph}
	for _, n := range nodes {
		root.AddChild(n)
	}
	return root
}

func testServices(root *model.Element, sink Sink) Services {
	return Services{Index: model.NewIndex(root), Sink: sink}
}

func batchByID(batch []ElementAndBounds) map[string]ElementAndBounds {
	out := make(map[string]ElementAndBounds, len(batch))
	for _, b := range batch {
		out[b.ElementID] = b
	}
	return out
}

func TestResizeMaxWidthPreservesCenters(t *testing.T) {
	a := testNode("a", 0, 0, 10, 30)
	b := testNode("b", 50, 10, 40, 20)
	c := testNode("c", 100, 20, 25, 10)
	root := testTree(a, b, c)

	before := map[string]geometry.Bounds{"a": *a.Bounds, "b": *b.Bounds, "c": *c.Bounds}

	sink := &recordingSink{}
	cmd := NewResize(ResizeOperation{
		ElementIDs: []string{"a", "b", "c"},
		Dimension:  DimensionWidth,
		Reduce:     ReduceMax,
	}, testServices(root, sink))
	cmd.Execute(root)

	if len(sink.setBounds) != 1 {
		t.Fatalf("SetBounds called %d times, want 1", len(sink.setBounds))
	}
	got := batchByID(sink.setBounds[0])
	if len(got) != 3 {
		t.Fatalf("batch size = %d, want 3", len(got))
	}

	for id, prev := range before {
		eb := got[id]
		if eb.NewSize.Width != 40 {
			t.Errorf("%s: width = %v, want 40 (pre-resize max)", id, eb.NewSize.Width)
		}
		if eb.NewSize.Height != prev.Height {
			t.Errorf("%s: height = %v, want untouched %v", id, eb.NewSize.Height, prev.Height)
		}
		gotCenter := eb.NewPosition.X + eb.NewSize.Width/2
		if math.Abs(gotCenter-prev.CenterX()) > eps {
			t.Errorf("%s: center x = %v, want %v", id, gotCenter, prev.CenterX())
		}
		if eb.NewPosition.Y != prev.Y {
			t.Errorf("%s: y = %v, want untouched %v", id, eb.NewPosition.Y, prev.Y)
		}
	}

	if len(sink.submitted) != 1 {
		t.Fatalf("SubmitChangeBounds called %d times, want 1", len(sink.submitted))
	}
	if len(sink.submitted[0].NewBounds) != 3 {
		t.Errorf("submitted operation carries %d bounds, want 3", len(sink.submitted[0].NewBounds))
	}
}

func TestResizeBothAxes(t *testing.T) {
	a := testNode("a", 0, 0, 10, 40)
	b := testNode("b", 50, 0, 30, 20)
	root := testTree(a, b)

	sink := &recordingSink{}
	cmd := NewResize(ResizeOperation{
		ElementIDs: []string{"a", "b"},
		Dimension:  DimensionBoth,
		Reduce:     ReduceMin,
	}, testServices(root, sink))
	cmd.Execute(root)

	got := batchByID(sink.setBounds[0])
	for _, id := range []string{"a", "b"} {
		eb := got[id]
		if eb.NewSize.Width != 10 || eb.NewSize.Height != 20 {
			t.Errorf("%s: size = %vx%v, want 10x20", id, eb.NewSize.Width, eb.NewSize.Height)
		}
	}
}

func TestResizeFewerThanTwoTargetsIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{name: "empty", ids: nil},
		{name: "single", ids: []string{"a"}},
		{name: "unknown ids dropped", ids: []string{"a", "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testTree(testNode("a", 0, 0, 10, 10))
			sink := &recordingSink{}
			cmd := NewResize(ResizeOperation{
				ElementIDs: tt.ids,
				Dimension:  DimensionWidth,
				Reduce:     ReduceMax,
			}, testServices(root, sink))
			cmd.Execute(root)

			if len(sink.setBounds) != 0 || len(sink.submitted) != 0 {
				t.Errorf("no-op command emitted %d batches, %d operations",
					len(sink.setBounds), len(sink.submitted))
			}
			if cmd.Batch() != nil {
				t.Errorf("Batch() = %v, want nil", cmd.Batch())
			}
		})
	}
}

func TestResizeMalformedOperationEmitsNothing(t *testing.T) {
	tests := []struct {
		name string
		op   ResizeOperation
	}{
		{name: "zero value", op: ResizeOperation{ElementIDs: []string{"a", "b"}}},
		{name: "bad dimension", op: ResizeOperation{
			ElementIDs: []string{"a", "b"}, Dimension: "depth", Reduce: ReduceMax,
		}},
		{name: "bad reduce", op: ResizeOperation{
			ElementIDs: []string{"a", "b"}, Dimension: DimensionWidth, Reduce: "median",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testNode("a", 0, 0, 10, 10)
			b := testNode("b", 50, 0, 30, 10)
			root := testTree(a, b)
			sink := &recordingSink{}
			cmd := NewResize(tt.op, testServices(root, sink))
			cmd.Execute(root)

			if len(sink.setBounds) != 0 || len(sink.submitted) != 0 {
				t.Errorf("malformed operation emitted %d batches, %d operations",
					len(sink.setBounds), len(sink.submitted))
			}
			if cmd.Batch() != nil {
				t.Errorf("Batch() = %v, want nil", cmd.Batch())
			}
		})
	}
}

func TestResizeSkipsNonResizableTargets(t *testing.T) {
	a := testNode("a", 0, 0, 10, 10)
	b := testNode("b", 50, 0, 30, 10)
	label := &model.Element{
		ID:     "l1",
		Type:   model.TypeLabel,
		Bounds: &geometry.Bounds{X: 0, Y: 50, Width: 60, Height: 10},
	}
	noBounds := &model.Element{ID: "nb", Type: model.TypeNode}
	root := testTree(a, b, label, noBounds)

	sink := &recordingSink{}
	cmd := NewResize(ResizeOperation{
		ElementIDs: []string{"a", "l1", "nb", "b"},
		Dimension:  DimensionWidth,
		Reduce:     ReduceMax,
	}, testServices(root, sink))
	cmd.Execute(root)

	got := batchByID(sink.setBounds[0])
	if len(got) != 2 {
		t.Fatalf("batch size = %d, want 2", len(got))
	}
	if got["a"].NewSize.Width != 30 || got["b"].NewSize.Width != 30 {
		t.Errorf("widths = %v/%v, want 30/30 (max over resizable targets only)",
			got["a"].NewSize.Width, got["b"].NewSize.Width)
	}
}

func TestResizeFallsBackToSelection(t *testing.T) {
	a := testNode("a", 0, 0, 10, 10)
	b := testNode("b", 50, 0, 30, 10)
	root := testTree(a, b)

	sink := &recordingSink{}
	svc := testServices(root, sink)
	svc.Selection = SelectionFunc(func() []string { return []string{"b", "a"} })

	cmd := NewResize(ResizeOperation{
		Dimension: DimensionWidth,
		Reduce:    ReduceFirst,
	}, svc)
	cmd.Execute(root)

	if len(sink.setBounds) != 1 {
		t.Fatalf("SetBounds called %d times, want 1", len(sink.setBounds))
	}
	batch := sink.setBounds[0]
	// Selection order drives ReduceFirst: b's width wins.
	if batch[0].ElementID != "b" || batch[1].ElementID != "a" {
		t.Errorf("batch order = %s,%s, want b,a", batch[0].ElementID, batch[1].ElementID)
	}
	for _, eb := range batch {
		if eb.NewSize.Width != 30 {
			t.Errorf("%s: width = %v, want 30", eb.ElementID, eb.NewSize.Width)
		}
	}
}

func TestResizeRestrictorDropsRejectedElements(t *testing.T) {
	a := testNode("a", 0, 0, 10, 10)
	b := testNode("b", 50, 0, 30, 10)
	root := testTree(a, b)

	sink := &recordingSink{}
	svc := testServices(root, sink)
	svc.Restrictor = RestrictorFunc(func(el *model.Element, delta geometry.Point) (geometry.Point, bool) {
		if el.ID == "a" {
			return geometry.Point{}, false
		}
		return delta, true
	})

	cmd := NewResize(ResizeOperation{
		ElementIDs: []string{"a", "b"},
		Dimension:  DimensionWidth,
		Reduce:     ReduceMax,
	}, svc)
	cmd.Execute(root)

	got := batchByID(sink.setBounds[0])
	if len(got) != 1 {
		t.Fatalf("batch size = %d, want 1", len(got))
	}
	if _, ok := got["b"]; !ok {
		t.Error("batch missing accepted element b")
	}
	if len(sink.submitted[0].NewBounds) != 1 {
		t.Errorf("submitted operation carries %d bounds, want 1 (mirrors local batch)",
			len(sink.submitted[0].NewBounds))
	}
}

func TestResizeLifecycle(t *testing.T) {
	root := testTree(testNode("a", 0, 0, 10, 10), testNode("b", 50, 0, 30, 10))
	sink := &recordingSink{}
	cmd := NewResize(ResizeOperation{
		ElementIDs: []string{"a", "b"},
		Dimension:  DimensionWidth,
		Reduce:     ReduceMax,
	}, testServices(root, sink))

	if got := cmd.State(); got != StateCreated {
		t.Errorf("State() = %s, want created", got)
	}

	cmd.Execute(root)
	if got := cmd.State(); got != StateExecuted {
		t.Errorf("after Execute: State() = %s, want executed", got)
	}

	// A second Execute must not re-emit.
	cmd.Execute(root)
	if len(sink.setBounds) != 1 {
		t.Errorf("SetBounds called %d times after double Execute, want 1", len(sink.setBounds))
	}

	cmd.Undo(root)
	if got := cmd.State(); got != StateUndone {
		t.Errorf("after Undo: State() = %s, want undone", got)
	}

	// Redo from undone, then undo again from redone.
	cmd.Redo(root)
	if got := cmd.State(); got != StateRedone {
		t.Errorf("after Redo: State() = %s, want redone", got)
	}
	cmd.Undo(root)
	if got := cmd.State(); got != StateUndone {
		t.Errorf("after second Undo: State() = %s, want undone", got)
	}

	// Redo without a preceding undo stays put.
	cmd.Redo(root)
	cmd.Redo(root)
	if got := cmd.State(); got != StateRedone {
		t.Errorf("after double Redo: State() = %s, want redone", got)
	}
}

func TestResizeUndoBeforeExecuteIsRejected(t *testing.T) {
	root := testTree(testNode("a", 0, 0, 10, 10))
	cmd := NewResize(ResizeOperation{Dimension: DimensionWidth, Reduce: ReduceMax}, Services{})

	cmd.Undo(root)
	if got := cmd.State(); got != StateCreated {
		t.Errorf("State() = %s, want created (undo before execute rejected)", got)
	}
	cmd.Redo(root)
	if got := cmd.State(); got != StateCreated {
		t.Errorf("State() = %s, want created (redo before execute rejected)", got)
	}
}
