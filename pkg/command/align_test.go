package command

import (
	"testing"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

func movesByID(moves []ElementMove) map[string]ElementMove {
	out := make(map[string]ElementMove, len(moves))
	for _, m := range moves {
		out[m.ElementID] = m
	}
	return out
}

func TestAlignLeftEqualizesLeftEdges(t *testing.T) {
	a := testNode("a", 30, 0, 10, 10)
	b := testNode("b", 5, 20, 40, 10)
	c := testNode("c", 12, 40, 25, 10)
	root := testTree(a, b, c)

	sink := &recordingSink{}
	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"a", "b", "c"},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}, testServices(root, sink))
	cmd.Execute(root)

	if len(sink.moves) != 1 {
		t.Fatalf("MoveElements called %d times, want 1", len(sink.moves))
	}
	got := movesByID(sink.moves[0])
	for id, m := range got {
		if m.ToPosition.X != 5 {
			t.Errorf("%s: left edge = %v, want 5 (minimum over batch)", id, m.ToPosition.X)
		}
	}
	// Vertical positions are untouched by a horizontal alignment.
	if got["a"].ToPosition.Y != 0 || got["b"].ToPosition.Y != 20 || got["c"].ToPosition.Y != 40 {
		t.Error("horizontal alignment changed vertical positions")
	}
}

func TestAlignEdges(t *testing.T) {
	// a spans x [30,40] y [0,10], b spans x [5,45] y [20,30].
	tests := []struct {
		name      string
		alignment Alignment
		wantA     geometry.Point
		wantB     geometry.Point
	}{
		{name: "left", alignment: AlignLeft, wantA: geometry.Point{X: 5, Y: 0}, wantB: geometry.Point{X: 5, Y: 20}},
		{name: "right", alignment: AlignRight, wantA: geometry.Point{X: 35, Y: 0}, wantB: geometry.Point{X: 5, Y: 20}},
		{name: "center", alignment: AlignCenter, wantA: geometry.Point{X: 20, Y: 0}, wantB: geometry.Point{X: 5, Y: 20}},
		{name: "top", alignment: AlignTop, wantA: geometry.Point{X: 30, Y: 0}, wantB: geometry.Point{X: 5, Y: 0}},
		{name: "bottom", alignment: AlignBottom, wantA: geometry.Point{X: 30, Y: 20}, wantB: geometry.Point{X: 5, Y: 20}},
		{name: "middle", alignment: AlignMiddle, wantA: geometry.Point{X: 30, Y: 10}, wantB: geometry.Point{X: 5, Y: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testNode("a", 30, 0, 10, 10)
			b := testNode("b", 5, 20, 40, 10)
			root := testTree(a, b)

			sink := &recordingSink{}
			cmd := NewAlign(AlignOperation{
				ElementIDs: []string{"a", "b"},
				Alignment:  tt.alignment,
				Select:     SelectAll,
			}, testServices(root, sink))
			cmd.Execute(root)

			got := movesByID(sink.moves[0])
			if got["a"].ToPosition != tt.wantA {
				t.Errorf("a: position = %+v, want %+v", got["a"].ToPosition, tt.wantA)
			}
			if got["b"].ToPosition != tt.wantB {
				t.Errorf("b: position = %+v, want %+v", got["b"].ToPosition, tt.wantB)
			}
		})
	}
}

func TestAlignSelectionSubsetOnlyShapesReference(t *testing.T) {
	a := testNode("a", 30, 0, 10, 10)
	b := testNode("b", 5, 20, 40, 10)
	c := testNode("c", 12, 40, 25, 10)
	root := testTree(a, b, c)

	sink := &recordingSink{}
	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"a", "b", "c"},
		Alignment:  AlignLeft,
		Select:     SelectFirst,
	}, testServices(root, sink))
	cmd.Execute(root)

	// Reference comes from a alone, but all three elements move.
	got := movesByID(sink.moves[0])
	if len(got) != 3 {
		t.Fatalf("moved %d elements, want 3", len(got))
	}
	for id, m := range got {
		if m.ToPosition.X != 30 {
			t.Errorf("%s: left edge = %v, want 30 (first element's edge)", id, m.ToPosition.X)
		}
	}
}

func TestAlignSingleElementLeftThenRightIsIdentity(t *testing.T) {
	// Aligning one element against itself never moves it, regardless of edge.
	for _, alignment := range []Alignment{AlignLeft, AlignRight, AlignCenter, AlignTop, AlignMiddle, AlignBottom} {
		t.Run(string(alignment), func(t *testing.T) {
			a := testNode("a", 30, 15, 10, 10)
			root := testTree(a)

			sink := &recordingSink{}
			cmd := NewAlign(AlignOperation{
				ElementIDs: []string{"a"},
				Alignment:  alignment,
				Select:     SelectAll,
			}, testServices(root, sink))
			cmd.Execute(root)

			got := movesByID(sink.moves[0])
			want := geometry.Point{X: 30, Y: 15}
			if got["a"].ToPosition != want {
				t.Errorf("position = %+v, want %+v", got["a"].ToPosition, want)
			}
		})
	}
}

func TestAlignMirrorsMovesIntoSubmittedOperation(t *testing.T) {
	a := testNode("a", 30, 0, 10, 10)
	b := testNode("b", 5, 20, 40, 10)
	root := testTree(a, b)

	sink := &recordingSink{}
	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"a", "b"},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}, testServices(root, sink))
	cmd.Execute(root)

	if len(sink.submitted) != 1 {
		t.Fatalf("SubmitChangeBounds called %d times, want 1", len(sink.submitted))
	}
	moves := movesByID(sink.moves[0])
	mirrored := batchByID(sink.submitted[0].NewBounds)
	if len(mirrored) != len(moves) {
		t.Fatalf("submitted %d bounds, want %d", len(mirrored), len(moves))
	}
	for id, m := range moves {
		eb := mirrored[id]
		if eb.NewPosition != m.ToPosition {
			t.Errorf("%s: submitted position %+v, local move to %+v", id, eb.NewPosition, m.ToPosition)
		}
	}
	// Sizes pass through unchanged.
	if mirrored["a"].NewSize != (geometry.Size{Width: 10, Height: 10}) {
		t.Errorf("a: submitted size = %+v, want 10x10", mirrored["a"].NewSize)
	}
}

func TestAlignRestrictorAdjustsDelta(t *testing.T) {
	a := testNode("a", 30, 0, 10, 10)
	b := testNode("b", 5, 20, 40, 10)
	root := testTree(a, b)

	sink := &recordingSink{}
	svc := testServices(root, sink)
	// Clamp every horizontal move to at most 10 units left.
	svc.Restrictor = RestrictorFunc(func(_ *model.Element, delta geometry.Point) (geometry.Point, bool) {
		if delta.X < -10 {
			delta.X = -10
		}
		return delta, true
	})

	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"a", "b"},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}, svc)
	cmd.Execute(root)

	got := movesByID(sink.moves[0])
	if got["a"].ToPosition.X != 20 {
		t.Errorf("a: left edge = %v, want 20 (clamped)", got["a"].ToPosition.X)
	}
	if got["b"].ToPosition.X != 5 {
		t.Errorf("b: left edge = %v, want 5", got["b"].ToPosition.X)
	}
}

func TestAlignNoQualifyingTargetsIsNoOp(t *testing.T) {
	root := testTree()
	sink := &recordingSink{}
	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"missing"},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}, testServices(root, sink))
	cmd.Execute(root)

	if len(sink.moves) != 0 || len(sink.submitted) != 0 {
		t.Errorf("no-op command emitted %d move batches, %d operations",
			len(sink.moves), len(sink.submitted))
	}
	if cmd.Moves() != nil {
		t.Errorf("Moves() = %v, want nil", cmd.Moves())
	}
}

func TestAlignLifecycle(t *testing.T) {
	a := testNode("a", 30, 0, 10, 10)
	b := testNode("b", 5, 20, 40, 10)
	root := testTree(a, b)

	sink := &recordingSink{}
	cmd := NewAlign(AlignOperation{
		ElementIDs: []string{"a", "b"},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}, testServices(root, sink))

	cmd.Execute(root)
	cmd.Execute(root)
	if len(sink.moves) != 1 {
		t.Errorf("MoveElements called %d times after double Execute, want 1", len(sink.moves))
	}

	cmd.Undo(root)
	cmd.Redo(root)
	if got := cmd.State(); got != StateRedone {
		t.Errorf("State() = %s, want redone", got)
	}
	// Redo replays recorded moves through the dispatcher; the command
	// itself must not recompute or re-emit.
	if len(sink.moves) != 1 {
		t.Errorf("MoveElements called %d times after undo/redo, want 1", len(sink.moves))
	}
}
