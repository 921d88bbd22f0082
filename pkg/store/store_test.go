package store

import (
	"context"
	"testing"

	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

func sampleDiagram(id string) *model.Diagram {
	root := &model.Element{ID: "root", Type: model.TypeGraph}
	root.AddChild(&model.Element{
		ID:     "n1",
		Type:   model.TypeNode,
		Bounds: &geometry.Bounds{X: 1, Y: 2, Width: 30, Height: 40},
	})
	return &model.Diagram{ID: id, Name: "sample", Root: root}
}

// storeUnderTest runs the shared backend contract against one store.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Missing diagram
	_, err := s.Get(ctx, "missing")
	if !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Fatalf("Get(missing) = %v, want DIAGRAM_NOT_FOUND", err)
	}

	// Round trip
	d := sampleDiagram("d1")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != "d1" || got.Name != "sample" {
		t.Errorf("Get = {%s %s}, want {d1 sample}", got.ID, got.Name)
	}
	if got.Root == nil || len(got.Root.Children) != 1 || got.Root.Children[0].ID != "n1" {
		t.Error("retrieved diagram lost its element tree")
	}
	if b := got.Root.Children[0].Bounds; b == nil || b.Width != 30 {
		t.Error("retrieved diagram lost element bounds")
	}

	// Mutating a retrieved diagram must not leak into the store.
	got.Root.Children[0].Bounds.Width = 999
	got.Name = "scribbled"
	again, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if again.Name != "sample" || again.Root.Children[0].Bounds.Width != 30 {
		t.Errorf("stored diagram changed through a retrieved copy: name=%s width=%v",
			again.Name, again.Root.Children[0].Bounds.Width)
	}

	// Mutating the diagram after Put must not change the stored document.
	d.Root.Children[0].Bounds.Height = 999
	again, _ = s.Get(ctx, "d1")
	if again.Root.Children[0].Bounds.Height != 40 {
		t.Errorf("stored diagram changed through the caller's pointer: height=%v",
			again.Root.Children[0].Bounds.Height)
	}

	// List
	if err := s.Put(ctx, sampleDiagram("d2")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List = %v, want 2 ids", ids)
	}

	// Replace keeps one document per id
	d.Name = "renamed"
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put (replace) error: %v", err)
	}
	got, _ = s.Get(ctx, "d1")
	if got.Name != "renamed" {
		t.Errorf("after replace Name = %s, want renamed", got.Name)
	}

	// Delete, including a missing id
	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("Get after Delete = %v, want DIAGRAM_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "never-stored"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	storeUnderTest(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer s.Close(context.Background())
	storeUnderTest(t, s)
}

func TestPutRejectsInvalidDiagram(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.Put(ctx, &model.Diagram{ID: "bad"})
	if !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("Put(no root) = %v, want INVALID_DIAGRAM", err)
	}

	root := &model.Element{ID: "root", Type: model.TypeGraph}
	root.AddChild(&model.Element{ID: "dup"}, &model.Element{ID: "dup"})
	err = s.Put(ctx, &model.Diagram{ID: "bad", Root: root})
	if !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("Put(duplicate ids) = %v, want INVALID_DIAGRAM", err)
	}
}
