package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/marker"
)

// =============================================================================
// Diagram - Canonical Serialization Format
// =============================================================================

// Diagram is the canonical serialization format for a diagram document.
// The format is human-readable JSON and designed for round-trip fidelity:
// read → layout/edit → write → re-read produces identical structure.
type Diagram struct {
	ID      string          `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string          `json:"name,omitempty" bson:"name,omitempty"`
	Root    *Element        `json:"root" bson:"root"`
	Markers []marker.Marker `json:"markers,omitempty" bson:"markers,omitempty"`
}

// Validate checks structural invariants of the diagram: a root must be
// present and element ids must be unique and non-empty.
func (d *Diagram) Validate() error {
	if d.Root == nil {
		return errors.New(errors.ErrCodeInvalidDiagram, "diagram has no root element")
	}

	seen := make(map[string]bool)
	var dup, empty string
	d.Root.Walk(func(e *Element) bool {
		if e.ID == "" {
			empty = e.Type
			return false
		}
		if seen[e.ID] {
			dup = e.ID
			return false
		}
		seen[e.ID] = true
		return true
	})

	if empty != "" {
		return errors.New(errors.ErrCodeInvalidDiagram, "element of type %q has no id", empty)
	}
	if dup != "" {
		return errors.New(errors.ErrCodeInvalidDiagram, "duplicate element id %q", dup)
	}
	return nil
}

// Index builds an id index over the diagram's root.
func (d *Diagram) Index() *Index {
	return NewIndex(d.Root)
}

// Clone returns a deep copy of the diagram through a JSON round trip.
// The copy shares no pointers with the original.
func (d *Diagram) Clone() (*Diagram, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "clone diagram")
	}
	var out Diagram
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "clone diagram")
	}
	return &out, nil
}

// =============================================================================
// Reading
// =============================================================================

// ReadDiagram decodes and validates a diagram from r.
func ReadDiagram(r io.Reader) (*Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "decode diagram")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadDiagramFile reads a diagram from a JSON file.
func ReadDiagramFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadDiagram(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

// =============================================================================
// Writing
// =============================================================================

// Write encodes the diagram as indented JSON.
func (d *Diagram) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	return nil
}

// WriteFile writes the diagram to a JSON file.
func (d *Diagram) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return d.Write(f)
}

// Marshal returns the canonical JSON encoding, used for content hashing.
func (d *Diagram) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
