// Package model defines the diagram element tree and its serialization.
//
// An [Element] is a node in the diagram: containers hold ordered children,
// leaves carry content. Visual [geometry.Bounds] are layout *output*;
// [LayoutHints] carry layout *input* (preferred size, grab flags, container
// option overrides) and never change during a layout pass.
//
// The canonical on-disk format is a [Diagram] JSON document. The same
// structs carry bson tags for the MongoDB-backed store.
package model

import "github.com/diagramkit/diagramkit/pkg/geometry"

// =============================================================================
// Constants
// =============================================================================

// Element types.
const (
	TypeGraph     = "graph"     // diagram root
	TypeNode      = "node"      // plain node
	TypeContainer = "container" // node with stacked children
	TypeLabel     = "label"
	TypePort      = "port"
)

// =============================================================================
// Element
// =============================================================================

// Element is a node in the diagram model tree.
type Element struct {
	ID       string           `json:"id" bson:"id"`
	Type     string           `json:"type,omitempty" bson:"type,omitempty"`
	Children []*Element       `json:"children,omitempty" bson:"children,omitempty"`
	Bounds   *geometry.Bounds `json:"bounds,omitempty" bson:"bounds,omitempty"`
	Hints    *LayoutHints     `json:"layout,omitempty" bson:"layout,omitempty"`
}

// AddChild appends children to the element and returns it for chaining.
func (e *Element) AddChild(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Walk visits the element and all descendants in document (pre-order)
// sequence. Traversal stops early when visit returns false.
func (e *Element) Walk(visit func(*Element) bool) bool {
	if e == nil {
		return true
	}
	if !visit(e) {
		return false
	}
	for _, child := range e.Children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}

// PrefSize returns the preferred size from the layout hints, or nil.
// The preferred size is layout input; it is distinct from Bounds.
func (e *Element) PrefSize() *geometry.Size {
	if e.Hints == nil {
		return nil
	}
	return e.Hints.PrefSize
}

// =============================================================================
// LayoutHints
// =============================================================================

// LayoutHints carry per-element layout configuration. All fields are
// optional overrides: a nil field inherits the container default resolved
// by the layout engine. HGrab and VGrab request a share of leftover free
// space along the horizontal/vertical axis.
type LayoutHints struct {
	PrefSize *geometry.Size `json:"pref_size,omitempty" bson:"pref_size,omitempty"`

	HGrab *bool `json:"h_grab,omitempty" bson:"h_grab,omitempty"`
	VGrab *bool `json:"v_grab,omitempty" bson:"v_grab,omitempty"`

	// Container option overrides, applied when this element is laid out
	// as a container.
	ResizeContainer *bool    `json:"resize_container,omitempty" bson:"resize_container,omitempty"`
	PaddingTop      *float64 `json:"padding_top,omitempty" bson:"padding_top,omitempty"`
	PaddingBottom   *float64 `json:"padding_bottom,omitempty" bson:"padding_bottom,omitempty"`
	PaddingLeft     *float64 `json:"padding_left,omitempty" bson:"padding_left,omitempty"`
	PaddingRight    *float64 `json:"padding_right,omitempty" bson:"padding_right,omitempty"`
	PaddingFactor   *float64 `json:"padding_factor,omitempty" bson:"padding_factor,omitempty"`
	Gap             *float64 `json:"gap,omitempty" bson:"gap,omitempty"`
	MinWidth        *float64 `json:"min_width,omitempty" bson:"min_width,omitempty"`
	MinHeight       *float64 `json:"min_height,omitempty" bson:"min_height,omitempty"`
	HAlign          *string  `json:"h_align,omitempty" bson:"h_align,omitempty"`
}

// GrabHorizontal reports whether the element requests horizontal free space.
func (e *Element) GrabHorizontal() bool {
	return e.Hints != nil && e.Hints.HGrab != nil && *e.Hints.HGrab
}

// GrabVertical reports whether the element requests vertical free space.
func (e *Element) GrabVertical() bool {
	return e.Hints != nil && e.Hints.VGrab != nil && *e.Hints.VGrab
}

// =============================================================================
// Default Capability Classification
// =============================================================================

// Resizable reports whether an element may be resized by geometry commands.
// Labels and ports track their owner and are not independently resizable.
func Resizable(e *Element) bool {
	switch e.Type {
	case TypeNode, TypeContainer:
		return e.Bounds != nil
	default:
		return false
	}
}

// Moveable reports whether an element may be repositioned by geometry
// commands.
func Moveable(e *Element) bool {
	switch e.Type {
	case TypeNode, TypeContainer:
		return e.Bounds != nil
	default:
		return false
	}
}

// LayoutableChild reports whether an element participates in its
// container's layout pass.
func LayoutableChild(e *Element) bool {
	switch e.Type {
	case TypeNode, TypeContainer, TypeLabel:
		return true
	default:
		return false
	}
}
